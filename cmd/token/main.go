// Command token prints a bearer token for local testing, signed with the
// configured JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	appmw "leave-engine/internal/adapter/middleware"
	"leave-engine/internal/config"
)

func main() {
	sub := flag.String("sub", "", "actor id to put in the subject claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *sub == "" {
		log.Fatal("-sub is required")
	}
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if len(cfg.JWTSecret) < 16 {
		log.Fatal("JWT_SECRET must be at least 16 characters")
	}
	tok, err := appmw.IssueToken([]byte(cfg.JWTSecret), *sub, *ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(tok)
}
