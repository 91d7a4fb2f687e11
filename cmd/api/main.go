package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "leave-engine/internal/adapter/http"
	appmw "leave-engine/internal/adapter/middleware"
	"leave-engine/internal/adapter/notify"
	repo "leave-engine/internal/adapter/repository/mysql"
	"leave-engine/internal/config"
	"leave-engine/internal/infrastructure/cache"
	"leave-engine/internal/infrastructure/db"
	"leave-engine/internal/usecase/approval"
	"leave-engine/internal/usecase/conflict"
	"leave-engine/internal/usecase/events"
	"leave-engine/internal/usecase/ledger"
	"leave-engine/internal/usecase/request"
	"leave-engine/internal/usecase/txrun"
	"leave-engine/pkg/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	gdb, err := db.OpenGorm(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.MigrateOnStart {
		if err := migrate(ctx, cfg, gdb, log); err != nil {
			return err
		}
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// storage and collaborators
	repos := repo.NewRepos(gdb)
	unit := repo.NewGormUoW(gdb)
	staff := repo.NewStaffDirectory(gdb)
	scheduler := repo.NewJobScheduler(gdb)
	publisher := notify.NewRedisPublisher(rdb, notify.DefaultChannel)

	// engine
	runner := txrun.Runner{Timeout: cfg.StoreTimeout, Attempts: cfg.StoreAttempts}
	led := ledger.New(repos.Entitlements, log)
	detector := conflict.NewDetector(scheduler, log)
	dispatcher := events.NewDispatcher(publisher, log)
	coord := approval.NewCoordinator(approval.Deps{
		Repos:      repos,
		UoW:        unit,
		Ledger:     led,
		Authorizer: staff,
		Conflicts:  detector,
		Events:     dispatcher,
		Runner:     runner,
		Levels:     cfg.ApprovalLevels,
		Log:        log,
	})
	requests := request.NewUsecase(request.Deps{
		Repos:      repos,
		UoW:        unit,
		Ledger:     led,
		Approvals:  coord,
		Authorizer: staff,
		Directory:  staff,
		Conflicts:  detector,
		Events:     dispatcher,
		Runner:     runner,
		Log:        log,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = readHeaderTimeout
	e.Server.ReadTimeout = readTimeout
	e.Server.WriteTimeout = writeTimeout
	e.Server.IdleTimeout = idleTimeout
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), appmw.RequestID(), appmw.AccessLog(log))

	httpadp.Register(e, httpadp.Handlers{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"database": sqlDB.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Requests:     httpadp.NewRequestHandler(requests, log),
		Approvals:    httpadp.NewApprovalHandler(coord, log),
		Entitlements: httpadp.NewEntitlementHandler(led, log),
	},
		appmw.JWTAuth([]byte(cfg.JWTSecret)),
		appmw.Idempotency(rdb, cfg.IdempotencyTTL(), log),
	)

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = e.Shutdown(sctx)
	dispatcher.Wait()
	return err
}

// migrate applies the embedded SQL migrations on MySQL. SQLite has no
// migration driver wired, so local runs build the schema from the models.
func migrate(ctx context.Context, cfg *config.Config, gdb *gorm.DB, log *zap.Logger) error {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return db.RunMigrations(sqlDB, log)
	default:
		if err := repo.AutoMigrate(gdb); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		if err := repo.SeedHolidayTypes(ctx, gdb); err != nil {
			return err
		}
		log.Info("schema ready", zap.String("driver", cfg.DBDriver))
		return nil
	}
}
