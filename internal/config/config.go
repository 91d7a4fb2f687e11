package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppPort string `mapstructure:"app_port"`

	DBDriver  string `mapstructure:"db_driver"`
	MySQLHost string `mapstructure:"mysql_host"`
	MySQLPort string `mapstructure:"mysql_port"`
	MySQLDB   string `mapstructure:"mysql_db"`
	MySQLUser string `mapstructure:"mysql_user"`
	MySQLPass string `mapstructure:"mysql_pass"`
	// SQLitePath is used when DBDriver is sqlite (local runs).
	SQLitePath     string `mapstructure:"sqlite_path"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`

	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`

	IdempTTLSecs int `mapstructure:"idempotency_ttl_seconds"`

	// StoreTimeout bounds every storage interaction; StoreAttempts caps
	// retries on storage conflicts.
	StoreTimeout  time.Duration `mapstructure:"store_timeout"`
	StoreAttempts int           `mapstructure:"store_attempts"`

	// ApprovalLevels is how many approvals settle a request.
	ApprovalLevels int `mapstructure:"approval_levels"`

	JWTSecret string `mapstructure:"jwt_secret"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads defaults, then the optional YAML file at path (or ./config.yaml),
// then environment variables named after the keys in upper case.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app_port", "8080")
	v.SetDefault("db_driver", DriverMySQL)
	v.SetDefault("mysql_host", "mysql")
	v.SetDefault("mysql_port", "3306")
	v.SetDefault("mysql_db", "leave")
	v.SetDefault("mysql_user", "leave")
	v.SetDefault("mysql_pass", "leave")
	v.SetDefault("sqlite_path", "leave.db")
	v.SetDefault("migrate_on_start", true)
	v.SetDefault("redis_addr", "redis:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("idempotency_ttl_seconds", 300)
	v.SetDefault("store_timeout", "5s")
	v.SetDefault("store_attempts", 3)
	v.SetDefault("approval_levels", 1)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.ApprovalLevels < 1 {
		return fmt.Errorf("APPROVAL_LEVELS must be at least 1, got %d", c.ApprovalLevels)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is needed by migrations; parseTime for DATE/DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
