package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leave-engine/internal/config"
)

// OpenGorm connects to the store selected by cfg.DBDriver.
func OpenGorm(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dial = mysql.Open(cfg.MySQLDSN())
	case config.DriverSQLite:
		dial = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	db, err := OpenGormWithDialector(dial, GormLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	if cfg.DBDriver == config.DriverSQLite {
		// sqlite has one writer; a single connection avoids SQLITE_BUSY
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	log.Info("gorm: connected", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// OpenGormWithDialector opens, tunes the pool and pings. Duplicate-key
// errors come back as gorm.ErrDuplicatedKey.
func OpenGormWithDialector(dial gorm.Dialector, level ...logger.LogLevel) (*gorm.DB, error) {
	lvl := logger.Warn
	if len(level) > 0 {
		lvl = level[0]
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(lvl),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// GormLogLevel keeps SQL echo for debug runs only.
func GormLogLevel(appLevel string) logger.LogLevel {
	switch appLevel {
	case "debug":
		return logger.Info
	case "error", "dpanic", "panic", "fatal":
		return logger.Error
	default:
		return logger.Warn
	}
}
