// internal/database/connection.go
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/store"
)

// Open returns the document store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "file":
		s, err := store.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			return nil, err
		}
		logrus.WithField("dir", cfg.Store.DataDir).Info("Using JSON file store")
		return s, nil

	case "sql":
		db, err := Initialize(cfg.Database)
		if err != nil {
			return nil, err
		}
		s, err := store.NewSQLStore(db)
		if err != nil {
			closeDB(db)
			return nil, err
		}
		return s, nil

	case "mongo":
		s, err := store.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
		if err != nil {
			return nil, err
		}
		logrus.WithField("database", cfg.Mongo.Database).Info("Using MongoDB store")
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

var gormLogLevels = map[string]logger.LogLevel{
	"silent": logger.Silent,
	"error":  logger.Error,
	"warn":   logger.Warn,
	"info":   logger.Info,
}

// Initialize opens a gorm connection for the SQL document backend.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	level, ok := gormLogLevels[cfg.LogLevel]
	if !ok {
		level = logger.Silent
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Dialect == "sqlite" {
		// single writer; avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.Dialect, err)
	}

	logrus.WithField("dialect", cfg.Dialect).Info("SQL document store connected")
	return db, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Dialect {
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); cfg.SQLitePath != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return sqlite.Open(cfg.DSN()), nil
	case "postgres", "":
		return postgres.Open(cfg.DSN()), nil
	}
	return nil, fmt.Errorf("unknown DB_DIALECT %q", cfg.Dialect)
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to close SQL connection")
	}
}
