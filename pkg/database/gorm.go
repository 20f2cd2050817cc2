package database

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/repo"
)

// NewClient opens the application database from central config.
func NewClient(cfg config.DatabaseConfig, log *slog.Logger) (*repo.Client, error) {
	return NewClientFromConfig(FromCentralConfig(cfg), log)
}

// NewClientFromConfig reuses the pooled lib/pq handle for gorm so pool
// settings apply to both.
func NewClientFromConfig(cfg Config, log *slog.Logger) (*repo.Client, error) {
	sqlDB, err := openSQLDB(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger(cfg, log),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	return repo.New(db), nil
}

func Migrate(ctx context.Context, client *repo.Client) error {
	if err := client.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func gormLogger(cfg Config, log *slog.Logger) logger.Interface {
	if log == nil {
		log = slog.Default()
	}
	level := logger.Warn
	if cfg.EnableLogging {
		level = logger.Info
	}
	return logger.NewSlogLogger(log.With(slog.String("component", "gorm")), logger.Config{
		SlowThreshold:             cfg.SlowQueryThreshold(),
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
