package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Defimaso/Diario362-sub001/config"
)

var (
	ErrNoAddr          = errors.New("redis addr is empty")
	ErrSessionNotFound = errors.New("session not found")
)

// Open dials Redis and pings it once before returning.
func Open(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrNoAddr
	}

	rdb := goredis.NewClient(options(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, seconds(cfg.DialTimeoutSeconds, 5))
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

func options(cfg config.RedisConfig) *goredis.Options {
	opts := &goredis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  seconds(cfg.DialTimeoutSeconds, 5),
		ReadTimeout:  seconds(cfg.ReadTimeoutSeconds, 3),
		WriteTimeout: seconds(cfg.WriteTimeoutSeconds, 3),
		PoolSize:     10,
		MinIdleConns: 2,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	return opts
}

func seconds(n, def int) time.Duration {
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}

// SessionKey is the key the auth service writes for each live login.
func SessionKey(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}

// SessionActive returns ErrSessionNotFound once the session key has expired
// or been revoked.
func SessionActive(ctx context.Context, rdb *goredis.Client, sessionID uuid.UUID) error {
	n, err := rdb.Exists(ctx, SessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("session lookup: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
