package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Defimaso/Diario362-sub001/config"
)

func TestOptionsDefaults(t *testing.T) {
	opts := options(config.RedisConfig{Addr: "localhost:6379"})

	assert.Equal(t, 10, opts.PoolSize)
	assert.Equal(t, 2, opts.MinIdleConns)
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
	assert.Equal(t, 3*time.Second, opts.ReadTimeout)
	assert.Equal(t, 3*time.Second, opts.WriteTimeout)
}

func TestOptionsOverrides(t *testing.T) {
	opts := options(config.RedisConfig{
		Addr:               "cache:6380",
		DB:                 2,
		PoolSize:           32,
		MinIdleConns:       4,
		ReadTimeoutSeconds: 1,
	})

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 32, opts.PoolSize)
	assert.Equal(t, 4, opts.MinIdleConns)
	assert.Equal(t, time.Second, opts.ReadTimeout)
}

func TestOpenWithoutAddr(t *testing.T) {
	_, err := Open(context.Background(), config.RedisConfig{})
	assert.True(t, errors.Is(err, ErrNoAddr))
}

func TestSessionKey(t *testing.T) {
	id := uuid.MustParse("0190f5a0-0000-7000-8000-000000000001")
	assert.Equal(t, "session:0190f5a0-0000-7000-8000-000000000001", SessionKey(id))
}
