package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/staff"
	"github.com/Defimaso/Diario362-sub001/pkg/authorize"
	"github.com/Defimaso/Diario362-sub001/pkg/database"
	"github.com/Defimaso/Diario362-sub001/pkg/observability"
	redispkg "github.com/Defimaso/Diario362-sub001/pkg/redis"
	"github.com/Defimaso/Diario362-sub001/pkg/vapid"
)

// LoggerOption silences fx's own event log; the process logger is installed
// before the graph is built.
var LoggerOption = fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger })

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvideVAPIDKeys),
	fx.Provide(ProvideStaffDirectory),
)

func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config) (*repo.Client, error) {
	client, err := database.NewClient(cfg.Database, slog.Default())
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return client.Close()
		},
	})
	return client, nil
}

// ProvideRedis returns nil when no address is configured; session checks and
// the shared rate limiter are then skipped.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		slog.Warn("redis disabled: session checks and rate limiting are off")
		return nil, nil
	}
	rdb, err := redispkg.Open(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideAuthorization(lc fx.Lifecycle, cfg *config.Config) (authorize.IAuthorization, error) {
	acfg := authorize.FromCentralConfig(cfg.Authorization)

	dsn := database.NewDSN(cfg.CasbinDatabase)
	enforcer, cleanup, err := authorize.NewEnforcer(acfg.CasbinModelPath, dsn)
	if err != nil {
		return nil, err
	}
	var auth authorize.IAuthorization
	auth, err = authorize.NewAuthorization(enforcer)
	if err != nil {
		cleanup(context.Background())
		return nil, err
	}
	if acfg.EnableAudit {
		auth = authorize.NewAuditedAuthorization(auth, slog.Default())
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("cleaning up Casbin enforcer")
			cleanup(ctx)
			return nil
		},
	})
	return auth, nil
}

// ProvideNatsClient returns nil when no URL is configured; the event worker
// then stays idle.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name(cfg.Observability.ServiceName))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideVAPIDKeys fails startup on a malformed key pair so no request ever
// runs against a broken push identity.
func ProvideVAPIDKeys(cfg *config.Config) (*vapid.KeyPair, error) {
	return vapid.Parse(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)
}

func ProvideStaffDirectory(cfg *config.Config) *staff.Directory {
	dir := staff.FromConfig(cfg.Staff)
	slog.Info("staff directory loaded", "entries", dir.Len())
	return dir
}
