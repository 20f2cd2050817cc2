package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/api/http/handler"
	"github.com/Defimaso/Diario362-sub001/internal/api/http/middleware"
	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/service/absence"
	"github.com/Defimaso/Diario362-sub001/internal/service/assignment"
	"github.com/Defimaso/Diario362-sub001/internal/service/event"
	"github.com/Defimaso/Diario362-sub001/internal/service/notification"
	"github.com/Defimaso/Diario362-sub001/internal/service/push"
	"github.com/Defimaso/Diario362-sub001/internal/service/reminder"
	"github.com/Defimaso/Diario362-sub001/pkg/authorize"
	pasetotoken "github.com/Defimaso/Diario362-sub001/pkg/paseto"
	"github.com/Defimaso/Diario362-sub001/pkg/vapid"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Redis           *redis.Client `optional:"true"`
	Auth            authorize.IAuthorization
	DB              *repo.Client
	Pipeline        *event.Pipeline
	Scanner         *absence.Scanner
	Broadcaster     *reminder.Broadcaster
	NotificationSvc notification.Service
	Subscriptions   push.Subscriptions
	AssignmentSvc   assignment.Service
	PasetoMgr       *pasetotoken.Manager
	VAPID           *vapid.KeyPair
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Middlewares
	var sessions middleware.Sessions
	if r.p.Redis != nil {
		sessions = middleware.RedisSessions(r.p.Redis)
	}
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, sessions)
	webhook := middleware.WebhookSecret(r.p.Cfg.Webhook.Secret)

	roles := r.p.DB.Profiles()
	requirePriv := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePrivileged(r.p.Auth, roles, res, act)
	}

	// 3. Handlers
	eventH := handler.NewEventHandler(r.p.Pipeline)
	pushH := handler.NewPushHandler(r.p.Subscriptions, r.p.VAPID.PublicKeyString())
	notificationH := handler.NewNotificationHandler(r.p.NotificationSvc)
	jobH := handler.NewJobHandler(r.p.Scanner, r.p.Broadcaster)
	assignmentH := handler.NewAssignmentHandler(r.p.AssignmentSvc)

	api := app.Group("/api/v1")

	r.registerEventRoutes(api, eventH, authRequired, requirePriv)
	r.registerPushRoutes(api, pushH, authRequired)
	r.registerNotificationRoutes(api, notificationH, authRequired)
	r.registerJobRoutes(api, jobH, webhook)
	r.registerAdminRoutes(api, jobH, assignmentH, authRequired, requirePriv)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			if r.p.Cfg.Authorization.HealthCheckEnabled && !authorize.IsPolicyHealthy() {
				return false
			}
			sqlDB, err := r.p.DB.DB.DB()
			return err == nil && sqlDB.PingContext(c.Context()) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
