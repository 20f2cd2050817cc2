package app

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/service/absence"
	"github.com/Defimaso/Diario362-sub001/internal/service/assignment"
	"github.com/Defimaso/Diario362-sub001/internal/service/event"
	"github.com/Defimaso/Diario362-sub001/internal/service/notification"
	"github.com/Defimaso/Diario362-sub001/internal/service/push"
	"github.com/Defimaso/Diario362-sub001/internal/service/recipient"
	"github.com/Defimaso/Diario362-sub001/internal/service/reminder"
	"github.com/Defimaso/Diario362-sub001/internal/staff"
	pasetotoken "github.com/Defimaso/Diario362-sub001/pkg/paseto"
	"github.com/Defimaso/Diario362-sub001/pkg/vapid"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideResolver,
		ProvideWriter,
		ProvideSender,
		ProvideDispatcher,
		ProvideBranding,
		ProvidePipeline,
		ProvideAbsenceScanner,
		ProvideReminderBroadcaster,
		ProvideNotificationService,
		ProvideSubscriptions,
		ProvideAssignmentService,
		ProvidePasetoManager,
	),
)

func ProvideResolver(db *repo.Client, dir *staff.Directory, cfg *config.Config) *recipient.Resolver {
	return recipient.New(db.AssignmentView(), dir, cfg.Staff.LegacySeparator)
}

func ProvideWriter(db *repo.Client) *notification.Writer {
	return notification.NewWriter(db.Notifications())
}

func ProvideSender(cfg *config.Config, keys *vapid.KeyPair) push.Sender {
	return push.NewWebPushSender(cfg.Push, keys)
}

func ProvideDispatcher(db *repo.Client, sender push.Sender, cfg *config.Config) *push.Dispatcher {
	return push.NewDispatcher(db.Subscriptions(), sender, cfg.Push)
}

func ProvideBranding(cfg *config.Config) push.Branding {
	return push.Branding{Icon: cfg.Push.Icon, Badge: cfg.Push.Badge}
}

// ProvidePipeline waits for queued events on shutdown, bounded by the fx stop
// timeout.
func ProvidePipeline(
	lc fx.Lifecycle,
	resolver *recipient.Resolver,
	writer *notification.Writer,
	dispatcher *push.Dispatcher,
	db *repo.Client,
	branding push.Branding,
	cfg *config.Config,
) *event.Pipeline {
	p := event.New(resolver, writer, dispatcher, db.Profiles(), event.Options{
		Branding:     branding,
		AsyncTimeout: cfg.Events.AsyncTimeout(),
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("waiting for queued events")
			return p.Wait(ctx)
		},
	})
	return p
}

func ProvideAbsenceScanner(db *repo.Client, pipeline *event.Pipeline, cfg *config.Config) *absence.Scanner {
	return absence.NewScanner(db.CheckIns(), db.AbsenceLedger(), pipeline, cfg.Scheduler.Location())
}

func ProvideReminderBroadcaster(db *repo.Client, dispatcher *push.Dispatcher, branding push.Branding, cfg *config.Config) *reminder.Broadcaster {
	return reminder.NewBroadcaster(db.Subscriptions(), db.CheckIns(), dispatcher, branding, cfg.Scheduler.Location())
}

func ProvideNotificationService(db *repo.Client) notification.Service {
	return notification.New(db)
}

func ProvideSubscriptions(db *repo.Client) push.Subscriptions {
	return push.NewSubscriptions(db)
}

func ProvideAssignmentService(db *repo.Client, dir *staff.Directory) assignment.Service {
	return assignment.New(db, dir)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
