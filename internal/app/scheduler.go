package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/service/absence"
	"github.com/Defimaso/Diario362-sub001/internal/service/reminder"
)

// SchedulerModule runs the periodic jobs in-process when scheduler.enabled is
// set. Deployments driven by an external scheduler leave it off and call the
// webhook routes instead.
var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(RegisterScheduler),
)

type SchedulerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Scanner     *absence.Scanner
	Broadcaster *reminder.Broadcaster
}

func RegisterScheduler(p SchedulerParams) error {
	if !p.Cfg.Scheduler.Enabled {
		return nil
	}

	c, err := NewScheduler(p.Cfg.Scheduler, p.Scanner, p.Broadcaster)
	if err != nil {
		return err
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			slog.Info("scheduler: started",
				"absence_spec", p.Cfg.Scheduler.AbsenceSpec,
				"reminder_spec", p.Cfg.Scheduler.ReminderSpec,
				"timezone", p.Cfg.Scheduler.Location().String(),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	return nil
}

// NewScheduler registers both jobs on a cron evaluated in the scheduler
// timezone. Overlapping runs of the same job are skipped.
func NewScheduler(cfg config.SchedulerConfig, scanner *absence.Scanner, broadcaster *reminder.Broadcaster) (*cron.Cron, error) {
	logger := cron.VerbosePrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug))
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(cfg.AbsenceSpec, func() {
		sum, err := scanner.Run(context.Background())
		if err != nil {
			slog.Error("scheduler: absence scan failed", "err", err)
			return
		}
		slog.Info("scheduler: absence scan", "scanned", sum.Scanned, "absent", sum.Absent, "emitted", sum.Emitted)
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cfg.ReminderSpec, func() {
		sum, err := broadcaster.Run(context.Background())
		if err != nil {
			slog.Error("scheduler: daily reminder failed", "err", err)
			return
		}
		slog.Info("scheduler: daily reminder", "targeted", sum.Targeted, "sent", sum.Sent)
	}); err != nil {
		return nil, err
	}

	return c, nil
}
