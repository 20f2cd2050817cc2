package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/service/event"
)

// WorkerModule registers the NATS event worker.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	NC       *nats.Conn `optional:"true"`
	Pipeline *event.Pipeline
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Info("event_worker: nats not configured, skipping")
		return
	}

	var sub *nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			sub, err = startEventWorker(p.NC, p.Cfg.Nats.Subject, p.Pipeline)
			return err
		},
		OnStop: func(ctx context.Context) error {
			// Connection drain is handled by ProvideNatsClient.
			if sub != nil {
				return sub.Unsubscribe()
			}
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// event_worker
// ---------------------------------------------------------------------------

// startEventWorker hands every `diario.event.<type>` message to the pipeline
// as a fire-and-forget submission. The subject suffix fills in a missing type.
func startEventWorker(nc *nats.Conn, subject string, pipeline *event.Pipeline) (*nats.Subscription, error) {
	if subject == "" {
		subject = "diario.event.*"
	}

	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		e, err := decodeEvent(msg)
		if err != nil {
			slog.Warn("event_worker: invalid message", "subject", msg.Subject, "err", err)
			return
		}
		if err := pipeline.Submit(context.Background(), e); err != nil {
			slog.Warn("event_worker: submit failed", "subject", msg.Subject, "type", e.Type, "err", err)
		}
	})
	if err != nil {
		slog.Error("event_worker: subscribe failed", "subject", subject, "err", err)
		return nil, err
	}

	slog.Info("event_worker: started", "subject", subject)
	return sub, nil
}

func decodeEvent(msg *nats.Msg) (event.Event, error) {
	var e event.Event
	if err := json.Unmarshal(msg.Data, &e); err != nil {
		return event.Event{}, err
	}
	if e.Type == "" {
		if i := strings.LastIndexByte(msg.Subject, '.'); i >= 0 {
			e.Type = msg.Subject[i+1:]
		}
	}
	return e, nil
}
