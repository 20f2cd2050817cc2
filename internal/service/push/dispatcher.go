// Package push delivers notifications over the Web Push protocol and keeps
// the subscription store free of endpoints the push service reports gone.
package push

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

// Store is the slice of the subscription store the dispatcher touches.
type Store interface {
	ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]schema.PushSubscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Result tallies one dispatch. Removed is a subset of Failed.
type Result struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Removed int `json:"removed"`
}

func (r *Result) Add(o Result) {
	r.Sent += o.Sent
	r.Failed += o.Failed
	r.Removed += o.Removed
}

type outcome string

const (
	outcomeSent    outcome = "sent"
	outcomeGone    outcome = "gone"
	outcomeFailed  outcome = "failed"
	outcomeNoReply outcome = "error"
)

type Dispatcher struct {
	store      Store
	sender     Sender
	workers    int
	timeout    time.Duration
	deliveries metric.Int64Counter
}

func NewDispatcher(store Store, sender Sender, cfg config.PushConfig) *Dispatcher {
	workers := cfg.Workers
	if workers < 1 {
		workers = 8
	}
	counter, err := otel.Meter("diario/push").Int64Counter(
		"push_deliveries_total",
		metric.WithDescription("Web Push delivery attempts by outcome"),
	)
	if err != nil {
		slog.Warn("push: counter unavailable", "err", err)
	}
	return &Dispatcher{
		store:      store,
		sender:     sender,
		workers:    workers,
		timeout:    cfg.SendTimeout(),
		deliveries: counter,
	}
}

// Dispatch sends payload once to every subscription of every target. Sends
// run on a bounded pool and each carries its own timeout. A subscription
// answered with 404 or 410 is deleted; any other failure leaves it in place.
// Store read errors are logged and yield an empty result.
func (d *Dispatcher) Dispatch(ctx context.Context, targets []uuid.UUID, payload Payload) Result {
	if len(targets) == 0 {
		return Result{}
	}

	subs, err := d.store.ListByUsers(ctx, targets)
	if err != nil {
		slog.ErrorContext(ctx, "push: list subscriptions failed", "targets", len(targets), "err", err)
		return Result{}
	}
	if len(subs) == 0 {
		slog.DebugContext(ctx, "push: no subscriptions", "targets", len(targets))
		return Result{}
	}

	message, err := payload.Marshal()
	if err != nil {
		slog.ErrorContext(ctx, "push: marshal payload failed", "err", err)
		return Result{Failed: len(subs)}
	}

	var sent, failed, removed atomic.Int64
	p := pool.New().WithMaxGoroutines(d.workers)
	for _, sub := range subs {
		p.Go(func() {
			switch d.deliver(ctx, sub, message) {
			case outcomeSent:
				sent.Add(1)
			case outcomeGone:
				failed.Add(1)
				removed.Add(1)
			default:
				failed.Add(1)
			}
		})
	}
	p.Wait()

	res := Result{Sent: int(sent.Load()), Failed: int(failed.Load()), Removed: int(removed.Load())}
	slog.InfoContext(ctx, "push: dispatch finished",
		"subscriptions", len(subs), "sent", res.Sent, "failed", res.Failed, "removed", res.Removed)
	return res
}

func (d *Dispatcher) deliver(ctx context.Context, sub schema.PushSubscription, message []byte) outcome {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	status, err := d.sender.Send(sendCtx, sub, message)
	o := classify(status, err)

	switch o {
	case outcomeGone:
		if derr := d.store.Delete(ctx, sub.ID); derr != nil {
			slog.ErrorContext(ctx, "push: delete expired subscription failed",
				"subscription_id", sub.ID, "err", derr)
		} else {
			slog.InfoContext(ctx, "push: removed expired subscription",
				"subscription_id", sub.ID, "user_id", sub.UserID, "status", status)
		}
	case outcomeFailed, outcomeNoReply:
		slog.WarnContext(ctx, "push: delivery failed",
			"subscription_id", sub.ID, "user_id", sub.UserID, "status", status, "err", err)
	}

	if d.deliveries != nil {
		d.deliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(o))))
	}
	return o
}

func classify(status int, err error) outcome {
	switch {
	case err != nil:
		return outcomeNoReply
	case status == http.StatusNotFound || status == http.StatusGone:
		return outcomeGone
	case status >= 200 && status < 300:
		return outcomeSent
	default:
		return outcomeFailed
	}
}
