// Package reminder pushes the daily check-in reminder to subscribers who
// have not checked in yet.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/internal/service/notification"
	"github.com/Defimaso/Diario362-sub001/internal/service/push"
)

type Subscribers interface {
	DistinctUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type CheckIns interface {
	UserIDsBetween(ctx context.Context, from, to time.Time) ([]uuid.UUID, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, targets []uuid.UUID, p push.Payload) push.Result
}

type Summary struct {
	Subscribed int `json:"subscribed"`
	CheckedIn  int `json:"checkedIn"`
	Targeted   int `json:"targeted"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
	Removed    int `json:"removed"`
}

type Broadcaster struct {
	subscribers Subscribers
	checkIns    CheckIns
	dispatcher  Dispatcher
	branding    push.Branding
	loc         *time.Location
	now         func() time.Time
}

func NewBroadcaster(subs Subscribers, checkIns CheckIns, dispatcher Dispatcher, branding push.Branding, loc *time.Location) *Broadcaster {
	if loc == nil {
		loc = time.UTC
	}
	return &Broadcaster{
		subscribers: subs,
		checkIns:    checkIns,
		dispatcher:  dispatcher,
		branding:    branding,
		loc:         loc,
		now:         time.Now,
	}
}

// WithClock replaces the time source.
func (b *Broadcaster) WithClock(now func() time.Time) *Broadcaster {
	b.now = now
	return b
}

// Run targets subscribed users without a check-in dated today. The reminder
// is push-only; nothing is written to the in-app inbox.
func (b *Broadcaster) Run(ctx context.Context) (Summary, error) {
	subscribed, err := b.subscribers.DistinctUserIDs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list subscribers: %w", err)
	}

	from, to := b.today()
	checkedIn, err := b.checkIns.UserIDsBetween(ctx, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("list today's check-ins: %w", err)
	}

	targets, _ := lo.Difference(subscribed, checkedIn)
	sum := Summary{Subscribed: len(subscribed), CheckedIn: len(checkedIn), Targeted: len(targets)}
	if len(targets) == 0 {
		slog.InfoContext(ctx, "reminder: nobody to remind", "subscribed", sum.Subscribed)
		return sum, nil
	}

	content, err := notification.Compose(notification.Input{Type: schema.TypeDailyReminder})
	if err != nil {
		return sum, err
	}
	res := b.dispatcher.Dispatch(ctx, targets, b.branding.Payload(content))
	sum.Sent, sum.Failed, sum.Removed = res.Sent, res.Failed, res.Removed

	slog.InfoContext(ctx, "reminder: broadcast finished",
		"subscribed", sum.Subscribed, "targeted", sum.Targeted, "sent", sum.Sent, "failed", sum.Failed)
	return sum, nil
}

// today returns the calendar date in the scheduler zone as a UTC-midnight
// half-open range, matching how check-in dates are stored.
func (b *Broadcaster) today() (time.Time, time.Time) {
	n := b.now().In(b.loc)
	from := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}
