// Package absence finds clients who stopped checking in and alerts their
// coaches.
package absence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/internal/service/event"
	"github.com/Defimaso/Diario362-sub001/internal/service/notification"
)

// Thresholds in calendar days since the last check-in.
const (
	FirstReminderDays = 2
	AlertDays         = 5
)

// Source lists each client's most recent check-in.
type Source interface {
	LatestPerClient(ctx context.Context) ([]repo.ClientLastCheckIn, error)
}

// Ledger records every emission.
type Ledger interface {
	Append(ctx context.Context, userID uuid.UUID, kind string) error
}

type Pipeline interface {
	Dispatch(ctx context.Context, e event.Event) (event.Result, error)
}

// Summary is returned to the job trigger.
type Summary struct {
	Scanned  int `json:"scanned"`
	Absent   int `json:"absent"`
	Emitted  int `json:"emitted"`
	InApp    int `json:"inApp"`
	Sent     int `json:"sent"`
	Failures int `json:"failures"`
}

type Scanner struct {
	source   Source
	ledger   Ledger
	pipeline Pipeline
	loc      *time.Location
	now      func() time.Time
}

func NewScanner(source Source, ledger Ledger, pipeline Pipeline, loc *time.Location) *Scanner {
	if loc == nil {
		loc = time.UTC
	}
	return &Scanner{source: source, ledger: ledger, pipeline: pipeline, loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (s *Scanner) WithClock(now func() time.Time) *Scanner {
	s.now = now
	return s
}

// Run processes every absent client in turn. A failure on one client is
// logged and counted; the scan continues.
//
// Every run appends to the ledger without consulting earlier rows, so a
// client who stays absent is reported again on each run.
func (s *Scanner) Run(ctx context.Context) (Summary, error) {
	clients, err := s.source.LatestPerClient(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list last check-ins: %w", err)
	}

	today := s.now().In(s.loc)
	sum := Summary{Scanned: len(clients)}

	for _, c := range clients {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		days := DaysSince(c.LastDate, today)
		kinds := KindsFor(days)
		if len(kinds) == 0 {
			continue
		}
		sum.Absent++

		for _, kind := range kinds {
			res, err := s.emit(ctx, c, kind, days)
			if err != nil {
				sum.Failures++
				slog.ErrorContext(ctx, "absence: emission failed",
					"client_id", c.ClientID, "kind", kind, "days", days, "err", err)
				continue
			}
			sum.Emitted++
			sum.InApp += res.InApp
			sum.Sent += res.Sent
		}
	}

	slog.InfoContext(ctx, "absence: scan finished",
		"scanned", sum.Scanned, "absent", sum.Absent, "emitted", sum.Emitted, "failures", sum.Failures)
	return sum, nil
}

func (s *Scanner) emit(ctx context.Context, c repo.ClientLastCheckIn, kind string, days int) (event.Result, error) {
	if err := s.ledger.Append(ctx, c.ClientID, kind); err != nil {
		return event.Result{}, err
	}
	return s.pipeline.Dispatch(ctx, event.Event{
		Type:     kind,
		ClientID: c.ClientID,
		Metadata: map[string]any{
			notification.MetaDays:       days,
			notification.MetaClientName: c.FullName,
		},
	})
}

// KindsFor maps days of absence to the notifications due.
func KindsFor(days int) []string {
	switch {
	case days >= AlertDays:
		return []string{schema.AbsenceDay5, schema.AbsenceCoachAlert}
	case days >= FirstReminderDays:
		return []string{schema.AbsenceDay2}
	default:
		return nil
	}
}

// DaysSince counts calendar days from the check-in date to today. The
// check-in is a date without a zone, so only its year, month and day count.
func DaysSince(last, today time.Time) int {
	from := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
