package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

// Store persists in-app notification rows.
type Store interface {
	Create(ctx context.Context, n *schema.Notification) error
}

// Writer records one in-app row per target. It is the durable channel; push
// delivery is attempted independently of its outcome.
type Writer struct {
	store   Store
	written metric.Int64Counter
}

func NewWriter(store Store) *Writer {
	counter, err := otel.Meter("diario/notification").Int64Counter(
		"notifications_written_total",
		metric.WithDescription("In-app notification rows written"),
	)
	if err != nil {
		slog.Warn("notification: counter unavailable", "err", err)
	}
	return &Writer{store: store, written: counter}
}

// Write inserts a row per target and returns how many were stored. A failed
// row is logged and skipped.
func (w *Writer) Write(ctx context.Context, targets []uuid.UUID, c Content) int {
	n := 0
	for _, userID := range targets {
		row := &schema.Notification{
			UserID:   userID,
			Type:     c.Type,
			Title:    c.Title,
			Message:  c.Body,
			Link:     c.Link,
			Metadata: c.Metadata,
		}
		if err := w.store.Create(ctx, row); err != nil {
			slog.ErrorContext(ctx, "notification: in-app write failed",
				"user_id", userID, "type", c.Type, "err", err)
			continue
		}
		n++
	}
	if w.written != nil && n > 0 {
		w.written.Add(ctx, int64(n), metric.WithAttributes(attribute.String("type", c.Type)))
	}
	return n
}
