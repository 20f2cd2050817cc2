package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Service is the recipient's view of their inbox.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, perPage int) ([]schema.Notification, error)
	MarkRead(ctx context.Context, notifID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type notificationService struct {
	store *repo.NotificationStore
}

func New(db *repo.Client) Service {
	return &notificationService{store: db.Notifications()}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, perPage int) ([]schema.Notification, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	notifs, err := s.store.List(ctx, userID, unreadOnly, offset, perPage)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifs, nil
}

// MarkRead only touches rows owned by userID; a foreign id reads as missing.
func (s *notificationService) MarkRead(ctx context.Context, notifID, userID uuid.UUID) error {
	if err := s.store.MarkRead(ctx, notifID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}
