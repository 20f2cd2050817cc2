package push

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	UserID   uuid.UUID
	Endpoint string
	P256dh   string
	Auth     string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Subscriptions interface {
	Register(ctx context.Context, req RegisterRequest) (*schema.PushSubscription, error)
	Unregister(ctx context.Context, userID uuid.UUID, endpoint string) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type subscriptionService struct {
	store *repo.SubscriptionStore
}

func NewSubscriptions(db *repo.Client) Subscriptions {
	return &subscriptionService{store: db.Subscriptions()}
}

// Register is idempotent per (user, endpoint): re-registering refreshes keys.
func (s *subscriptionService) Register(ctx context.Context, req RegisterRequest) (*schema.PushSubscription, error) {
	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" || req.P256dh == "" || req.Auth == "" || req.UserID == uuid.Nil {
		return nil, ErrInvalidSubscription
	}
	sub, err := s.store.Upsert(ctx, req.UserID, endpoint, req.P256dh, req.Auth)
	if err != nil {
		return nil, fmt.Errorf("register subscription: %w", err)
	}
	return sub, nil
}

// Unregister is the explicit opt-out.
func (s *subscriptionService) Unregister(ctx context.Context, userID uuid.UUID, endpoint string) error {
	sub, err := s.store.FindByEndpoint(ctx, userID, strings.TrimSpace(endpoint))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrSubscriptionMissing
		}
		return fmt.Errorf("find subscription: %w", err)
	}
	if err := s.store.Delete(ctx, sub.ID); err != nil {
		return fmt.Errorf("unregister subscription: %w", err)
	}
	return nil
}
