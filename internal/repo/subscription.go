package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

type SubscriptionStore struct{ db *gorm.DB }

// Upsert registers a device; a second call for the same (user, endpoint)
// replaces the keys rather than adding a row.
func (s *SubscriptionStore) Upsert(ctx context.Context, userID uuid.UUID, endpoint, p256dh, auth string) (*schema.PushSubscription, error) {
	sub := schema.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).
		Create(&sub).Error
	if err != nil {
		return nil, fmt.Errorf("upsert push subscription: %w", err)
	}

	// On conflict the generated id was not stored; read back the live row.
	return s.FindByEndpoint(ctx, userID, endpoint)
}

func (s *SubscriptionStore) FindByEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (*schema.PushSubscription, error) {
	var sub schema.PushSubscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find push subscription: %w", err)
	}
	return &sub, nil
}

func (s *SubscriptionStore) ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]schema.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var subs []schema.PushSubscription
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	return subs, nil
}

// Delete is idempotent: removing a row that is already gone is not an error.
func (s *SubscriptionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithContext(ctx).Delete(&schema.PushSubscription{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

// DistinctUserIDs returns every user holding at least one subscription.
func (s *SubscriptionStore) DistinctUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&schema.PushSubscription{}).
		Distinct().
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list subscribed users: %w", err)
	}
	return ids, nil
}
