package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

type AbsenceStore struct{ db *gorm.DB }

// Append records an emission. It never checks for earlier rows.
func (s *AbsenceStore) Append(ctx context.Context, userID uuid.UUID, kind string) error {
	row := schema.AbsenceNotification{UserID: userID, NotificationType: kind}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("append absence notification: %w", err)
	}
	return nil
}

func (s *AbsenceStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]schema.AbsenceNotification, error) {
	var rows []schema.AbsenceNotification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list absence notifications: %w", err)
	}
	return rows, nil
}
