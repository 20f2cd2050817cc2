package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

type AssignmentStore struct{ db *gorm.DB }

// LegacyCoachName reports the enum value for the client, ok=false when no
// row exists.
func (s *AssignmentStore) LegacyCoachName(ctx context.Context, clientID uuid.UUID) (string, bool, error) {
	var a schema.CoachAssignment
	err := s.db.WithContext(ctx).First(&a, "client_id = ?", clientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get coach assignment: %w", err)
	}
	return a.CoachName, true, nil
}

func (s *AssignmentStore) SetLegacy(ctx context.Context, clientID uuid.UUID, coachName string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"coach_name", "updated_at"}),
		}).
		Create(&schema.CoachAssignment{ClientID: clientID, CoachName: coachName}).Error
	if err != nil {
		return fmt.Errorf("set coach assignment: %w", err)
	}
	return nil
}
