package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

type CheckInStore struct{ db *gorm.DB }

// ClientLastCheckIn pairs a client with the date of their latest check-in.
type ClientLastCheckIn struct {
	ClientID uuid.UUID
	FullName string
	LastDate time.Time
}

// UserIDsBetween returns users with a check-in dated in [from, to).
func (s *CheckInStore) UserIDsBetween(ctx context.Context, from, to time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&schema.CheckIn{}).
		Where("checkin_date >= ? AND checkin_date < ?", from.UTC(), to.UTC()).
		Distinct().
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list checked-in users: %w", err)
	}
	return ids, nil
}

// LatestPerClient returns the last check-in of every client that has at
// least one. Clients that never checked in are omitted. last_date is read
// back from daily_checkins so drivers keep the column's time type.
func (s *CheckInStore) LatestPerClient(ctx context.Context) ([]ClientLastCheckIn, error) {
	latest := s.db.
		Model(&schema.CheckIn{}).
		Select("user_id, MAX(checkin_date) AS last_date").
		Group("user_id")

	var out []ClientLastCheckIn
	err := s.db.WithContext(ctx).
		Table("profiles").
		Select("profiles.id AS client_id, profiles.full_name AS full_name, daily_checkins.checkin_date AS last_date").
		Joins("JOIN user_roles ON user_roles.user_id = profiles.id AND user_roles.role = ?", schema.RoleClient).
		Joins("JOIN (?) AS latest ON latest.user_id = profiles.id", latest).
		Joins("JOIN daily_checkins ON daily_checkins.user_id = latest.user_id AND daily_checkins.checkin_date = latest.last_date").
		Group("profiles.id, profiles.full_name, profiles.created_at, daily_checkins.checkin_date").
		Order("profiles.created_at ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("latest check-in per client: %w", err)
	}
	return out, nil
}

func (s *CheckInStore) Create(ctx context.Context, userID uuid.UUID, date time.Time) error {
	c := schema.CheckIn{UserID: userID, CheckinDate: date.UTC()}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return fmt.Errorf("create check-in: %w", err)
	}
	return nil
}
