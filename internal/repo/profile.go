package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

type ProfileStore struct{ db *gorm.DB }

func (s *ProfileStore) Get(ctx context.Context, id uuid.UUID) (*schema.Profile, error) {
	var p schema.Profile
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// DirectCoachID returns the client's direct assignment, nil when unset or
// the client has no profile.
func (s *ProfileStore) DirectCoachID(ctx context.Context, clientID uuid.UUID) (*uuid.UUID, error) {
	p, err := s.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p.CoachID, nil
}

func (s *ProfileStore) SetCoach(ctx context.Context, clientID uuid.UUID, coachID *uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Model(&schema.Profile{}).
		Where("id = ?", clientID).
		Update("coach_id", coachID)
	if res.Error != nil {
		return fmt.Errorf("set coach: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IDsByEmail matches case-insensitively; unknown emails are dropped.
func (s *ProfileStore) IDsByEmail(ctx context.Context, emails []string) ([]uuid.UUID, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(emails))
	for _, e := range emails {
		lowered = append(lowered, strings.ToLower(e))
	}

	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&schema.Profile{}).
		Where("LOWER(email) IN ?", lowered).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("resolve emails: %w", err)
	}
	return ids, nil
}

func (s *ProfileStore) IDsWithRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&schema.UserRole{}).
		Where("role = ?", role).
		Distinct().
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list users with role %q: %w", role, err)
	}
	return ids, nil
}

// Roles returns the user's roles; is_super_admin counts as the super_admin role.
func (s *ProfileStore) Roles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var roles []string
	err := s.db.WithContext(ctx).
		Model(&schema.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	p, err := s.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if p != nil && p.IsSuperAdmin {
		roles = append(roles, schema.RoleSuperAdmin)
	}
	return roles, nil
}

func (s *ProfileStore) AddRole(ctx context.Context, userID uuid.UUID, role string) error {
	err := s.db.WithContext(ctx).
		Where(schema.UserRole{UserID: userID, Role: role}).
		FirstOrCreate(&schema.UserRole{UserID: userID, Role: role}).Error
	if err != nil {
		return fmt.Errorf("add role: %w", err)
	}
	return nil
}

// RemoveRole is idempotent. The is_super_admin flag is not touched.
func (s *ProfileStore) RemoveRole(ctx context.Context, userID uuid.UUID, role string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&schema.UserRole{}).Error
	if err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	return nil
}

func (s *ProfileStore) Create(ctx context.Context, p *schema.Profile) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}
