// Package access keeps a user's stored roles and their policy grouping in
// step.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/pkg/authorize"
)

var ErrUnknownRole = errors.New("unknown role")

// Grants holds both role representations for one user.
type Grants struct {
	Stored []string
	Policy []authorize.Role
}

type Service struct {
	profiles *repo.ProfileStore
	auth     authorize.IAuthorization
}

func New(db *repo.Client, auth authorize.IAuthorization) *Service {
	return &Service{profiles: db.Profiles(), auth: auth}
}

// Grant stores the role and adds the matching grouping policy. Granting a
// role the user already holds is a no-op.
func (s *Service) Grant(ctx context.Context, userID uuid.UUID, role string) error {
	polRole, ok := authorize.RoleFromDB(role)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if err := s.profiles.AddRole(ctx, userID, role); err != nil {
		return err
	}
	if err := authorize.AssignSystemRole(ctx, s.auth, userID.String(), polRole); err != nil {
		return fmt.Errorf("assign policy role: %w", err)
	}
	slog.InfoContext(ctx, "access: role granted", "user_id", userID, "role", role)
	return nil
}

func (s *Service) Revoke(ctx context.Context, userID uuid.UUID, role string) error {
	polRole, ok := authorize.RoleFromDB(role)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if err := s.profiles.RemoveRole(ctx, userID, role); err != nil {
		return err
	}
	if err := authorize.RemoveSystemRole(ctx, s.auth, userID.String(), polRole); err != nil {
		return fmt.Errorf("remove policy role: %w", err)
	}
	slog.InfoContext(ctx, "access: role revoked", "user_id", userID, "role", role)
	return nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) (Grants, error) {
	stored, err := s.profiles.Roles(ctx, userID)
	if err != nil {
		return Grants{}, err
	}
	policy, err := s.auth.GetRolesForUserInDomain(ctx, authorize.GroupSubject(userID.String()), authorize.DomainSys)
	if err != nil {
		return Grants{}, fmt.Errorf("policy roles: %w", err)
	}
	return Grants{Stored: stored, Policy: policy}, nil
}

// Check reports authorize.ErrForbidden when the user's grouping does not
// grant resource/action.
func (s *Service) Check(ctx context.Context, userID uuid.UUID, resource authorize.Resource, action authorize.Action) error {
	return s.auth.MustEnforce(ctx, authorize.GroupSubject(userID.String()), authorize.DomainSys, resource, action)
}
