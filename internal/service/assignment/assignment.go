// Package assignment manages which coach follows a client.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/internal/staff"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	AssignCoach(ctx context.Context, clientID, coachID uuid.UUID) error
	ClearCoach(ctx context.Context, clientID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type assignmentService struct {
	profiles    *repo.ProfileStore
	assignments *repo.AssignmentStore
	directory   *staff.Directory
}

func New(db *repo.Client, directory *staff.Directory) Service {
	return &assignmentService{
		profiles:    db.Profiles(),
		assignments: db.Assignments(),
		directory:   directory,
	}
}

var coachRoles = []string{schema.RoleCoach, schema.RoleAdmin, schema.RoleSuperAdmin}

// AssignCoach sets the direct assignment. When the coach has a legacy name in
// the staff directory the legacy row is rewritten to match so older readers
// agree with the new one.
func (s *assignmentService) AssignCoach(ctx context.Context, clientID, coachID uuid.UUID) error {
	coach, err := s.profiles.Get(ctx, coachID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCoachNotFound
		}
		return fmt.Errorf("load coach: %w", err)
	}

	roles, err := s.profiles.Roles(ctx, coachID)
	if err != nil {
		return fmt.Errorf("load coach roles: %w", err)
	}
	if !slices.ContainsFunc(roles, func(r string) bool { return slices.Contains(coachRoles, r) }) {
		return ErrNotACoach
	}

	if err := s.profiles.SetCoach(ctx, clientID, &coachID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("set direct coach: %w", err)
	}

	legacy, ok := s.directory.LegacyNameFor(coach.Email)
	if !ok {
		slog.InfoContext(ctx, "assignment: coach has no legacy name, legacy row untouched",
			"client_id", clientID, "coach_id", coachID)
		return nil
	}
	if err := s.assignments.SetLegacy(ctx, clientID, legacy); err != nil {
		return fmt.Errorf("sync legacy assignment: %w", err)
	}

	slog.InfoContext(ctx, "assignment: coach assigned",
		"client_id", clientID, "coach_id", coachID, "legacy_name", legacy)
	return nil
}

// ClearCoach removes the direct assignment. The legacy row is kept and
// becomes the source for resolution again.
func (s *assignmentService) ClearCoach(ctx context.Context, clientID uuid.UUID) error {
	if err := s.profiles.SetCoach(ctx, clientID, nil); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("clear direct coach: %w", err)
	}
	slog.InfoContext(ctx, "assignment: direct coach cleared", "client_id", clientID)
	return nil
}
