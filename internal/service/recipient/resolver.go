// Package recipient turns an event about a client into the set of user ids
// that should be notified.
//
// Coach assignment lives in two places: the direct coach_id on the client's
// profile and a legacy coach-name row that may name up to three coaches. The
// direct assignment wins when present. Legacy names are translated to emails
// through the staff directory, and the super-admin always mirrors legacy
// resolutions.
package recipient

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/internal/staff"
)

// Lookup is the read side the resolver needs.
type Lookup interface {
	DirectCoachID(ctx context.Context, clientID uuid.UUID) (*uuid.UUID, error)
	LegacyCoachName(ctx context.Context, clientID uuid.UUID) (string, bool, error)
	IDsByEmail(ctx context.Context, emails []string) ([]uuid.UUID, error)
	IDsWithRole(ctx context.Context, role string) ([]uuid.UUID, error)
}

type Request struct {
	Type     string
	ClientID uuid.UUID
	AuthorID *uuid.UUID
}

type Resolver struct {
	lookup    Lookup
	directory *staff.Directory
	separator string
}

func New(lookup Lookup, directory *staff.Directory, separator string) *Resolver {
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Resolver{lookup: lookup, directory: directory, separator: separator}
}

// Resolve returns the recipients of req, deduplicated and sorted. An empty
// result is not an error.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]uuid.UUID, error) {
	t, ok := TargetingFor(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, req.Type)
	}
	if req.ClientID == uuid.Nil {
		return nil, ErrMissingClient
	}

	var ids []uuid.UUID
	if t.Audience == AudienceClient {
		ids = []uuid.UUID{req.ClientID}
	} else {
		coaches, orphaned, err := r.coaches(ctx, req.ClientID)
		if err != nil {
			return nil, err
		}
		ids = coaches
		if orphaned && t.AdminFallback {
			admins, err := r.lookup.IDsWithRole(ctx, schema.RoleAdmin)
			if err != nil {
				return nil, fmt.Errorf("admin fallback: %w", err)
			}
			slog.InfoContext(ctx, "recipient: orphaned client routed to admins",
				"client_id", req.ClientID, "type", req.Type, "admins", len(admins))
			ids = admins
		}
	}

	if t.ExcludeAuthor && req.AuthorID != nil {
		author := *req.AuthorID
		ids = lo.Reject(ids, func(id uuid.UUID, _ int) bool { return id == author })
	}

	return normalize(ids), nil
}

// coaches resolves the coach audience of a client. orphaned reports that the
// client has neither a direct assignment nor a legacy row.
func (r *Resolver) coaches(ctx context.Context, clientID uuid.UUID) (ids []uuid.UUID, orphaned bool, err error) {
	direct, err := r.lookup.DirectCoachID(ctx, clientID)
	if err != nil {
		return nil, false, fmt.Errorf("direct assignment: %w", err)
	}
	if direct != nil {
		return []uuid.UUID{*direct}, false, nil
	}

	name, found, err := r.lookup.LegacyCoachName(ctx, clientID)
	if err != nil {
		return nil, false, fmt.Errorf("legacy assignment: %w", err)
	}
	if !found {
		return nil, true, nil
	}

	var emails []string
	for _, fragment := range SplitLegacyName(name, r.separator) {
		matched := r.directory.EmailsForFragment(fragment)
		if len(matched) == 0 {
			slog.WarnContext(ctx, "recipient: legacy fragment has no staff email",
				"client_id", clientID, "fragment", fragment)
		}
		emails = append(emails, matched...)
	}
	if len(emails) == 0 {
		slog.WarnContext(ctx, "recipient: legacy row resolved no coach, mirroring to super-admin only",
			"client_id", clientID, "coach_name", name)
	}

	// A legacy row means the client is assigned; the super-admin mirror
	// applies however many fragments resolved.
	if admin := r.directory.SuperAdminEmail(); admin != "" {
		emails = append(emails, admin)
	}
	emails = lo.Uniq(lo.Map(emails, func(e string, _ int) string { return strings.ToLower(e) }))

	ids, err = r.lookup.IDsByEmail(ctx, emails)
	if err != nil {
		return nil, false, fmt.Errorf("resolve staff emails: %w", err)
	}
	return ids, false, nil
}

func normalize(ids []uuid.UUID) []uuid.UUID {
	out := lo.Uniq(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	return out
}
