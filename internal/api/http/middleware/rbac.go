package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/pkg/authorize"
	pasetotoken "github.com/Defimaso/Diario362-sub001/pkg/paseto"
)

// LocalRoles holds the caller's policy roles once RequirePrivileged granted
// the request.
const LocalRoles = "auth.roles"

// RolesFromFiber returns the roles stored by RequirePrivileged.
func RolesFromFiber(c fiber.Ctx) []authorize.Role {
	roles, _ := c.Locals(LocalRoles).([]authorize.Role)
	return roles
}

// RoleSource loads the application roles held by a user.
type RoleSource interface {
	Roles(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// RequirePrivileged runs after AuthRequired. Missing claims are a 401; an
// authenticated caller whose roles do not grant resource/action is a 403.
// Both are decided before the handler runs.
func RequirePrivileged(auth authorize.IAuthorization, roles RoleSource, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok {
			return abort(c, fiber.StatusUnauthorized, "unauthorized")
		}

		held, err := roles.Roles(c.Context(), claims.UserID)
		if err != nil {
			slog.ErrorContext(c.Context(), "load caller roles", "user_id", claims.UserID, "error", err)
			return abort(c, fiber.StatusInternalServerError, "internal server error")
		}

		granted := authorize.RolesFromDB(held)
		allowed, err := auth.EnforceRoles(c.Context(), granted, authorize.DomainSys, resource, action)
		if err != nil {
			if errors.Is(err, authorize.ErrInvalidArgs) {
				return abort(c, fiber.StatusForbidden, "forbidden")
			}
			slog.ErrorContext(c.Context(), "enforce", "user_id", claims.UserID, "error", err)
			return abort(c, fiber.StatusInternalServerError, "internal server error")
		}
		if !allowed {
			return abort(c, fiber.StatusForbidden, "forbidden")
		}

		c.Locals(LocalRoles, granted)
		return c.Next()
	}
}
