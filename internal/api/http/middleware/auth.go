package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pasetotoken "github.com/Defimaso/Diario362-sub001/pkg/paseto"
	redispkg "github.com/Defimaso/Diario362-sub001/pkg/redis"
	"github.com/Defimaso/Diario362-sub001/pkg/reqctx"
)

// Sessions reports whether a session issued by the auth service is still live.
type Sessions interface {
	Active(ctx context.Context, sessionID uuid.UUID) error
}

type redisSessions struct {
	rdb *redis.Client
}

// RedisSessions checks the session keys written at login.
func RedisSessions(rdb *redis.Client) Sessions {
	return redisSessions{rdb: rdb}
}

func (s redisSessions) Active(ctx context.Context, sessionID uuid.UUID) error {
	return redispkg.SessionActive(ctx, s.rdb, sessionID)
}

// AuthRequired validates a Bearer PASETO token. Access tokens carrying a
// session id must have a live session; service tokens carry none.
// On success, stores *pasetotoken.Claims in c.Locals(pasetotoken.CtxKeyClaims)
// and on the request context.
func AuthRequired(mgr *pasetotoken.Manager, sessions Sessions) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearer(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return abort(c, fiber.StatusUnauthorized, "unauthorized")
		}

		claims, err := mgr.Verify(token)
		if err != nil {
			return abort(c, fiber.StatusUnauthorized, "unauthorized")
		}

		switch claims.Type {
		case pasetotoken.TokenTypeAccess, pasetotoken.TokenTypeService:
		default:
			return abort(c, fiber.StatusUnauthorized, "unauthorized")
		}

		if claims.SessionID != nil && sessions != nil {
			if err := sessions.Active(c.Context(), *claims.SessionID); err != nil {
				return abort(c, fiber.StatusUnauthorized, "session expired")
			}
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		c.SetContext(reqctx.WithClaims(c.Context(), claims))
		return c.Next()
	}
}

func bearer(h string) (string, bool) {
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
