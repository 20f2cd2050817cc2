package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	casbin "github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/pkg/authorize"
	pasetotoken "github.com/Defimaso/Diario362-sub001/pkg/paseto"
	"github.com/Defimaso/Diario362-sub001/pkg/reqctx"
)

func newManager(t *testing.T) *pasetotoken.Manager {
	t.Helper()
	keys := pasetotoken.NewLocalKeys()
	m, err := pasetotoken.New(pasetotoken.Config{
		Mode:      keys.Mode,
		Issuer:    "diario",
		Audience:  "diario-notify",
		AccessTTL: time.Minute,
	}, keys)
	require.NoError(t, err)
	return m
}

func status(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

type fakeSessions map[uuid.UUID]bool

func (f fakeSessions) Active(_ context.Context, id uuid.UUID) error {
	if !f[id] {
		return errors.New("session not found")
	}
	return nil
}

// ---------------------------------------------------------------------------
// AuthRequired
// ---------------------------------------------------------------------------

func TestAuthRequired(t *testing.T) {
	mgr := newManager(t)
	uid, live, dead := uuid.New(), uuid.New(), uuid.New()
	sessions := fakeSessions{live: true}

	app := fiber.New()
	app.Get("/me", AuthRequired(mgr, sessions), func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok || reqctx.ClaimsFromContext(c.Context()) == nil {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(claims.UserID.String())
	})

	liveTok, err := mgr.IssueAccess(uid, &live)
	require.NoError(t, err)
	deadTok, err := mgr.IssueAccess(uid, &dead)
	require.NoError(t, err)
	serviceTok, err := mgr.IssueService(uid, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "live session", header: "Bearer " + liveTok, want: http.StatusOK},
		{name: "service token has no session", header: "Bearer " + serviceTok, want: http.StatusOK},
		{name: "revoked session", header: "Bearer " + deadTok, want: http.StatusUnauthorized},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + liveTok, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer v4.local.nope", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			assert.Equal(t, tt.want, status(t, app, req))
		})
	}
}

func TestAuthRequired_NilSessionsSkipsCheck(t *testing.T) {
	mgr := newManager(t)
	sid := uuid.New()
	tok, err := mgr.IssueAccess(uuid.New(), &sid)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", AuthRequired(mgr, nil), func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, status(t, app, req))
}

func TestBearer(t *testing.T) {
	tok, ok := bearer("bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearer("Bearer ")
	assert.False(t, ok)
}

// ---------------------------------------------------------------------------
// WebhookSecret
// ---------------------------------------------------------------------------

func TestWebhookSecret(t *testing.T) {
	ok := func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	app := fiber.New()
	app.Post("/jobs/run", WebhookSecret("s3cret"), ok)

	req := httptest.NewRequest(http.MethodPost, "/jobs/run", nil)
	req.Header.Set(HeaderWebhookSecret, "s3cret")
	assert.Equal(t, http.StatusOK, status(t, app, req))

	req = httptest.NewRequest(http.MethodPost, "/jobs/run", nil)
	req.Header.Set(HeaderWebhookSecret, "wrong")
	assert.Equal(t, http.StatusUnauthorized, status(t, app, req))

	empty := fiber.New()
	empty.Post("/jobs/run", WebhookSecret(""), ok)
	req = httptest.NewRequest(http.MethodPost, "/jobs/run", nil)
	assert.Equal(t, http.StatusUnauthorized, status(t, empty, req), "empty secret rejects everything")
}

// ---------------------------------------------------------------------------
// RequirePrivileged
// ---------------------------------------------------------------------------

func newAuthorization(t *testing.T) authorize.IAuthorization {
	t.Helper()
	policy := filepath.Join(t.TempDir(), "policy.csv")
	require.NoError(t, os.WriteFile(policy, nil, 0o644))

	e, err := casbin.NewDistributedEnforcer(
		filepath.Join("..", "..", "..", "..", "config", "casbin_model.conf"),
		fileadapter.NewAdapter(policy),
	)
	require.NoError(t, err)
	e.EnableAutoSave(false)

	auth, err := authorize.NewAuthorization(e)
	require.NoError(t, err)
	require.NoError(t, authorize.SeedDefaultPolicies(context.Background(), auth))
	return auth
}

type fakeRoles map[uuid.UUID][]string

func (f fakeRoles) Roles(_ context.Context, id uuid.UUID) ([]string, error) {
	return f[id], nil
}

func TestRequirePrivileged(t *testing.T) {
	auth := newAuthorization(t)
	admin, coach := uuid.New(), uuid.New()
	roles := fakeRoles{
		admin: {schema.RoleAdmin},
		coach: {schema.RoleCoach},
	}

	withCaller := func(id *uuid.UUID) fiber.Handler {
		return func(c fiber.Ctx) error {
			if id != nil {
				c.Locals(pasetotoken.CtxKeyClaims, &pasetotoken.Claims{UserID: *id})
			}
			return c.Next()
		}
	}

	tests := []struct {
		name   string
		caller *uuid.UUID
		want   int
	}{
		{name: "admin runs jobs", caller: &admin, want: http.StatusOK},
		{name: "coach is forbidden", caller: &coach, want: http.StatusForbidden},
		{name: "anonymous is unauthorized", caller: nil, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/admin/jobs/absence-scan",
				withCaller(tt.caller),
				RequirePrivileged(auth, roles, authorize.ResourceJob, authorize.ActionExecute),
				func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
			)

			req := httptest.NewRequest(http.MethodPost, "/admin/jobs/absence-scan", nil)
			assert.Equal(t, tt.want, status(t, app, req))
		})
	}
}

func TestRequirePrivileged_StoresGrantedRoles(t *testing.T) {
	auth := newAuthorization(t)
	client := uuid.New()
	roles := fakeRoles{client: {schema.RoleClient}}

	app := fiber.New()
	app.Post("/events",
		func(c fiber.Ctx) error {
			c.Locals(pasetotoken.CtxKeyClaims, &pasetotoken.Claims{UserID: client})
			return c.Next()
		},
		RequirePrivileged(auth, roles, authorize.ResourceEvent, authorize.ActionCreate),
		func(c fiber.Ctx) error {
			got := RolesFromFiber(c)
			if len(got) != 1 || got[0] != authorize.RoleSysClient || authorize.IsStaff(got) {
				return c.SendStatus(fiber.StatusTeapot)
			}
			return c.SendStatus(fiber.StatusOK)
		},
	)

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	assert.Equal(t, http.StatusOK, status(t, app, req))
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c fiber.Ctx) error {
		rid, _ := RequestIDFromFiber(c)
		if reqctx.RequestIDFromContext(c.Context()) != rid {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(rid)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "given-id")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "given-id", resp.Header.Get(HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
}
