package pasetotoken

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, keys Keys) *Manager {
	t.Helper()
	m, err := New(Config{Mode: keys.Mode, Issuer: "diario", Audience: "diario-notify", AccessTTL: time.Minute}, keys)
	require.NoError(t, err)
	return m
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	for name, keys := range map[string]Keys{"local": NewLocalKeys(), "public": NewPublicKeys()} {
		t.Run(name, func(t *testing.T) {
			m := newManager(t, keys)
			uid, sid := uuid.New(), uuid.New()

			tok, err := m.IssueAccess(uid, &sid)
			require.NoError(t, err)

			claims, err := m.Verify(tok)
			require.NoError(t, err)
			assert.Equal(t, uid, claims.UserID)
			require.NotNil(t, claims.SessionID)
			assert.Equal(t, sid, *claims.SessionID)
			assert.Equal(t, TokenTypeAccess, claims.Type)
			assert.False(t, claims.IsExpired())
		})
	}
}

func TestVerifyUsesCurrentTime(t *testing.T) {
	m := newManager(t, NewLocalKeys())
	now := time.Now()
	m.WithClock(func() time.Time { return now })

	tok, err := m.IssueService(uuid.New(), 0)
	require.NoError(t, err)
	_, err = m.Verify(tok)
	require.NoError(t, err)

	// The same manager must reject the token once it has expired.
	now = now.Add(2 * time.Minute)
	_, err = m.Verify(tok)
	var invalid ErrInvalidToken
	assert.True(t, errors.As(err, &invalid))
}

func TestVerifyRejectsForeignAudience(t *testing.T) {
	keys := NewLocalKeys()
	issuer := newManager(t, keys)
	other, err := New(Config{Mode: ModeLocal, Issuer: "diario", Audience: "elsewhere"}, keys)
	require.NoError(t, err)

	tok, err := issuer.IssueAccess(uuid.New(), nil)
	require.NoError(t, err)
	_, err = other.Verify(tok)
	assert.Error(t, err)
}

func TestLoadKeys(t *testing.T) {
	_, err := LoadKeys(KeyStrings{Mode: ModeLocal})
	assert.Error(t, err)

	pub := NewPublicKeys()
	keys, err := LoadKeys(KeyStrings{Mode: ModePublic, PublicHex: pub.Public.ExportHex()})
	require.NoError(t, err)
	assert.Nil(t, keys.Secret)
	assert.NotNil(t, keys.Public)

	_, err = LoadKeys(KeyStrings{Mode: "jwt"})
	assert.Error(t, err)
}

func TestNewMismatchedMode(t *testing.T) {
	_, err := New(Config{Mode: ModePublic, Issuer: "a", Audience: "b"}, NewLocalKeys())
	assert.Error(t, err)
}
