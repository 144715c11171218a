package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-bytes"

func newTestManager() *Manager {
	return NewManager(NewMemoryStore(), testSecret, time.Hour)
}

func TestManager_OpenResolveClose(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	token, ident, err := m.Open(ctx, 7, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, uint(7), ident.UserID)

	resolved, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, ident.SessionID, resolved.SessionID)
	assert.Equal(t, "alice", resolved.Username)

	require.NoError(t, m.Close(ctx, ident.SessionID))

	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_ResolveRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	token, _, err := m.Open(ctx, 1, "bob")
	require.NoError(t, err)

	other := NewManager(m.store, "a-completely-different-secret-value!", time.Hour)
	forged, _, err := other.Open(ctx, 1, "bob")
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "1", ID: "x", Issuer: tokenIssuer, Audience: jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"Empty", ""},
		{"Garbage", "not-a-jwt"},
		{"Truncated", token[:len(token)-4]},
		{"Other Secret", forged},
		{"Wrong Algorithm", wrongAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := m.Resolve(ctx, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, ident)
		})
	}
}

func TestManager_ExpiredTokenIsInvalid(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	token, _, err := m.Open(ctx, 3, "carol")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_OpenWithoutSecret(t *testing.T) {
	m := NewManager(NewMemoryStore(), "", time.Hour)
	_, _, err := m.Open(context.Background(), 1, "x")
	assert.Error(t, err)
}

func TestManager_Flashes(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	_, ident, err := m.Open(ctx, 9, "dave")
	require.NoError(t, err)

	flashes, err := m.PopFlashes(ctx, ident.SessionID)
	require.NoError(t, err)
	assert.Empty(t, flashes)

	require.NoError(t, m.AddFlash(ctx, ident.SessionID, "Your post has been created"))
	require.NoError(t, m.AddFlash(ctx, ident.SessionID, "second"))

	flashes, err = m.PopFlashes(ctx, ident.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Your post has been created", "second"}, flashes)

	flashes, err = m.PopFlashes(ctx, ident.SessionID)
	require.NoError(t, err)
	assert.Empty(t, flashes)

	assert.ErrorIs(t, m.AddFlash(ctx, "missing", "x"), ErrNotFound)
}
