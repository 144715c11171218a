package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName is the browser cookie carrying the signed session token.
	CookieName = "inkwell_session"

	tokenIssuer   = "inkwell-web"
	tokenAudience = "inkwell-browser"
)

// ErrInvalidToken covers malformed, forged and expired cookie tokens.
var ErrInvalidToken = errors.New("invalid session token")

// Manager opens, resolves and closes sessions. The signed token only proves the
// cookie was issued here; the stored record decides whether the session is live.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a session manager signing tokens with secret.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of newly opened sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Open creates a session for the user and returns its signed token.
func (m *Manager) Open(ctx context.Context, userID uint, username string) (string, *models.Identity, error) {
	if len(m.secret) == 0 {
		return "", nil, fmt.Errorf("session secret not configured")
	}

	id := uuid.NewString()
	now := m.now().UTC()
	rec := &Record{
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, id, rec); err != nil {
		return "", nil, err
	}

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        id,
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		_ = m.store.Delete(ctx, id)
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	return token, &models.Identity{SessionID: id, UserID: userID, Username: username}, nil
}

// Resolve verifies the token and loads its session. A token whose session was
// closed or expired returns ErrNotFound.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return nil, ErrInvalidToken
	}

	rec, err := m.store.Load(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != uint(userID) {
		return nil, ErrInvalidToken
	}

	return &models.Identity{SessionID: claims.ID, UserID: rec.UserID, Username: rec.Username}, nil
}

// Close removes the session record; later requests with its token are anonymous.
func (m *Manager) Close(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// AddFlash queues a one-shot message for the session's next page render.
func (m *Manager) AddFlash(ctx context.Context, sessionID, message string) error {
	rec, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	rec.Flashes = append(rec.Flashes, message)
	return m.store.Save(ctx, sessionID, rec)
}

// PopFlashes returns and clears queued messages.
func (m *Manager) PopFlashes(ctx context.Context, sessionID string) ([]string, error) {
	rec, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(rec.Flashes) == 0 {
		return nil, nil
	}
	flashes := rec.Flashes
	rec.Flashes = nil
	if err := m.store.Save(ctx, sessionID, rec); err != nil {
		return nil, err
	}
	return flashes, nil
}
