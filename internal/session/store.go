// Package session keeps server-side login sessions and the signed cookie tokens that point at them.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id has no live record.
var ErrNotFound = errors.New("session not found")

// Record is the server-side state of one login session.
type Record struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Flashes   []string  `json:"flashes,omitempty"`
}

// Store persists session records keyed by session id. Save overwrites and
// keeps the record until its ExpiresAt.
type Store interface {
	Save(ctx context.Context, id string, rec *Record) error
	Load(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}
