package models

// Identity is the authenticated caller, resolved once per request from the
// session cookie. A nil *Identity means an anonymous caller.
type Identity struct {
	SessionID string
	UserID    uint
	Username  string
}
