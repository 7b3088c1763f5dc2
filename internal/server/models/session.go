package models

import "time"

// Session is the server-side half of a login. The client holds a signed token
// naming the session ID and username; CSRFToken is the per-session
// anti-forgery secret echoed back by forms.
type Session struct {
	ID        string
	Username  string
	CSRFToken string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity is the resolved caller of a request. A nil *Identity means the
// connection is not logged in.
type Identity struct {
	Username  string
	SessionID string
	CSRFToken string
}

// IdentityOf builds the Identity carried by a live session.
func IdentityOf(s *Session) *Identity {
	return &Identity{Username: s.Username, SessionID: s.ID, CSRFToken: s.CSRFToken}
}
