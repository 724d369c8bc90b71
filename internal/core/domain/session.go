package domain

import "time"

// Session binds an opaque id, carried by the browser cookie, to a user.
// Only identity fields are kept; the user record is always re-read.
// Username keys the audit trail of the session's events.
type Session struct {
	ID        string    `json:"-"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the session is no longer valid at t.
func (s *Session) ExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// Principal is the authenticated caller, resolved once from the session
// cookie and passed explicitly to the services.
type Principal struct {
	UserID    int64
	Role      Role
	SessionID string
}

// ClientMeta describes where a request came from, for the audit trail.
type ClientMeta struct {
	IP        string
	UserAgent string
}
