package domain

import "time"

// AuthEventType names what happened to an account.
type AuthEventType string

const (
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventRegistered     AuthEventType = "registered"
	EventLoggedOut      AuthEventType = "logged_out"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	ID        string        `bson:"_id"`
	Type      AuthEventType `bson:"type"`
	UserID    int64         `bson:"user_id,omitempty"`
	Username  string        `bson:"username,omitempty"`
	IP        string        `bson:"ip,omitempty"`
	UserAgent string        `bson:"user_agent,omitempty"`
	At        time.Time     `bson:"at"`
}
