package domain

import "time"

// Session lifetimes. "Remember me" keeps the session for a month; otherwise
// it lives about as long as a browser tab would have kept it.
const (
	SessionRememberDuration = 30 * 24 * time.Hour
	SessionShortDuration    = 12 * time.Hour
)

// Session is the server-side login record. At most one enabled session exists
// per user at a time: login revokes the previous ones before inserting.
// PK: session_id; token-index GSI resolves opaque bearer tokens.
type Session struct {
	SessionID string    `json:"id" dynamodbav:"session_id"`
	Token     string    `json:"-" dynamodbav:"token"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Remember  bool      `json:"remember" dynamodbav:"remember"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	ExpiresAt int64     `json:"-" dynamodbav:"expires_at"` // Unix seconds
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
	User      *User     `json:"user,omitempty" dynamodbav:"-"`
}
