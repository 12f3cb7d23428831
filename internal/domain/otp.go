package domain

import "time"

// OTP channels.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// OtpTTL is the validity window of an issued code, measured from send-time.
const OtpTTL = 10 * time.Minute

// OtpSession links an issued 6-digit code to the destination it was sent to.
// PK: session_id. Created by send, read and deleted by verify, never updated
// in place. ExpiresAt doubles as the DynamoDB TTL attribute; the verify path
// still checks CreatedAt itself, so lazy expiry holds on every backend.
type OtpSession struct {
	SessionID   string    `json:"sessionId" dynamodbav:"session_id"`
	Channel     string    `json:"channel" dynamodbav:"channel"` // "email" | "phone"
	Destination string    `json:"destination" dynamodbav:"destination"`
	Code        string    `json:"-" dynamodbav:"code"` // leading zeros preserved
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
	ExpiresAt   int64     `json:"-" dynamodbav:"expires_at"` // Unix seconds
}

// Expired reports whether the session is past its TTL at the given instant.
func (s *OtpSession) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > OtpTTL
}
