package domain

import "time"

// VerificationTTL bounds how long a successful OTP verification can be used
// to authorize a registration.
const VerificationTTL = 10 * time.Minute

// VerifiedIdentityRecord proves that an email address or phone number passed
// OTP verification. Single-use: the registration consumer deletes it on every
// consumption attempt, success or failure.
// PK: verification_id.
type VerifiedIdentityRecord struct {
	VerificationID string    `json:"verificationId" dynamodbav:"verification_id"`
	Type           string    `json:"type" dynamodbav:"type"` // "email" | "phone"
	Value          string    `json:"value" dynamodbav:"value"`
	VerifiedAt     time.Time `json:"verifiedAt" dynamodbav:"verified_at"`
	ExpiresAt      int64     `json:"-" dynamodbav:"expires_at"` // Unix seconds (Dynamo TTL)
}

// Expired reports whether the record is too old to consume.
func (r *VerifiedIdentityRecord) Expired(now time.Time) bool {
	return now.Sub(r.VerifiedAt) > VerificationTTL
}
