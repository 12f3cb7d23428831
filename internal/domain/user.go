package domain

import "time"

// Verification methods accepted at registration.
const (
	MethodEmail  = "email"
	MethodPhone  = "phone"
	MethodSocial = "social"
)

// Demo account credentials, seeded at startup. The email is reserved:
// registration with it is rejected regardless of case.
const (
	DemoEmail    = "demo@fooddemand.ai"
	DemoName     = "Demo User"
	DemoPassword = "password123"
)

type User struct {
	UserID             string     `json:"id" dynamodbav:"user_id"`
	Name               string     `json:"name" dynamodbav:"name"`
	Email              string     `json:"email" dynamodbav:"email"` // normalized: trimmed, lowercased
	PasswordHash       string     `json:"-" dynamodbav:"password_hash"`
	VerificationMethod string     `json:"verificationMethod" dynamodbav:"verification_method"` // "email" | "phone" | "social"
	PhoneNumber        *string    `json:"phoneNumber,omitempty" dynamodbav:"phone_number"`
	EmailVerifiedAt    *time.Time `json:"emailVerifiedAt,omitempty" dynamodbav:"email_verified_at"`
	PhoneVerifiedAt    *time.Time `json:"phoneVerifiedAt,omitempty" dynamodbav:"phone_verified_at"`
	Enable             bool       `json:"enable" dynamodbav:"enable"`
	CreatedAt          time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt          time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type SocialLoginRequest struct {
	IDToken  string `json:"idToken" validate:"required"`
	Remember bool   `json:"remember"`
}

type RegisterRequest struct {
	Name               string  `json:"name" validate:"required"`
	Email              string  `json:"email" validate:"required"`
	Password           string  `json:"password" validate:"required,min=6,max=72"`
	VerificationMethod string  `json:"verificationMethod" validate:"required,oneof=email phone"`
	PhoneNumber        *string `json:"phoneNumber"`
	VerificationID     string  `json:"verificationId" validate:"required"`
	Remember           bool    `json:"remember"`
}
