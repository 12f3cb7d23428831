package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/fooddemand/api/internal/domain"
	"github.com/fooddemand/api/internal/pkg/id"
)

// User-facing messages. The wire contract fixes these strings; tests assert
// them verbatim.
const (
	MsgInvalidEmail   = "Enter a valid email address."
	MsgInvalidPhone   = "Enter a valid phone number."
	MsgInvalidCode    = "Enter a valid 6-digit OTP."
	MsgSessionExpired = "OTP session expired. Please request OTP again."
	MsgOtpExpired     = "OTP expired. Please request a new OTP."
	MsgIncorrectOtp   = "Incorrect OTP."
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`) // E.164
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

// VerifyResult is returned on successful verification: the verified value and
// the single-use record registration will consume.
type VerifyResult struct {
	VerificationID string
	Type           string
	Value          string
}

type Service interface {
	SendEmailOtp(ctx context.Context, email string) (sessionID string, err error)
	SendPhoneOtp(ctx context.Context, phoneNumber string) (sessionID string, err error)
	VerifyOtp(ctx context.Context, sessionID, otpCode string) (*VerifyResult, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.OtpSession) error
	Get(ctx context.Context, sessionID string) (*domain.OtpSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type verificationStore interface {
	Put(ctx context.Context, rec *domain.VerifiedIdentityRecord) error
}

type mailer interface {
	SendEmail(to, subject, textBody, htmlBody string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	sessions      sessionStore
	verifications verificationStore
	mailer        mailer
	sms           smsSender
}

type ServiceDeps struct {
	SessionStore      sessionStore
	VerificationStore verificationStore
	Mailer            mailer
	SMSSender         smsSender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessions:      deps.SessionStore,
		verifications: deps.VerificationStore,
		mailer:        deps.Mailer,
		sms:           deps.SMSSender,
	}
}

// SendEmailOtp issues a code for the given address. Concurrent sends for the
// same address mint independent sessions; earlier ones stay valid until their
// own expiry (multi-device resend). A failed dispatch leaves the session row
// behind — it is harmless and expires on its own.
func (s *service) SendEmailOtp(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", domain.UserError(domain.ErrBadRequest, MsgInvalidEmail)
	}

	sess, err := s.createSession(ctx, domain.ChannelEmail, email)
	if err != nil {
		return "", err
	}

	text := fmt.Sprintf("Your FoodDemand OTP is %s. It expires in 10 minutes.", sess.Code)
	html := fmt.Sprintf("<p>Your FoodDemand OTP is <strong>%s</strong>. It expires in 10 minutes.</p>", sess.Code)
	if err := s.mailer.SendEmail(email, "FoodDemand OTP Verification", text, html); err != nil {
		return "", domain.UserError(domain.ErrUnavailable, err.Error())
	}
	return sess.SessionID, nil
}

// SendPhoneOtp issues a code for the given E.164 phone number over SMS.
func (s *service) SendPhoneOtp(ctx context.Context, phoneNumber string) (string, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if !phonePattern.MatchString(phoneNumber) {
		return "", domain.UserError(domain.ErrBadRequest, MsgInvalidPhone)
	}
	if s.sms == nil {
		return "", domain.UserError(domain.ErrUnavailable, "Phone verification is not available.")
	}

	sess, err := s.createSession(ctx, domain.ChannelPhone, phoneNumber)
	if err != nil {
		return "", err
	}

	msg := fmt.Sprintf("Your FoodDemand OTP is %s. It expires in 10 minutes.", sess.Code)
	if err := s.sms.SendSMS(ctx, phoneNumber, msg); err != nil {
		return "", domain.UserError(domain.ErrUnavailable, err.Error())
	}
	return sess.SessionID, nil
}

// VerifyOtp walks the session through its terminal transition. Code shape is
// checked before the store is consulted. On a match the session is deleted
// first (single-use — a replay of the same id reports it as expired) and a
// verified-identity record is minted for registration to consume.
func (s *service) VerifyOtp(ctx context.Context, sessionID, otpCode string) (*VerifyResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	otpCode = strings.TrimSpace(otpCode)

	if !codePattern.MatchString(otpCode) {
		return nil, domain.UserError(domain.ErrBadRequest, MsgInvalidCode)
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.UserError(domain.ErrBadRequest, MsgSessionExpired)
	}
	if sess.Expired(time.Now()) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			slog.Warn("failed to delete expired otp session", "session_id", sessionID, "err", err)
		}
		return nil, domain.UserError(domain.ErrBadRequest, MsgOtpExpired)
	}
	if sess.Code != otpCode {
		// Session retained: a plain mismatch allows further attempts.
		return nil, domain.UserError(domain.ErrBadRequest, MsgIncorrectOtp)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &domain.VerifiedIdentityRecord{
		VerificationID: id.New(),
		Type:           sess.Channel,
		Value:          sess.Destination,
		VerifiedAt:     now,
		ExpiresAt:      now.Add(domain.VerificationTTL).Unix(),
	}
	if err := s.verifications.Put(ctx, rec); err != nil {
		return nil, err
	}

	return &VerifyResult{
		VerificationID: rec.VerificationID,
		Type:           rec.Type,
		Value:          rec.Value,
	}, nil
}

func (s *service) createSession(ctx context.Context, channel, destination string) (*domain.OtpSession, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &domain.OtpSession{
		SessionID:   id.New(),
		Channel:     channel,
		Destination: destination,
		Code:        code,
		CreatedAt:   now,
		ExpiresAt:   now.Add(domain.OtpTTL).Unix(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// generateCode returns a random 6-digit decimal code with leading zeros
// preserved.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
