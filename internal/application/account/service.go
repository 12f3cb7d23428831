package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fooddemand/api/internal/domain"
	"github.com/fooddemand/api/internal/infrastructure/google"
	"github.com/fooddemand/api/internal/pkg/id"
	pkgtoken "github.com/fooddemand/api/internal/pkg/token"
)

const (
	MsgVerificationNotFound = "Verification not found. Please verify again."
	MsgVerificationMismatch = "Verification mismatch. Please verify again."
	MsgVerificationExpired  = "Verification expired. Please verify again."
	MsgEmailTaken           = "Email already registered."
	MsgPhoneTaken           = "Phone number already registered."
	MsgPhoneRequired        = "Phone number is required."
	MsgInvalidCredentials   = "Invalid email or password."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, string, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, string, error)
	SocialLogin(ctx context.Context, req domain.SocialLoginRequest) (*domain.Session, string, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentSession(ctx context.Context, sessionID string) (*domain.Session, error)
	EnsureDemoAccount(ctx context.Context) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
	DisableByUser(ctx context.Context, userID string) error
}

type verificationStore interface {
	Get(ctx context.Context, verificationID string) (*domain.VerifiedIdentityRecord, error)
	Delete(ctx context.Context, verificationID string) error
}

type jwtSigner interface {
	Sign(userID, sessionID string) (string, error)
}

type socialVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type service struct {
	users         userStore
	sessions      sessionStore
	verifications verificationStore
	jwtProvider   jwtSigner      // nil: opaque session tokens only
	social        socialVerifier // nil: social login disabled
}

type ServiceDeps struct {
	UserStore         userStore
	SessionStore      sessionStore
	VerificationStore verificationStore
	JWTProvider       jwtSigner
	SocialVerifier    socialVerifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:         deps.UserStore,
		sessions:      deps.SessionStore,
		verifications: deps.VerificationStore,
		jwtProvider:   deps.JWTProvider,
		social:        deps.SocialVerifier,
	}
}

// Register consumes a verified-identity record and creates the account. The
// record is deleted on every path, success or failure — a failed registration
// sends the user back through OTP verification.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, string, error) {
	email := normalizeEmail(req.Email)
	if !emailPattern.MatchString(email) {
		return nil, "", domain.UserError(domain.ErrBadRequest, "Enter a valid email address.")
	}

	rec, err := s.verifications.Get(ctx, req.VerificationID)
	if err != nil {
		return nil, "", domain.UserError(domain.ErrBadRequest, MsgVerificationNotFound)
	}
	if err := s.verifications.Delete(ctx, req.VerificationID); err != nil {
		slog.Warn("failed to delete verification record", "verification_id", req.VerificationID, "err", err)
	}
	if rec.Expired(time.Now()) {
		return nil, "", domain.UserError(domain.ErrBadRequest, MsgVerificationExpired)
	}

	var phone string
	if req.PhoneNumber != nil {
		phone = strings.TrimSpace(*req.PhoneNumber)
	}
	switch req.VerificationMethod {
	case domain.MethodEmail:
		if rec.Type != domain.ChannelEmail || rec.Value != email {
			return nil, "", domain.UserError(domain.ErrBadRequest, MsgVerificationMismatch)
		}
	case domain.MethodPhone:
		if phone == "" {
			return nil, "", domain.UserError(domain.ErrBadRequest, MsgPhoneRequired)
		}
		if rec.Type != domain.ChannelPhone || rec.Value != phone {
			return nil, "", domain.UserError(domain.ErrBadRequest, MsgVerificationMismatch)
		}
	default:
		return nil, "", fmt.Errorf("invalid verification method: %w", domain.ErrBadRequest)
	}

	if email == domain.DemoEmail {
		return nil, "", domain.UserError(domain.ErrConflict, MsgEmailTaken)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.UserError(domain.ErrConflict, MsgEmailTaken)
	}
	if req.VerificationMethod == domain.MethodPhone {
		if _, err := s.users.GetByPhone(ctx, phone); err == nil {
			return nil, "", domain.UserError(domain.ErrConflict, MsgPhoneTaken)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:             id.New(),
		Name:               strings.TrimSpace(req.Name),
		Email:              email,
		PasswordHash:       string(hash),
		VerificationMethod: req.VerificationMethod,
		Enable:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if phone != "" {
		u.PhoneNumber = &phone
	}
	switch req.VerificationMethod {
	case domain.MethodEmail:
		u.EmailVerifiedAt = &rec.VerifiedAt
	case domain.MethodPhone:
		u.PhoneVerifiedAt = &rec.VerifiedAt
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, "", err
	}

	return s.createSession(ctx, u, req.Remember)
}

// Login authenticates with email+password. Every failure mode collapses into
// the same 401 message so the response does not reveal whether the account
// exists.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, string, error) {
	email := normalizeEmail(req.Email)
	if !emailPattern.MatchString(email) || len(req.Password) < 6 {
		return nil, "", domain.UserError(domain.ErrUnauthorized, MsgInvalidCredentials)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.UserError(domain.ErrUnauthorized, MsgInvalidCredentials)
	}
	if !u.Enable {
		return nil, "", domain.UserError(domain.ErrUnauthorized, MsgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", domain.UserError(domain.ErrUnauthorized, MsgInvalidCredentials)
	}

	// A fresh login replaces whatever sessions the user had.
	if err := s.sessions.DisableByUser(ctx, u.UserID); err != nil {
		return nil, "", err
	}
	return s.createSession(ctx, u, req.Remember)
}

// SocialLogin signs in with a verified Google ID token, provisioning the
// account on first sight. The provider session is a one-shot verifier only;
// the returned session is this service's own.
func (s *service) SocialLogin(ctx context.Context, req domain.SocialLoginRequest) (*domain.Session, string, error) {
	if s.social == nil {
		return nil, "", domain.UserError(domain.ErrUnavailable, "Social login is not available.")
	}
	payload, err := s.social.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, "", err
	}
	if !payload.EmailVerified {
		return nil, "", domain.UserError(domain.ErrUnauthorized, "Google account email is not verified.")
	}

	email := normalizeEmail(payload.Email)
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		now := time.Now().UTC()
		u = &domain.User{
			UserID:             id.New(),
			Name:               payload.Name,
			Email:              email,
			VerificationMethod: domain.MethodSocial,
			EmailVerifiedAt:    &now,
			Enable:             true,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.users.Put(ctx, u); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}
	if !u.Enable {
		return nil, "", domain.UserError(domain.ErrUnauthorized, MsgInvalidCredentials)
	}

	if err := s.sessions.DisableByUser(ctx, u.UserID); err != nil {
		return nil, "", err
	}
	return s.createSession(ctx, u, req.Remember)
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Disable(ctx, sessionID)
}

// CurrentSession resolves an authenticated session id into the session with
// its user attached. Revoked or expired sessions come back as unauthorized.
func (s *service) CurrentSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", domain.ErrUnauthorized)
	}
	if !sess.Enable || sess.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("session revoked or expired: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return sess, nil
}

// EnsureDemoAccount seeds the fixed demo login if it doesn't exist yet.
func (s *service) EnsureDemoAccount(ctx context.Context) error {
	if _, err := s.users.GetByEmail(ctx, domain.DemoEmail); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(domain.DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return s.users.Put(ctx, &domain.User{
		UserID:             id.New(),
		Name:               domain.DemoName,
		Email:              domain.DemoEmail,
		PasswordHash:       string(hash),
		VerificationMethod: domain.MethodEmail,
		EmailVerifiedAt:    &now,
		Enable:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
}

func (s *service) createSession(ctx context.Context, u *domain.User, remember bool) (*domain.Session, string, error) {
	tok, err := pkgtoken.NewSessionToken()
	if err != nil {
		return nil, "", err
	}
	dur := domain.SessionShortDuration
	if remember {
		dur = domain.SessionRememberDuration
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID: id.New(),
		Token:     tok,
		UserID:    u.UserID,
		Remember:  remember,
		Enable:    true,
		ExpiresAt: now.Add(dur).Unix(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, "", err
	}

	bearer := tok
	if s.jwtProvider != nil {
		signed, err := s.jwtProvider.Sign(u.UserID, sess.SessionID)
		if err != nil {
			return nil, "", err
		}
		bearer = signed
	}
	sess.User = u
	return sess, bearer, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
