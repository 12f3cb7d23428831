package http

import (
	"context"
	"fmt"
	"time"

	"github.com/fooddemand/api/internal/domain"
	jwtinfra "github.com/fooddemand/api/internal/infrastructure/jwt"
	"github.com/fooddemand/api/internal/transport/http/middleware"
)

// SessionRepository is the minimal interface the authenticator requires from
// a session store.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
}

// SessionAuthenticator resolves bearer credentials against the session store.
// With a JWT provider configured the credential is an RS256 token carrying
// the session id; otherwise it is the opaque session token itself. Either way
// the session row is the source of truth: revoked or expired sessions fail
// authentication even with a structurally valid JWT.
type SessionAuthenticator struct {
	JWTProvider *jwtinfra.Provider // nil: opaque tokens only
	Sessions    SessionRepository
}

func (a *SessionAuthenticator) Authenticate(ctx context.Context, token string) (*middleware.Principal, error) {
	sess, err := a.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !sess.Enable || sess.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("session revoked or expired: %w", domain.ErrUnauthorized)
	}
	return &middleware.Principal{UserID: sess.UserID, SessionID: sess.SessionID}, nil
}

func (a *SessionAuthenticator) resolve(ctx context.Context, token string) (*domain.Session, error) {
	if a.JWTProvider != nil {
		if claims, err := a.JWTProvider.Verify(token); err == nil {
			return a.Sessions.Get(ctx, claims.SessionID)
		}
	}
	return a.Sessions.GetByToken(ctx, token)
}
