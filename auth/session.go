package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/atticweb/attic/kvstore"
)

const (
	// SessionCookieName is the cookie carrying the opaque session token.
	SessionCookieName = "token"

	sessionKeyPrefix   = "token:auth:"
	sessionTTL         = 24 * time.Hour
	sessionTokenLength = 64
)

// SessionManager issues and validates opaque session tokens. A token is
// valid iff its record exists in the store; the token itself carries no
// meaning, so revocation is a single delete and expiry rides on the
// record's TTL. The TTL is absolute from issuance, never refreshed.
type SessionManager struct {
	store kvstore.Store
}

func NewSessionManager(store kvstore.Store) *SessionManager {
	return &SessionManager{store: store}
}

// Issue creates a new session and returns its token.
func (m *SessionManager) Issue(ctx context.Context) (string, error) {
	token := RandString(sessionTokenLength)
	if err := m.store.SetEx(ctx, sessionKeyPrefix+token, "1", sessionTTL); err != nil {
		return "", fmt.Errorf("storing session record: %w", err)
	}
	return token, nil
}

// Validate reports whether token identifies a live session.
func (m *SessionManager) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	ok, err := m.store.Exists(ctx, sessionKeyPrefix+token)
	if err != nil {
		return false, fmt.Errorf("checking session record: %w", err)
	}
	return ok, nil
}

// Revoke deletes the session record, immediately invalidating the token.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Del(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("deleting session record: %w", err)
	}
	return nil
}

// Cookie builds the session cookie for a freshly issued token.
func (m *SessionManager) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds a cookie that clears the session cookie on the
// client. Used by logout alongside Revoke.
func (m *SessionManager) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
