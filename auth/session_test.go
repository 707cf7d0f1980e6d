package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/atticweb/attic/auth"
	"github.com/atticweb/attic/kvstore"
)

func setupSessions(t *testing.T) (*auth.SessionManager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store := kvstore.NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })

	return auth.NewSessionManager(store), mr
}

func TestIssueValidate(t *testing.T) {
	sm, _ := setupSessions(t)
	ctx := context.Background()

	token, err := sm.Issue(ctx)
	require.NoError(t, err)
	require.Len(t, token, 64)

	ok, err := sm.Validate(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestValidateUnknownToken(t *testing.T) {
	sm, _ := setupSessions(t)

	ok, err := sm.Validate(context.Background(), "not-a-session")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = sm.Validate(context.Background(), "")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRevokeInvalidatesImmediately(t *testing.T) {
	sm, _ := setupSessions(t)
	ctx := context.Background()

	token, err := sm.Issue(ctx)
	require.NoError(t, err)

	require.NoError(t, sm.Revoke(ctx, token))

	ok, err := sm.Validate(ctx, token)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	sm, mr := setupSessions(t)
	ctx := context.Background()

	token, err := sm.Issue(ctx)
	require.NoError(t, err)

	mr.FastForward(24*time.Hour + time.Second)

	ok, err := sm.Validate(ctx, token)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionCookieAttributes(t *testing.T) {
	sm, _ := setupSessions(t)

	c := sm.Cookie("sometoken")
	require.Equal(t, auth.SessionCookieName, c.Name)
	require.Equal(t, "sometoken", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, 86400, c.MaxAge)
	require.True(t, c.Secure)
	require.True(t, c.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)

	expired := sm.ExpiredCookie()
	require.Equal(t, auth.SessionCookieName, expired.Name)
	require.Negative(t, expired.MaxAge)
}

func TestRandStringAlphabet(t *testing.T) {
	s := auth.RandString(256)
	require.Len(t, s, 256)
	for _, r := range s {
		isDigit := r >= '0' && r <= '9'
		isUpper := r >= 'A' && r <= 'Z'
		isLower := r >= 'a' && r <= 'z'
		require.True(t, isDigit || isUpper || isLower, "unexpected character %q", r)
	}
}
