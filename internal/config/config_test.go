package config_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atticweb/attic/internal/config"
)

func setRequiredEnv(t *testing.T) ed25519.PublicKey {
	t.Helper()

	public, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	t.Setenv("CLIENT_ID", "client-id")
	t.Setenv("CLIENT_SECRET", "client-secret")
	t.Setenv("ROOT_URL", "https://gallery.example/")
	t.Setenv("GUILD", "1234567890")
	t.Setenv("DISCORD_PUBLIC_KEY", hex.EncodeToString(public))
	t.Setenv("DISCORD_TOKEN", "bot-token")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("BUCKET_NAME", "gallery")
	t.Setenv("S3_ENDPOINT", "https://s3.example")
	t.Setenv("S3_REGION", "garage")
	t.Setenv("S3_ACCESS_KEY_ID", "ak")
	t.Setenv("S3_SECRET_ACCESS_KEY", "sk")

	return public
}

func TestLoadFullEnvironment(t *testing.T) {
	public := setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "client-id", cfg.ClientID)
	require.Equal(t, "https://gallery.example", cfg.RootURL, "trailing slash must be trimmed")
	require.Equal(t, "https://gallery.example/oauth2/callback", cfg.CallbackURL())
	require.Equal(t, uint64(1234567890), cfg.Guild)
	require.Equal(t, public, cfg.PublicKey)
	require.Equal(t, uint64(1)<<40, cfg.RequiredPermission)
	require.Equal(t, ":8080", cfg.Addr())
	require.False(t, cfg.PubliclyReadable)
}

func TestLoadMissingRequiredValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CLIENT_ID", "")
	t.Setenv("REDIS_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	require.ErrorContains(t, err, "CLIENT_ID")
	require.ErrorContains(t, err, "REDIS_URL")
}

func TestLoadMalformedGuild(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GUILD", "not-a-snowflake")

	_, err := config.Load()
	require.Error(t, err)
	require.ErrorContains(t, err, "GUILD")
}

func TestLoadMalformedPublicKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_PUBLIC_KEY", "deadbeef")

	_, err := config.Load()
	require.Error(t, err)
	require.ErrorContains(t, err, "DISCORD_PUBLIC_KEY")
}

func TestLoadOptionalValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PUBLICLY_READABLE", "yes")
	t.Setenv("REQUIRED_PERMISSION", "8")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.True(t, cfg.PubliclyReadable)
	require.Equal(t, uint64(8), cfg.RequiredPermission)
}

func TestTruthyFlagVariants(t *testing.T) {
	setRequiredEnv(t)

	for _, falsy := range []string{"f", "false", "0", "n", "no", "NO", "False"} {
		t.Setenv("PUBLICLY_READABLE", falsy)
		cfg, err := config.Load()
		require.NoError(t, err)
		require.False(t, cfg.PubliclyReadable, "%q should be falsy", falsy)
	}

	t.Setenv("PUBLICLY_READABLE", "true")
	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.PubliclyReadable)
}
