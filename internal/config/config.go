// Package config loads the immutable process configuration from the
// environment. Everything is read once at startup; a missing or malformed
// required value is a fatal startup error, never a runtime one.
package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is built once by Load and shared read-only by every component.
type Config struct {
	// OAuth2 provider credentials.
	ClientID     string
	ClientSecret string

	// RootURL is the externally visible base URL, without a trailing
	// slash. The callback redirect URL is derived from it.
	RootURL string

	// Guild is the snowflake of the guild whose members may use the app.
	Guild uint64

	// RequiredPermission is the permission bit a member must hold.
	RequiredPermission uint64

	// PublicKey verifies inbound webhook signatures.
	PublicKey ed25519.PublicKey

	// BotToken authenticates command registration calls.
	BotToken string

	RedisURL string

	BucketName        string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	Port             string
	AssetDir         string
	PubliclyReadable bool
}

// Load reads the environment (after loading a local .env if present) and
// validates every required value, accumulating all failures into one error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	required := func(name string) string {
		v := os.Getenv(name)
		if v == "" {
			errs = append(errs, fmt.Errorf("%s required in the environment", name))
		}
		return v
	}

	cfg := &Config{
		ClientID:          required("CLIENT_ID"),
		ClientSecret:      required("CLIENT_SECRET"),
		BotToken:          required("DISCORD_TOKEN"),
		RedisURL:          required("REDIS_URL"),
		BucketName:        required("BUCKET_NAME"),
		S3Endpoint:        required("S3_ENDPOINT"),
		S3Region:          required("S3_REGION"),
		S3AccessKeyID:     required("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: required("S3_SECRET_ACCESS_KEY"),

		Port:             getEnv("PORT", "8080"),
		AssetDir:         getEnv("ASSET_DIR", "./assets/"),
		PubliclyReadable: isTruthy(os.Getenv("PUBLICLY_READABLE")),
	}

	cfg.RootURL = strings.TrimRight(required("ROOT_URL"), "/")

	if raw := required("GUILD"); raw != "" {
		guild, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("GUILD must be a valid snowflake: %w", err))
		}
		cfg.Guild = guild
	}

	if raw := required("DISCORD_PUBLIC_KEY"); raw != "" {
		key, err := parsePublicKey(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("DISCORD_PUBLIC_KEY: %w", err))
		}
		cfg.PublicKey = key
	}

	cfg.RequiredPermission = 1 << 40 // MODERATE_MEMBERS
	if raw := os.Getenv("REQUIRED_PERMISSION"); raw != "" {
		perm, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("REQUIRED_PERMISSION must be a permission bit set: %w", err))
		} else {
			cfg.RequiredPermission = perm
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// CallbackURL is the redirect URL registered with the provider.
func (c *Config) CallbackURL() string {
	return c.RootURL + "/oauth2/callback"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func parsePublicKey(raw string) (ed25519.PublicKey, error) {
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("not valid hex: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("decoded to %d bytes, want %d", len(key), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(key), nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func isTruthy(v string) bool {
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "f", "false", "0", "n", "no":
		return false
	}
	return true
}
