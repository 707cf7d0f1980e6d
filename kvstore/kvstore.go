package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist, has expired, or was
// already consumed. Callers cannot distinguish between these cases.
var ErrNotFound = errors.New("key not found")

// Store is the narrow capability interface over the shared ephemeral
// key-value store. Both roundtrip state and session records live behind it,
// so any backend with per-key TTL support can satisfy it, including an
// in-process double for tests.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// SetEx writes key with the given TTL, overwriting any existing value.
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error

	// GetDel atomically fetches and deletes key, or returns ErrNotFound.
	// The atomicity is what enforces at-most-once consumption of roundtrip
	// records: two concurrent calls for the same key cannot both succeed.
	GetDel(ctx context.Context, key string) (string, error)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Del removes key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error
}
