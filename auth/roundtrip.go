package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/atticweb/attic/kvstore"
)

const (
	roundtripKeyPrefix = "token:csrf:"
	roundtripTTL       = 10 * time.Minute
	stateLength        = 32
)

// Roundtrip is the ephemeral record bridging a login redirect and the
// provider callback that completes it.
type Roundtrip struct {
	// Verifier is the PKCE code verifier. Only its S256 challenge is ever
	// sent to the provider.
	Verifier string `json:"pkce"`
	// Redirect is the path the user originally requested.
	Redirect string `json:"redirect"`
}

// RoundtripManager creates and consumes the short-lived state records of the
// authorization-code handshake. The CSRF state token doubles as the record
// key, which is what binds a callback to the request that initiated it.
type RoundtripManager struct {
	store kvstore.Store
	oauth *oauth2.Config
}

func NewRoundtripManager(store kvstore.Store, oauth *oauth2.Config) *RoundtripManager {
	return &RoundtripManager{store: store, oauth: oauth}
}

// Begin starts a handshake for a user who requested originalPath. It returns
// the provider authorization URL to redirect to, after writing the roundtrip
// record under a fresh CSRF state token.
func (m *RoundtripManager) Begin(ctx context.Context, originalPath string) (string, error) {
	verifier := oauth2.GenerateVerifier()
	state := RandString(stateLength)

	data, err := json.Marshal(Roundtrip{Verifier: verifier, Redirect: originalPath})
	if err != nil {
		return "", fmt.Errorf("encoding roundtrip record: %w", err)
	}
	if err := m.store.SetEx(ctx, roundtripKeyPrefix+state, string(data), roundtripTTL); err != nil {
		return "", fmt.Errorf("storing roundtrip record: %w", err)
	}

	url := m.oauth.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "none"),
	)
	return url, nil
}

// Complete redeems the state token from a provider callback. The record is
// fetched and deleted in one atomic store operation, so a given state value
// redeems at most once; anything else is ErrInvalidState.
func (m *RoundtripManager) Complete(ctx context.Context, state string) (Roundtrip, error) {
	if state == "" {
		return Roundtrip{}, ErrInvalidState
	}
	raw, err := m.store.GetDel(ctx, roundtripKeyPrefix+state)
	if errors.Is(err, kvstore.ErrNotFound) {
		return Roundtrip{}, ErrInvalidState
	}
	if err != nil {
		return Roundtrip{}, fmt.Errorf("loading roundtrip record: %w", err)
	}

	var rt Roundtrip
	if err := json.Unmarshal([]byte(raw), &rt); err != nil {
		return Roundtrip{}, fmt.Errorf("decoding roundtrip record: %w", err)
	}
	return rt, nil
}
