package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Headers carrying the detached Ed25519 signature on webhook requests.
const (
	SignatureHeader = "X-Signature-Ed25519"
	TimestampHeader = "X-Signature-Timestamp"
)

var (
	// ErrMissingHeader means the request lacked a signature or timestamp
	// header. Reported before any signature math is attempted.
	ErrMissingHeader = errors.New("missing signature header")

	// ErrInvalidSignature means the signature was present but did not
	// verify over the timestamp and body.
	ErrInvalidSignature = errors.New("invalid request signature")
)

// VerifyInteraction authenticates a webhook request and, only then,
// deserializes its body. The signed message is the raw timestamp header
// bytes concatenated with the raw body bytes; verification uses Ed25519,
// which compares without early exit on partial matches. An unverified body
// is never parsed.
func VerifyInteraction(signature, timestamp string, body []byte, key ed25519.PublicKey) (*Interaction, error) {
	if signature == "" || timestamp == "" {
		return nil, ErrMissingHeader
	}

	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return nil, ErrInvalidSignature
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)
	if !ed25519.Verify(key, message, sig) {
		return nil, ErrInvalidSignature
	}

	var interaction Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		return nil, fmt.Errorf("decoding interaction payload: %w", err)
	}
	return &interaction, nil
}

// ParsePublicKey decodes the hex-encoded verification key from
// configuration.
func ParsePublicKey(hexKey string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key is %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}
