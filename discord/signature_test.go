package discord_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atticweb/attic/discord"
)

type signedRequest struct {
	signature string
	timestamp string
	body      []byte
	public    ed25519.PublicKey
}

func signRequest(t *testing.T, timestamp string, body []byte) signedRequest {
	t.Helper()

	public, private, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	message := append([]byte(timestamp), body...)
	sig := ed25519.Sign(private, message)

	return signedRequest{
		signature: hex.EncodeToString(sig),
		timestamp: timestamp,
		body:      body,
		public:    public,
	}
}

func TestVerifyValidSignature(t *testing.T) {
	req := signRequest(t, "1700000000", []byte(`{"type":1}`))

	interaction, err := discord.VerifyInteraction(req.signature, req.timestamp, req.body, req.public)
	require.NoError(t, err)
	require.Equal(t, discord.InteractionTypePing, interaction.Type)
}

func TestVerifyMissingHeaders(t *testing.T) {
	req := signRequest(t, "1700000000", []byte(`{"type":1}`))

	_, err := discord.VerifyInteraction("", req.timestamp, req.body, req.public)
	require.ErrorIs(t, err, discord.ErrMissingHeader)

	_, err = discord.VerifyInteraction(req.signature, "", req.body, req.public)
	require.ErrorIs(t, err, discord.ErrMissingHeader)

	_, err = discord.VerifyInteraction("", "", req.body, req.public)
	require.ErrorIs(t, err, discord.ErrMissingHeader)
}

func TestVerifyTamperedBody(t *testing.T) {
	// correct signature over the original body, body mutated after signing
	req := signRequest(t, "1700000000", []byte(`{"type":1,"guild_id":"42"}`))

	tampered := append([]byte(nil), req.body...)
	tampered[len(tampered)-2] ^= 0x01

	_, err := discord.VerifyInteraction(req.signature, req.timestamp, tampered, req.public)
	require.ErrorIs(t, err, discord.ErrInvalidSignature)
}

func TestVerifyTamperedTimestamp(t *testing.T) {
	req := signRequest(t, "1700000000", []byte(`{"type":1}`))

	_, err := discord.VerifyInteraction(req.signature, "1700000001", req.body, req.public)
	require.ErrorIs(t, err, discord.ErrInvalidSignature)
}

func TestVerifyTamperedSignature(t *testing.T) {
	req := signRequest(t, "1700000000", []byte(`{"type":1}`))

	raw, err := hex.DecodeString(req.signature)
	require.NoError(t, err)
	raw[0] ^= 0x01

	_, err = discord.VerifyInteraction(hex.EncodeToString(raw), req.timestamp, req.body, req.public)
	require.ErrorIs(t, err, discord.ErrInvalidSignature)
}

func TestVerifyMalformedSignature(t *testing.T) {
	req := signRequest(t, "1700000000", []byte(`{"type":1}`))

	_, err := discord.VerifyInteraction("not-hex", req.timestamp, req.body, req.public)
	require.ErrorIs(t, err, discord.ErrInvalidSignature)

	_, err = discord.VerifyInteraction("deadbeef", req.timestamp, req.body, req.public)
	require.ErrorIs(t, err, discord.ErrInvalidSignature)
}

func TestVerifyWrongKey(t *testing.T) {
	req := signRequest(t, "1700000000", []byte(`{"type":1}`))
	otherPublic, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	_, err = discord.VerifyInteraction(req.signature, req.timestamp, req.body, otherPublic)
	require.ErrorIs(t, err, discord.ErrInvalidSignature)
}

func TestParsePublicKey(t *testing.T) {
	public, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	parsed, err := discord.ParsePublicKey(hex.EncodeToString(public))
	require.NoError(t, err)
	require.Equal(t, public, parsed)

	_, err = discord.ParsePublicKey("zz")
	require.Error(t, err)

	_, err = discord.ParsePublicKey("deadbeef")
	require.Error(t, err)
}
