package auth

import "errors"

var (
	// ErrInvalidState means the state parameter from the provider callback
	// matched no stored roundtrip record: forged, expired, or already
	// consumed. The three cases are deliberately indistinguishable.
	ErrInvalidState = errors.New("invalid oauth2 state")

	// ErrCodeExchangeFailed means the provider rejected the authorization
	// code or the PKCE verifier did not match the challenge. Authorization
	// codes are single-use and short-lived, so this is never retried.
	ErrCodeExchangeFailed = errors.New("oauth2 code exchange failed")

	// ErrNoPermissions means the authenticated principal lacks the required
	// guild membership or permission.
	ErrNoPermissions = errors.New("missing required guild permissions")
)
