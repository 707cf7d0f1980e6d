package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// TokenPair holds the provider tokens obtained from a code exchange. It
// lives only for the duration of the permission check and is revoked at the
// provider as soon as the authorization decision has been made; nothing in
// this system persists provider credentials.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Authorizer answers whether the principal behind an access token may use
// the application. The platform's API client implements it; the core treats
// the decision as opaque.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) error
}

// ExchangeClient wraps the provider's authorization-code exchange and token
// revocation endpoints.
type ExchangeClient struct {
	oauth     *oauth2.Config
	revokeURL string
	http      *http.Client
}

func NewExchangeClient(oauth *oauth2.Config, revokeURL string, httpClient *http.Client) *ExchangeClient {
	return &ExchangeClient{oauth: oauth, revokeURL: revokeURL, http: httpClient}
}

// Exchange trades the authorization code for a token pair, presenting the
// PKCE verifier so the provider can confirm it against the challenge from
// the authorization request. Any transport or provider failure is
// ErrCodeExchangeFailed.
func (c *ExchangeClient) Exchange(ctx context.Context, code, verifier string) (TokenPair, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrCodeExchangeFailed, err)
	}
	return TokenPair{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}, nil
}

// Revoke revokes both tokens at the provider, refresh token first.
// Revocation is a cleanup courtesy: failures are logged and swallowed so
// the response path can never be delayed or failed by it. Callers run this
// as a detached task.
func (c *ExchangeClient) Revoke(ctx context.Context, tokens TokenPair) {
	if tokens.RefreshToken != "" {
		c.revoke(ctx, tokens.RefreshToken, "refresh_token")
	}
	if tokens.AccessToken != "" {
		c.revoke(ctx, tokens.AccessToken, "access_token")
	}
}

func (c *ExchangeClient) revoke(ctx context.Context, token, hint string) {
	form := url.Values{
		"token":           {token},
		"token_type_hint": {hint},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.Debug().Err(err).Msg("building token revocation request")
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.oauth.ClientID, c.oauth.ClientSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("hint", hint).Msg("token revocation failed")
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		log.Debug().Int("status", resp.StatusCode).Str("hint", hint).Msg("provider rejected token revocation")
	}
}
