// Package discord is the client side of everything this application does
// against the Discord platform: the OAuth2 endpoints, the REST API calls
// behind the permission check and command registration, and the Ed25519
// verification of inbound interaction webhooks.
package discord

import (
	"net/http"

	"golang.org/x/oauth2"
)

const defaultAPIBaseURL = "https://discord.com/api/v10"

// OAuth2 endpoints of the provider. The revocation endpoint is separate
// because golang.org/x/oauth2 has no RFC 7009 support of its own.
const (
	AuthorizeURL = "https://discord.com/oauth2/authorize"
	TokenURL     = "https://discord.com/api/oauth2/token"
	RevokeURL    = "https://discord.com/api/oauth2/token/revoke"
)

// Endpoint is the provider's oauth2 endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  AuthorizeURL,
	TokenURL: TokenURL,
}

// Client is a minimal Discord REST API client. Bot-authenticated calls use
// the configured token; user-authenticated calls take a bearer token per
// request.
type Client struct {
	http     *http.Client
	baseURL  string
	botToken string
}

// NewClient builds a client around httpClient, which must have a finite
// timeout configured. baseURL overrides the Discord API base when non-empty
// (tests point it at a local server).
func NewClient(httpClient *http.Client, botToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &Client{http: httpClient, baseURL: baseURL, botToken: botToken}
}
