package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/atticweb/attic/internal/tasks"
)

// OAuthCallbackHandler completes the authorization-code handshake: redeem
// the state, exchange the code, check permissions, issue a session. The
// provider tokens are revoked as soon as the permission decision is in,
// whichever way it went; the revocation runs detached so the user response
// never waits on it.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rt, err := s.roundtrips.Complete(r.Context(), r.URL.Query().Get("state"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		tokens, err := s.exchange.Exchange(r.Context(), r.URL.Query().Get("code"), rt.Verifier)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		authErr := s.authorizer.Authorize(r.Context(), tokens.AccessToken)
		tasks.Go("revoke-oauth-tokens", func(ctx context.Context) error {
			s.exchange.Revoke(ctx, tokens)
			return nil
		})
		if authErr != nil {
			s.writeError(w, r, authErr)
			return
		}

		token, err := s.sessions.Issue(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		http.SetCookie(w, s.sessions.Cookie(token))

		redirect := rt.Redirect
		if !strings.HasPrefix(redirect, "/") {
			redirect = "/"
		}
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	}
}
