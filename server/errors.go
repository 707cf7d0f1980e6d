package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/atticweb/attic/auth"
	"github.com/atticweb/attic/discord"
)

var errNotFound = errors.New("not found")

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidState),
		errors.Is(err, auth.ErrCodeExchangeFailed):
		return http.StatusBadRequest
	case errors.Is(err, discord.ErrMissingHeader),
		errors.Is(err, discord.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrNoPermissions):
		return http.StatusForbidden
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a response. Only unexpected failures are logged at
// error level; rejections of bad input are routine and stay at debug.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}
	s.renderError(w, status)
}

func (s *Server) renderError(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
	s.render(w, "error.html", map[string]any{
		"Status":  status,
		"Message": http.StatusText(status),
	})
}
