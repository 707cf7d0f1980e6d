package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/atticweb/attic/auth"
)

const maxUploadBytes = 50 << 20

func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "index.html", nil)
	}
}

func (s *Server) ViewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			s.writeError(w, r, errNotFound)
			return
		}

		urls, err := s.gallery.View(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if len(urls) == 0 {
			s.writeError(w, r, fmt.Errorf("gallery %q: %w", id, errNotFound))
			return
		}
		s.render(w, "view.html", map[string]any{"ID": id, "URLs": urls})
	}
}

func (s *Server) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, _, err := r.FormFile("image")
		if err != nil {
			s.renderError(w, http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			s.renderError(w, http.StatusBadRequest)
			return
		}

		id, err := s.gallery.Upload(r.Context(), data)
		if err != nil {
			log.Debug().Err(err).Msg("upload rejected")
			s.renderError(w, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
			if err := s.sessions.Revoke(r.Context(), cookie.Value); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		http.SetCookie(w, s.sessions.ExpiredCookie())
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
