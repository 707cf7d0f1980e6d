// Package server wires the authentication core, the gallery service, and
// the webhook verifier into the HTTP surface.
package server

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/atticweb/attic/auth"
	"github.com/atticweb/attic/discord"
	"github.com/atticweb/attic/gallery"
	"github.com/atticweb/attic/internal/config"
	"github.com/atticweb/attic/kvstore"
)

// Exchanger is the provider-facing half of the callback handler.
// *auth.ExchangeClient implements it; tests substitute fakes.
type Exchanger interface {
	Exchange(ctx context.Context, code, verifier string) (auth.TokenPair, error)
	Revoke(ctx context.Context, tokens auth.TokenPair)
}

type Server struct {
	mux        *http.ServeMux
	config     *config.Config
	sessions   *auth.SessionManager
	roundtrips *auth.RoundtripManager
	exchange   Exchanger
	authorizer auth.Authorizer
	gallery    *gallery.Service
}

func New(cfg *config.Config, store kvstore.Store, exchange Exchanger, authorizer auth.Authorizer, gallerySvc *gallery.Service) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		config:     cfg,
		sessions:   auth.NewSessionManager(store),
		roundtrips: auth.NewRoundtripManager(store, OAuthConfig(cfg)),
		exchange:   exchange,
		authorizer: authorizer,
		gallery:    gallerySvc,
	}
	s.initRoutes()
	return s
}

// OAuthConfig builds the provider client configuration from the process
// configuration.
func OAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     discord.Endpoint,
		RedirectURL:  cfg.CallbackURL(),
		Scopes:       []string{"identify", "guilds"},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	viewMiddleware := s.HTMLMiddleware(s.RequireSession)
	if s.config.PubliclyReadable {
		viewMiddleware = s.HTMLMiddleware()
	}

	s.mux.HandleFunc("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.mux.HandleFunc("POST "+RouteUpload, ChainMiddleware(s.UploadHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.mux.HandleFunc("GET "+RouteGallery+"/{id}", ChainMiddleware(s.ViewHandler(), viewMiddleware...))

	s.mux.HandleFunc("GET "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleware()...))
	s.mux.HandleFunc("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleware()...))
	s.mux.HandleFunc("POST "+RouteInteractions, ChainMiddleware(s.InteractionsHandler(), s.APIMiddleware()...))

	s.mux.Handle("GET "+RouteAssets+"/", http.StripPrefix(RouteAssets+"/",
		http.FileServer(http.Dir(s.config.AssetDir))))
}
