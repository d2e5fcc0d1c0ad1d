package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"stircraft/internal/handlers"
	applog "stircraft/internal/log"
)

const (
	defaultSessionLifetime = 12 * time.Hour
	defaultCookieName      = "stircraft_session"
	shutdownTimeout        = 5 * time.Second
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr     string
	Session  SessionConfig
	Database *gorm.DB
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server owns the http.Server serving the catalog.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New wires sessions and handler dependencies and builds the handler chain.
// A nil Database leaves only the anonymous pages working.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	session := cfg.Session
	if session.Lifetime <= 0 {
		session.Lifetime = defaultSessionLifetime
	}
	if strings.TrimSpace(session.CookieName) == "" {
		session.CookieName = defaultCookieName
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = session.Lifetime
	sessionManager.Cookie.Name = session.CookieName
	sessionManager.Cookie.Domain = session.CookieDomain
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = session.CookieSecure

	handlers.Configure(sessionManager, cfg.Database)
	applog.Debug(ctx, "server configured",
		"addr", cfg.Addr,
		"sessionLifetime", session.Lifetime.String(),
		"cookieName", session.CookieName,
		"cookieSecure", session.CookieSecure,
		"hasDatabase", cfg.Database != nil,
	)

	handler := instrument(withRequestID(sessionManager.LoadAndSave(newRouter())))

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       time.Minute,
		},
	}, nil
}

// Start blocks serving HTTP until Stop is called.
func (s *Server) Start() error {
	applog.Info(context.Background(), "listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests, giving up after shutdownTimeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
