// ABOUTME: LifeLine HTTP server: SecondMe OAuth, proxied user and chat APIs, plan generation and playback streams.
// ABOUTME: All routes hang off one chi router with request logging, metrics and panic recovery.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/2389-research/lifeline/metrics"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/secondme"
)

// SecondMe is the upstream API used by the auth, user and chat routes.
// *secondme.Client implements it.
type SecondMe interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*secondme.Tokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*secondme.Tokens, error)
	Profile(ctx context.Context, token string) (*secondme.Profile, error)
	UserInfo(ctx context.Context, token string) (json.RawMessage, error)
	UserShades(ctx context.Context, token string) (json.RawMessage, error)
	ChatSessions(ctx context.Context, token string) (json.RawMessage, error)
	SessionMessages(ctx context.Context, token, sessionID string) (json.RawMessage, error)
	ChatStream(ctx context.Context, token string, req secondme.ChatRequest) (io.ReadCloser, error)
}

// Planner produces plans. *plan.Orchestrator implements it.
type Planner interface {
	Generate(ctx context.Context, input, token string) (plan.RawPlan, error)
	Acquire(ctx context.Context, input, token string) plan.Result
}

// Config wires a Server.
type Config struct {
	Addr     string // listen address (default: "127.0.0.1:3000")
	SecondMe SecondMe
	Planner  Planner
	Sessions *SessionManager
	Metrics  *metrics.Registry

	// PlaybackInterval and SettleDelay time the server-side playback stream.
	PlaybackInterval time.Duration
	SettleDelay      time.Duration

	// UserInfoTTL bounds how long proxied user info is cached per token.
	UserInfoTTL time.Duration
}

// Server is the LifeLine HTTP server.
type Server struct {
	cfg      Config
	router   chi.Router
	userInfo *expirable.LRU[string, json.RawMessage]
	pages    *TemplateEngine
}

const userInfoCacheSize = 1024

// NewServer validates cfg and builds the router.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:3000"
	}
	if cfg.SecondMe == nil {
		return nil, errors.New("web: SecondMe client is required")
	}
	if cfg.Planner == nil {
		return nil, errors.New("web: Planner is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("web: SessionManager is required")
	}
	if cfg.UserInfoTTL <= 0 {
		cfg.UserInfoTTL = time.Minute
	}

	pages, err := NewTemplateEngine()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		userInfo: expirable.NewLRU[string, json.RawMessage](userInfoCacheSize, nil, cfg.UserInfoTTL),
		pages:    pages,
	}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("component=web action=listen addr=%s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/dashboard", s.handleDashboard)
	r.Handle("/static/*", http.FileServer(http.FS(StaticFS)))
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.cfg.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", s.handleLogin)
			r.Get("/callback", s.handleCallback)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})
		r.Route("/user", func(r chi.Router) {
			r.Get("/info", s.handleUserInfo)
			r.Get("/shades", s.handleUserShades)
		})
		r.Route("/chat", func(r chi.Router) {
			r.Get("/sessions", s.handleChatSessions)
			r.Post("/stream", s.handleChatStream)
			r.Post("/plan", s.handlePlan)
		})
		r.Route("/coordinate", func(r chi.Router) {
			r.Post("/", s.handleCoordinate)
			r.Get("/stream", s.handleCoordinateStream)
			r.Get("/report", s.handleReport)
			r.Post("/report", s.handleReport)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("component=web action=encode_response err=%v", err)
	}
}

// writeError writes the {"error": msg} body used by every API route.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
