package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rshade/rosterview/internal/roster"
	"github.com/rshade/rosterview/internal/source"
)

const (
	defaultTokenTTL = time.Hour
	shutdownTimeout = 5 * time.Second
)

// Server serves Data over the backend's HTTP API.
type Server struct {
	teams      []roster.Team
	profiles   map[string]roster.Profile
	accounts   map[string]string
	failing    map[string]bool
	signingKey []byte
	tokenTTL   time.Duration
	latency    time.Duration
	apiVersion string
	logger     zerolog.Logger
	now        func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithSigningKey sets the HMAC key for issued tokens.
func WithSigningKey(key string) Option {
	return func(s *Server) { s.signingKey = []byte(key) }
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithLatency delays every team and profile response.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithAPIVersion sets the X-Api-Version header on every response.
func WithAPIVersion(v string) Option {
	return func(s *Server) { s.apiVersion = v }
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithClock replaces time.Now for token issuing and checking.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer indexes data for serving.
func NewServer(data *Data, opts ...Option) *Server {
	s := &Server{
		teams:      data.Teams,
		profiles:   make(map[string]roster.Profile, len(data.Profiles)),
		accounts:   make(map[string]string, len(data.Accounts)),
		failing:    make(map[string]bool, len(data.FailingProfiles)),
		signingKey: []byte("rosterview-fixture"),
		tokenTTL:   defaultTokenTTL,
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, p := range data.Profiles {
		s.profiles[p.ID] = p
	}
	for _, a := range data.Accounts {
		s.accounts[strings.ToLower(a.Email)] = a.Password
	}
	for _, id := range data.FailingProfiles {
		s.failing[id] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.logRequests, s.versionHeader)
	router.HandleFunc("/loginRecruiter", s.login).Methods(http.MethodPost)

	protected := router.NewRoute().Subrouter()
	protected.Use(s.requireToken, s.delay)
	protected.HandleFunc("/getAllTeams", s.allTeams).Methods(http.MethodGet)
	protected.HandleFunc("/getProfile/{id}", s.profile).Methods(http.MethodGet)
	return router
}

// IssueToken signs a token for email that expires after the configured TTL.
func (s *Server) IssueToken(email string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   email,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Serve runs the server on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("fixture server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down fixture server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid login payload", http.StatusBadRequest)
		return
	}

	want, ok := s.accounts[strings.ToLower(req.Email)]
	if !ok || want != req.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := s.IssueToken(req.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("issuing token failed")
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"access_token": token})
}

func (s *Server) allTeams(w http.ResponseWriter, _ *http.Request) {
	teams := s.teams
	if teams == nil {
		teams = []roster.Team{}
	}
	writeJSON(w, teams)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if s.failing[id] {
		http.Error(w, "profile service unavailable", http.StatusInternalServerError)
		return
	}
	p, ok := s.profiles[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, p)
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			http.Error(w, "missing auth token", http.StatusUnauthorized)
			return
		}

		_, err := jwt.Parse(raw,
			func(*jwt.Token) (any, error) { return s.signingKey, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(s.now),
		)
		if err != nil {
			s.logger.Debug().Err(err).Msg("rejected token")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.latency > 0 {
			select {
			case <-time.After(s.latency):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) versionHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiVersion != "" {
			w.Header().Set(source.APIVersionHeader, s.apiVersion)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("fixture request")
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
