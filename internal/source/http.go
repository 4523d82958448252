package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/rshade/rosterview/internal/roster"
)

const (
	// APIVersionHeader carries the backend's semantic version, when it sends one.
	APIVersionHeader = "X-Api-Version"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	teamsPath   = "/getAllTeams"
	profilePath = "/getProfile/"

	// maxErrorBody limits how much of an error body is logged.
	maxErrorBody = 512
)

// HTTPSource talks to the backend over HTTP with bearer authentication.
type HTTPSource struct {
	baseURL    *url.URL
	client     *http.Client
	token      string
	minVersion *semver.Constraints
	logger     zerolog.Logger
}

// Option configures an HTTPSource.
type Option func(*HTTPSource) error

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *HTTPSource) error {
		s.client = client
		return nil
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(s *HTTPSource) error {
		if timeout > 0 {
			s.client.Timeout = timeout
		}
		return nil
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(s *HTTPSource) error {
		s.token = token
		return nil
	}
}

// WithAPIConstraint rejects responses whose APIVersionHeader does not satisfy
// constraint (for example ">= 1.0, < 2.0"). Responses without the header pass.
func WithAPIConstraint(constraint string) Option {
	return func(s *HTTPSource) error {
		if constraint == "" {
			return nil
		}
		c, err := semver.NewConstraint(constraint)
		if err != nil {
			return fmt.Errorf("parsing API version constraint %q: %w", constraint, err)
		}
		s.minVersion = c
		return nil
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *HTTPSource) error {
		s.logger = logger
		return nil
	}
}

// NewHTTPSource creates a source rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...Option) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	s := &HTTPSource{
		baseURL: u,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			return nil, optErr
		}
	}
	return s, nil
}

// FetchAllTeams implements Source.
func (s *HTTPSource) FetchAllTeams(ctx context.Context) ([]roster.Team, error) {
	var teams []roster.Team
	if err := s.getJSON(ctx, teamsPath, &teams); err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}
	return teams, nil
}

// FetchProfile implements Source.
func (s *HTTPSource) FetchProfile(ctx context.Context, memberID string) (roster.Profile, error) {
	var p roster.Profile
	if err := s.getJSON(ctx, profilePath+url.PathEscape(memberID), &p); err != nil {
		return roster.Profile{}, fmt.Errorf("fetching profile %s: %w", memberID, err)
	}
	return p, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, path string, out any) error {
	endpoint := s.baseURL.String() + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	s.logger.Debug().
		Ctx(ctx).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	if statusErr := s.checkStatus(resp, endpoint); statusErr != nil {
		return statusErr
	}
	if versionErr := s.checkVersion(resp); versionErr != nil {
		return versionErr
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, decodeErr)
	}
	return nil
}

func (s *HTTPSource) checkStatus(resp *http.Response, endpoint string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		s.logger.Warn().
			Str("url", endpoint).
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("unexpected backend status")
		return &StatusError{StatusCode: resp.StatusCode, URL: endpoint}
	}
}

func (s *HTTPSource) checkVersion(resp *http.Response) error {
	if s.minVersion == nil {
		return nil
	}
	raw := resp.Header.Get(APIVersionHeader)
	if raw == "" {
		return nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: unparseable version %q", ErrIncompatibleAPI, raw)
	}
	if !s.minVersion.Check(v) {
		return fmt.Errorf("%w: backend %s does not satisfy %s", ErrIncompatibleAPI, v, s.minVersion)
	}
	return nil
}
