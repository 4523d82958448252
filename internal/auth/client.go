package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/rosterview/internal/source"
)

const loginPath = "/loginRecruiter"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Client logs recruiters in against the backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient returns a client for baseURL. A nil httpClient uses a default
// client with source.DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", source.ErrInvalidBaseURL, baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: source.DefaultTimeout}
	}
	return &Client{baseURL: u, http: httpClient, logger: logger}, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (Token, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return Token{}, fmt.Errorf("encoding login request: %w", err)
	}

	endpoint := c.baseURL.JoinPath(loginPath).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Token{}, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().Ctx(ctx).
		Str("endpoint", loginPath).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("login response")

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return Token{}, ErrLoginRejected
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Token{}, &source.StatusError{Method: http.MethodPost, StatusCode: resp.StatusCode, URL: endpoint}
	}

	var out loginResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Token{}, fmt.Errorf("%w: %w", source.ErrMalformedPayload, err)
	}
	return ParseToken(out.AccessToken)
}
