// Package source fetches teams and member profiles from the challenge backend.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/rshade/rosterview/internal/roster"
)

// Source is the data source consumed by the selection controller.
type Source interface {
	// FetchAllTeams returns every team. It is called once per session.
	FetchAllTeams(ctx context.Context) ([]roster.Team, error)

	// FetchProfile returns the profile of one member.
	FetchProfile(ctx context.Context, memberID string) (roster.Profile, error)
}

// Common source errors.
var (
	ErrUnauthorized     = errors.New("backend rejected the session token")
	ErrNotFound         = errors.New("resource not found")
	ErrIncompatibleAPI  = errors.New("incompatible backend API version")
	ErrInvalidBaseURL   = errors.New("base URL must be an absolute http(s) URL")
	ErrMalformedPayload = errors.New("malformed response payload")
)

// StatusError is returned for unexpected non-2xx responses.
type StatusError struct {
	Method     string
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	method := e.Method
	if method == "" {
		method = "GET"
	}
	return fmt.Sprintf("%s %s: unexpected status %d", method, e.URL, e.StatusCode)
}
