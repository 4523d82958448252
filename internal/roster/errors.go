package roster

import (
	"errors"
	"fmt"
)

// ErrMalformedRoster is matched by every MalformedRosterError via errors.Is.
var ErrMalformedRoster = errors.New("malformed roster")

// MalformedRosterError reports a team whose correlated member fields split
// into different lengths.
type MalformedRosterError struct {
	TeamID int
	Field  string
	IDs    int
	Other  int
}

func (e *MalformedRosterError) Error() string {
	return fmt.Sprintf("team %d: %d member ids but %d %s", e.TeamID, e.IDs, e.Other, e.Field)
}

// Is reports whether target is ErrMalformedRoster.
func (e *MalformedRosterError) Is(target error) bool {
	return target == ErrMalformedRoster
}
