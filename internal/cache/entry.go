package cache

// State is the lifecycle stage of one cached key.
type State int

const (
	// Absent means the key was never requested (or the cache was reset).
	Absent State = iota
	// Pending means a fetch is in flight and new callers join it.
	Pending
	// Resolved means the value is cached for the rest of the session.
	Resolved
	// Failed means the last fetch returned an error; the next Load retries.
	Failed
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// entry is the record behind one key. generation ties a Pending entry to the
// cache generation that started its fetch.
type entry[V any] struct {
	state      State
	value      V
	err        error
	generation uint64
}
