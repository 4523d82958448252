// Package cache provides an in-memory, memoizing store for values that are
// fetched asynchronously, keyed by resource id.
//
// The cache is the only shared mutable state of a browsing session. Key features:
//   - At most one fetch in flight per key, no matter how many callers ask
//     (deduplication via golang.org/x/sync/singleflight)
//   - Resolved values are terminal and served without any further fetch
//   - Failed fetches are recorded, never poison other keys, and are retried
//     by the next Load for the same key
//   - Non-blocking Load: the Pending state is visible before Load returns,
//     so a renderer can show a spinner immediately
//
// Entries are never evicted; Reset drops everything at once and detaches
// fetches that were still in flight.
package cache
