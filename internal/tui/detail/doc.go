// Package detail renders the lazily loaded profile panel shown under an
// expanded member.
//
// The panel reflects the profile's cache state: a spinner while the fetch is
// in flight, the profile once resolved, and an inline error with a retry
// hint ('r' key) when the fetch failed. A failure never leaves the browser.
package detail
