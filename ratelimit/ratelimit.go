// Package ratelimit tracks per-endpoint rate-limit state reported by
// the Twitter API.
//
// Every successful (or in-band failed) request carries
// x-rate-limit-* response headers describing the quota of the
// endpoint that was just called. The Store keeps the last snapshot
// seen for each endpoint key, where the key is the request URL's
// origin plus path with query stripped and path placeholders left
// unexpanded, so all calls to one logical endpoint share a bucket.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Snapshot is the rate-limit state of one endpoint as of the last
// response received for it.
type Snapshot struct {
	// Limit is the total request quota for the current window.
	Limit int
	// Remaining is the number of requests left in the current window.
	Remaining int
	// Reset is the Unix epoch (seconds) at which the window resets.
	Reset int64
}

// ResetAt returns the reset time as a time.Time.
func (s Snapshot) ResetAt() time.Time {
	return time.Unix(s.Reset, 0)
}

// Exhausted reports whether the quota is used up and the window has
// not reset yet.
func (s Snapshot) Exhausted() bool {
	return s.Remaining <= 0 && time.Now().Unix() < s.Reset
}

// Store is a process-local map from endpoint key to the last-seen
// rate-limit snapshot. Writes overwrite unconditionally
// (last-write-wins); entries are never evicted.
type Store struct {
	mu        sync.Mutex
	snapshots map[string]Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{snapshots: make(map[string]Snapshot)}
}

// Save records the snapshot for the given endpoint key, replacing any
// previous one.
func (s *Store) Save(key string, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = snap
}

// Get returns the last snapshot recorded for the endpoint key. The
// second return value is false when no request to that endpoint has
// completed yet.
func (s *Store) Get(key string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[key]
	return snap, ok
}

// Len returns the number of endpoints with recorded state.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

// FromHeaders parses the x-rate-limit-* response headers into a
// snapshot. Returns false when the response carries no rate-limit
// information.
func FromHeaders(h http.Header) (Snapshot, bool) {
	if h.Get("x-rate-limit-limit") == "" {
		return Snapshot{}, false
	}
	var snap Snapshot
	if n, err := strconv.Atoi(h.Get("x-rate-limit-limit")); err == nil {
		snap.Limit = n
	}
	if n, err := strconv.Atoi(h.Get("x-rate-limit-remaining")); err == nil {
		snap.Remaining = n
	}
	if n, err := strconv.ParseInt(h.Get("x-rate-limit-reset"), 10, 64); err == nil {
		snap.Reset = n
	}
	return snap, true
}
