package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

func TestStore_LastWriteWins(t *testing.T) {
	s := NewStore()
	key := "https://api.twitter.com/2/tweets"

	s.Save(key, Snapshot{Limit: 300, Remaining: 299, Reset: 100})
	s.Save(key, Snapshot{Limit: 300, Remaining: 298, Reset: 100})

	snap, ok := s.Get(key)
	if !ok {
		t.Fatal("expected snapshot for key")
	}
	if snap.Remaining != 298 {
		t.Errorf("got remaining %d, want 298", snap.Remaining)
	}
	if s.Len() != 1 {
		t.Errorf("got %d entries, want 1", s.Len())
	}
}

func TestStore_UnknownKey(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("https://api.twitter.com/2/users/me"); ok {
		t.Error("expected no snapshot for unseen endpoint")
	}
}

func TestFromHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("x-rate-limit-limit", "900")
	h.Set("x-rate-limit-remaining", "42")
	h.Set("x-rate-limit-reset", "1700000000")

	snap, ok := FromHeaders(h)
	if !ok {
		t.Fatal("expected snapshot from headers")
	}
	if snap.Limit != 900 || snap.Remaining != 42 || snap.Reset != 1700000000 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if !snap.ResetAt().Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected reset time: %v", snap.ResetAt())
	}
}

func TestFromHeaders_Missing(t *testing.T) {
	if _, ok := FromHeaders(http.Header{}); ok {
		t.Error("expected no snapshot without rate-limit headers")
	}
}

func TestSnapshot_Exhausted(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()

	if !(Snapshot{Remaining: 0, Reset: future}).Exhausted() {
		t.Error("expected exhausted when remaining=0 and reset in the future")
	}
	if (Snapshot{Remaining: 0, Reset: past}).Exhausted() {
		t.Error("expected not exhausted after the window reset")
	}
	if (Snapshot{Remaining: 5, Reset: future}).Exhausted() {
		t.Error("expected not exhausted with remaining quota")
	}
}
