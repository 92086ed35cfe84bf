package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Factor:         2.0,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	cfg := fastConfig()
	err := Do(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("got %d attempts, want 3", attempts)
	}
}

func TestDo_MaxAttempts(t *testing.T) {
	attempts := 0
	cfg := fastConfig()
	cfg.MaxAttempts = 2

	err := Do(context.Background(), cfg, func() error {
		attempts++
		return errors.New("always")
	})
	if !errors.Is(err, ErrAttemptsExceeded) {
		t.Errorf("got %v, want ErrAttemptsExceeded", err)
	}
	if attempts != 2 {
		t.Errorf("got %d attempts, want 2", attempts)
	}
}

func TestDo_RetryIfRejects(t *testing.T) {
	fatal := errors.New("fatal")
	attempts := 0
	cfg := fastConfig()
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, fatal) }

	err := Do(context.Background(), cfg, func() error {
		attempts++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Errorf("got %v, want fatal", err)
	}
	if attempts != 1 {
		t.Errorf("got %d attempts, want 1", attempts)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{InitialBackoff: time.Hour}

	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, cfg, func() error { return errors.New("transient") })
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestDo_OnRetryCalled(t *testing.T) {
	var retries int
	cfg := fastConfig()
	cfg.MaxAttempts = 3
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) { retries++ }

	_ = Do(context.Background(), cfg, func() error { return errors.New("always") })
	if retries != 2 {
		t.Errorf("got %d OnRetry calls, want 2", retries)
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	cfg := Config{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, Factor: 2.0}

	first := Backoff(1, cfg)
	if first != 100*time.Millisecond {
		t.Errorf("got %v, want 100ms", first)
	}
	if Backoff(2, cfg) != 200*time.Millisecond {
		t.Errorf("got %v, want 200ms", Backoff(2, cfg))
	}
	if capped := Backoff(10, cfg); capped != time.Second {
		t.Errorf("got %v, want cap at 1s", capped)
	}
}
