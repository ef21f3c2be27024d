package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// statusError mimics an upstream API failure carrying an HTTP status.
type statusError struct {
	status int
}

func (e *statusError) Error() string   { return fmt.Sprintf("upstream status %d", e.status) }
func (e *statusError) HTTPStatus() int { return e.status }

// fastConfig keeps test backoff well under a second.
func fastConfig(retries int) Config {
	return Config{Retries: retries, Base: time.Millisecond, Cap: 4 * time.Millisecond}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &statusError{429}, true},
		{"server error", &statusError{500}, true},
		{"bad gateway", &statusError{502}, true},
		{"unavailable", &statusError{503}, true},
		{"gateway timeout", &statusError{504}, true},
		{"not found", &statusError{404}, false},
		{"unauthorized", &statusError{401}, false},
		{"bad request", &statusError{400}, false},
		{"no status", errors.New("connection refused"), false},
		{"wrapped transient", fmt.Errorf("run report: %w", &statusError{503}), true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transient(tt.err); got != tt.want {
				t.Errorf("Transient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	v, err := Do(context.Background(), fastConfig(5), func() (string, error) {
		attempts++
		if attempts <= 2 {
			return "", &statusError{503}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	if v != "ok" {
		t.Errorf("Do() = %q, want ok", v)
	}
	if attempts != 3 {
		t.Errorf("attempted %d times, want 3", attempts)
	}
}

func TestDoExhaustsRetryBudget(t *testing.T) {
	last := &statusError{429}
	attempts := 0
	_, err := Do(context.Background(), fastConfig(2), func() (int, error) {
		attempts++
		return 0, last
	})

	// initial call + 2 retries
	if attempts != 3 {
		t.Errorf("attempted %d times, want 3", attempts)
	}
	// The original failure is re-raised unchanged.
	var se *statusError
	if !errors.As(err, &se) || se != last {
		t.Errorf("Do() error = %v, want the last upstream failure", err)
	}
}

func TestDoZeroRetriesAttemptsOnce(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), fastConfig(0), func() (int, error) {
		attempts++
		return 0, &statusError{503}
	})

	// Retries: 0 disables retrying entirely, even for transient failures.
	if attempts != 1 {
		t.Errorf("attempted %d times with retries disabled, want 1", attempts)
	}
	var se *statusError
	if !errors.As(err, &se) || se.status != 503 {
		t.Errorf("Do() error = %v, want status 503", err)
	}
}

func TestDoNegativeRetriesAttemptsOnce(t *testing.T) {
	attempts := 0
	_, _ = Do(context.Background(), fastConfig(-3), func() (int, error) {
		attempts++
		return 0, &statusError{503}
	})
	if attempts != 1 {
		t.Errorf("attempted %d times, want 1", attempts)
	}
}

func TestDoNonTransientShortCircuits(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), fastConfig(5), func() (int, error) {
		attempts++
		return 0, &statusError{404}
	})
	if attempts != 1 {
		t.Errorf("attempted %d times for a 404, want 1", attempts)
	}
	var se *statusError
	if !errors.As(err, &se) || se.status != 404 {
		t.Errorf("Do() error = %v, want status 404", err)
	}
}

func TestDoErrorWithoutStatusShortCircuits(t *testing.T) {
	boom := errors.New("no status here")
	attempts := 0
	_, err := Do(context.Background(), fastConfig(5), func() (int, error) {
		attempts++
		return 0, boom
	})
	if attempts != 1 {
		t.Errorf("attempted %d times, want 1", attempts)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Do() error = %v, want %v", err, boom)
	}
}

func TestDoContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, Config{Retries: 5, Base: time.Minute, Cap: time.Minute}, func() (int, error) {
			attempts++
			return 0, &statusError{503}
		})
		done <- err
	}()

	// Let the first attempt fail and enter backoff, then cancel.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Do() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do() kept sleeping after context cancellation")
	}
	if attempts != 1 {
		t.Errorf("attempted %d times before cancellation, want 1", attempts)
	}
}

func TestBackoffSchedule(t *testing.T) {
	cfg := Config{Retries: 5, Base: 500 * time.Millisecond, Cap: 8 * time.Second}

	wantFloor := []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		8 * time.Second, // capped
		8 * time.Second,
	}

	for attempt, floor := range wantFloor {
		d := backoff(cfg, attempt)
		if d < floor {
			t.Errorf("backoff(attempt=%d) = %v, below floor %v", attempt, d, floor)
		}
		if d >= floor+maxJitter {
			t.Errorf("backoff(attempt=%d) = %v, at or above ceiling %v", attempt, d, floor+maxJitter)
		}
	}
}

func TestBackoffShiftOverflow(t *testing.T) {
	cfg := Config{Retries: 5, Base: time.Second, Cap: 8 * time.Second}
	// Large attempt numbers must clamp to the cap instead of overflowing.
	if d := backoff(cfg, 62); d < cfg.Cap || d >= cfg.Cap+maxJitter {
		t.Errorf("backoff(attempt=62) = %v, want within [%v, %v)", d, cfg.Cap, cfg.Cap+maxJitter)
	}
}

func TestVoid(t *testing.T) {
	attempts := 0
	err := Void(context.Background(), fastConfig(3), func() error {
		attempts++
		if attempts == 1 {
			return &statusError{502}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Void() failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempted %d times, want 2", attempts)
	}
}
