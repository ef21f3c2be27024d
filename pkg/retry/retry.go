// Package retry executes remote calls with bounded exponential backoff.
//
// Only transient upstream failures are retried: errors that expose an HTTP
// status code in the transient set (429 and the 5xx gateway/server codes).
// Everything else — bad requests, missing resources, auth failures, and
// errors with no extractable status — propagates immediately, so a wrapped
// call surfaces the same failure shape as an unwrapped one, just less often.
//
// Backoff doubles per attempt up to a cap, with random jitter added to
// avoid synchronized retry storms across concurrent callers. The wait is
// context-aware: cancelling the context aborts the backoff without stalling
// unrelated work.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/propscope/propscope/pkg/observability"
)

// Defaults bound a full retry cycle to roughly half a minute of backoff.
const (
	DefaultRetries = 5
	DefaultBase    = 500 * time.Millisecond
	DefaultCap     = 8 * time.Second

	// maxJitter is the exclusive upper bound of the random delay added to
	// every backoff sleep.
	maxJitter = 250 * time.Millisecond
)

// transientStatuses are the upstream status codes worth retrying:
// rate limiting and server-side failures expected to resolve on their own.
var transientStatuses = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// StatusCoder is implemented by errors that carry an upstream HTTP status,
// such as [github.com/propscope/propscope/pkg/gapi.StatusError].
type StatusCoder interface {
	HTTPStatus() int
}

// Config controls the retry schedule.
type Config struct {
	// Retries is the maximum number of retry attempts after the initial
	// call, so a call is attempted at most Retries+1 times. Zero disables
	// retrying; use [DefaultConfig] for the standard schedule.
	Retries int

	// Base is the backoff before the first retry; it doubles per attempt.
	Base time.Duration

	// Cap bounds a single backoff sleep (before jitter).
	Cap time.Duration
}

// DefaultConfig returns the standard schedule: 5 retries, 500ms base, 8s cap.
func DefaultConfig() Config {
	return Config{Retries: DefaultRetries, Base: DefaultBase, Cap: DefaultCap}
}

// normalized clamps nonsensical fields. Retries stays as configured: zero
// means a single attempt, and defaults belong to [DefaultConfig], not here.
func (c Config) normalized() Config {
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Base <= 0 {
		c.Base = DefaultBase
	}
	if c.Cap <= 0 {
		c.Cap = DefaultCap
	}
	return c
}

// Transient reports whether err carries a status code in the transient set.
// Errors without an extractable status are never transient.
func Transient(err error) bool {
	var sc StatusCoder
	if !errors.As(err, &sc) {
		return false
	}
	return transientStatuses[sc.HTTPStatus()]
}

// Do executes fn, retrying transient failures per cfg.
//
// On success the result is returned immediately. A non-transient failure is
// returned as-is without retry. After the retry budget is exhausted, the
// last failure is returned unchanged. If ctx is cancelled during a backoff
// wait, ctx.Err() is returned.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	cfg = cfg.normalized()

	var zero T
	for attempt := 0; ; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if !Transient(err) || attempt >= cfg.Retries {
			return zero, err
		}

		delay := backoff(cfg, attempt)
		observability.HTTP().OnRetry(ctx, attempt, delay, err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Void executes fn through [Do] for calls without a result value.
func Void(ctx context.Context, cfg Config, fn func() error) error {
	_, err := Do(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// backoff returns min(cap, base*2^attempt) plus jitter in [0, maxJitter).
func backoff(cfg Config, attempt int) time.Duration {
	d := cfg.Base << attempt
	if d > cfg.Cap || d <= 0 {
		d = cfg.Cap
	}
	return d + rand.N(maxJitter)
}
