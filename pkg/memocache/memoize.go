package memocache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/propscope/propscope/pkg/observability"
)

// Memoize wraps fn with TTL caching keyed on name and the canonical form of
// its argument. The returned function reports, alongside the value, whether
// the result was served from cache.
//
// Behavior on each call:
//
//   - Cache hit: the stored value is returned with cached=true; fn is not
//     invoked.
//   - Cache miss: fn is invoked once, its result stored (resetting the TTL
//     from now) and returned with cached=false.
//   - fn failure: the error propagates unchanged and nothing is cached, so
//     the next call retries the real operation.
//
// Concurrent calls with the same key share a single in-flight invocation of
// fn; callers that joined an execution started by another goroutine report
// cached=true, since they did not trigger an upstream call of their own.
func Memoize[A, V any](c *Cache, name string, fn func(context.Context, A) (V, error)) func(context.Context, A) (V, bool, error) {
	var group singleflight.Group

	return func(ctx context.Context, arg A) (V, bool, error) {
		var zero V

		key, err := Key(name, arg)
		if err != nil {
			return zero, false, err
		}

		if v, ok := c.Get(key); ok {
			observability.Cache().OnHit(ctx, name)
			return v.(V), true, nil
		}
		observability.Cache().OnMiss(ctx, name)

		invoked := false
		v, err, _ := group.Do(key, func() (any, error) {
			invoked = true
			v, err := fn(ctx, arg)
			if err != nil {
				return nil, err
			}
			c.Set(key, v)
			observability.Cache().OnSet(ctx, name)
			return v, nil
		})
		if err != nil {
			return zero, false, err
		}
		return v.(V), !invoked, nil
	}
}

// Memoize0 is [Memoize] for functions that take no argument beyond the
// context, such as account listings.
func Memoize0[V any](c *Cache, name string, fn func(context.Context) (V, error)) func(context.Context) (V, bool, error) {
	wrapped := Memoize(c, name, func(ctx context.Context, _ struct{}) (V, error) {
		return fn(ctx)
	})
	return func(ctx context.Context) (V, bool, error) {
		return wrapped(ctx, struct{}{})
	}
}
