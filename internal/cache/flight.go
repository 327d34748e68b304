package cache

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Flight is an in-flight request registry. Identical concurrent fetches
// share one call; differing ones are ordered by the generation taken when
// they started, so only the most recently started fetch may write state.
type Flight struct {
	group singleflight.Group
	gen   atomic.Uint64
}

// Begin reserves the generation of a fetch starting now.
func (f *Flight) Begin() uint64 {
	return f.gen.Add(1)
}

// Current reports whether no fetch has started since gen.
func (f *Flight) Current(gen uint64) bool {
	return f.gen.Load() == gen
}

// Do runs fn once per key among concurrent callers. See share.
func (f *Flight) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (v any, err error, shared bool) {
	return share(ctx, &f.group, key, fn)
}

// share runs fn once per key among concurrent callers. fn gets a context
// that keeps ctx's values but not its cancellation, so one caller giving up
// does not fail the others; each caller stops waiting when its own ctx ends.
func share(ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (any, error)) (any, error, bool) {
	detached := context.WithoutCancel(ctx)
	ch := g.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case r := <-ch:
		return r.Val, r.Err, r.Shared
	case <-ctx.Done():
		return nil, ctx.Err(), false
	}
}

// Invalidate makes every fetch started so far stale.
func (f *Flight) Invalidate() {
	f.gen.Add(1)
}
