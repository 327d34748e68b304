package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"kontor/internal/core"
)

// Collection is a cache-or-fetch list: it is filled wholesale by Load and
// cleared whenever a fetch fails.
type Collection[T any] struct {
	mu    sync.RWMutex
	items []T
	group singleflight.Group
}

// Load fetches unless the collection already holds items and force is false.
// Concurrent loads share one fetch, which finishes even if the caller that
// started it gives up.
func (c *Collection[T]) Load(ctx context.Context, force bool, fetch func(context.Context) ([]T, error)) error {
	if !force && c.Len() > 0 {
		return nil
	}

	_, err, _ := share(ctx, &c.group, "load", func(ctx context.Context) (any, error) {
		items, err := fetch(ctx)
		if err != nil {
			c.Clear()
			return nil, err
		}
		c.Replace(items)
		return nil, nil
	})
	return err
}

// Items returns a copy of the cached items, never nil.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Replace swaps in a new list.
func (c *Collection[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)

	c.mu.Lock()
	c.items = cp
	c.mu.Unlock()
}

// Clear empties the collection.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Find returns the first item satisfying match.
func (c *Collection[T]) Find(match func(T) bool) core.Lookup[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return core.Find(c.items, match)
}

// Update rewrites the first item satisfying match and reports whether one did.
func (c *Collection[T]) Update(match func(T) bool, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if match(it) {
			c.items[i] = fn(it)
			return true
		}
	}
	return false
}

// Remove drops the first item satisfying match.
func (c *Collection[T]) Remove(match func(T) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if match(it) {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds an item at the end.
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
}
