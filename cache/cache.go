// Package cache is the in-process query cache. Results are indexed by
// a structured key (query identity + parameter) and held until a
// mutation invalidates them. Invalidation is fire-and-forget: it marks
// entries stale, re-fetches them in the background with the loader
// captured at read time, and notifies a subscriber hook so connected
// clients can re-fetch their own views.
package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Op identifies one query. Keys built from an Op and its parameter are
// comparable, so ad-hoc string concatenation never leaks into call sites.
type Op uint8

const (
	OpRecentPosts Op = iota + 1
	OpPostByID
	OpSearchPosts
	OpUserPosts
	OpLikedPosts
	OpSavedPosts
	OpUsers
	OpUserByID
	OpCurrentUser
)

func (op Op) String() string {
	switch op {
	case OpRecentPosts:
		return "recent-posts"
	case OpPostByID:
		return "post-by-id"
	case OpSearchPosts:
		return "search-posts"
	case OpUserPosts:
		return "user-posts"
	case OpLikedPosts:
		return "liked-posts"
	case OpSavedPosts:
		return "saved-posts"
	case OpUsers:
		return "users"
	case OpUserByID:
		return "user-by-id"
	case OpCurrentUser:
		return "current-user"
	default:
		return "unknown"
	}
}

// Key addresses one cached result. Arg is the query parameter (a post
// id, a search term); empty for parameterless queries.
type Key struct {
	Op  Op
	Arg string
}

func (k Key) String() string {
	if k.Arg == "" {
		return k.Op.String()
	}
	return fmt.Sprintf("%s:%s", k.Op, k.Arg)
}

// Loader produces a fresh value for a key. It is captured on first read
// so background refresh after invalidation can reuse it.
type Loader func(ctx context.Context) (any, error)

type entry struct {
	value  any
	loader Loader
	stale  bool
}

type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry

	// onInvalidate is notified with every invalidated key set, cached
	// or not, so view-layer consumers can schedule their own re-fetch.
	onInvalidate func(keys []Key)

	refreshTimeout time.Duration
	refreshing     sync.WaitGroup
}

func New() *Cache {
	return &Cache{
		entries:        make(map[Key]*entry),
		refreshTimeout: 10 * time.Second,
	}
}

// OnInvalidate registers the subscriber hook. Called before any read or
// mutation traffic, then never again.
func (c *Cache) OnInvalidate(fn func(keys []Key)) {
	c.onInvalidate = fn
}

// GetOrLoad returns the cached value for key, or runs loader and caches
// the result. Stale entries are reloaded inline.
func (c *Cache) GetOrLoad(ctx context.Context, key Key, loader Loader) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.stale {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err := loader(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &entry{value: v, loader: loader}
	c.mu.Unlock()
	return v, nil
}

// Invalidate marks the given keys stale and triggers a background
// re-fetch for every key that has a cached loader. It never blocks on
// the re-fetch; the calling mutation completes immediately.
func (c *Cache) Invalidate(keys ...Key) {
	if len(keys) == 0 {
		return
	}

	c.mu.Lock()
	var refresh []Key
	for _, k := range keys {
		if e, ok := c.entries[k]; ok {
			e.stale = true
			refresh = append(refresh, k)
		}
	}
	c.mu.Unlock()

	for _, k := range refresh {
		c.refreshing.Add(1)
		go c.refresh(k)
	}

	if c.onInvalidate != nil {
		c.onInvalidate(keys)
	}
}

// InvalidateOp invalidates every cached key of the given ops, whatever
// their parameters. Used when a mutation affects a whole query family
// (a post edit invalidates every cached search).
func (c *Cache) InvalidateOp(ops ...Op) {
	c.mu.Lock()
	var keys []Key
	for k := range c.entries {
		for _, op := range ops {
			if k.Op == op {
				keys = append(keys, k)
				break
			}
		}
	}
	c.mu.Unlock()

	c.Invalidate(keys...)
}

// Flush drops everything. Sign-out calls this so no user-scoped result
// survives the session.
func (c *Cache) Flush() {
	c.mu.Lock()
	c.entries = make(map[Key]*entry)
	c.mu.Unlock()
}

func (c *Cache) refresh(key Key) {
	defer c.refreshing.Done()

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.loader == nil {
		c.mu.Unlock()
		return
	}
	loader := e.loader
	c.mu.Unlock()

	// Detached from the mutation's request context: the mutation is
	// already done and must not be able to cancel the refresh.
	ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
	defer cancel()

	v, err := loader(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.entries[key]
	if !ok {
		return
	}
	if err != nil {
		log.Printf("cache: refresh %s failed: %v", key, err)
		delete(c.entries, key)
		return
	}
	cur.value = v
	cur.stale = false
}

// GetOrLoad is the typed wrapper around Cache.GetOrLoad.
func GetOrLoad[T any](ctx context.Context, c *Cache, key Key, loader func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: %s holds %T", key, v)
	}
	return t, nil
}
