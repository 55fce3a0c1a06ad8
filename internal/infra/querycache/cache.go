// Package querycache is the client-side query cache: values fetched under a
// Key are reused by later readers, concurrent fetches of the same key share
// one call, and invalidation marks entries stale and refetches them for
// active subscribers.
package querycache

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"storefront/config"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the value for a key.
type Fetcher func(ctx context.Context) (any, error)

// Listener receives a snapshot every time a subscribed entry changes.
type Listener func(Snapshot)

// Status is the load state of an entry.
type Status int

const (
	// StatusPending means no fetch has completed yet.
	StatusPending Status = iota
	// StatusSuccess means the last fetch succeeded.
	StatusSuccess
	// StatusError means the last fetch failed; Data may still hold an older value.
	StatusError
)

// Snapshot is a read-only view of an entry.
type Snapshot struct {
	Key       Key
	Data      any
	Err       error
	Status    Status
	Stale     bool
	UpdatedAt time.Time
}

type entry struct {
	key       Key
	fetch     Fetcher
	data      any
	err       error
	hasData   bool
	updatedAt time.Time

	// invalidated is set by Invalidate and cleared only by a fetch that
	// started after the latest invalidation.
	invalidated bool
	generation  uint64
	// landed is the generation of the newest fetch stored in the entry.
	landed uint64

	subscribers map[uint64]Listener
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	nextID  uint64

	group     singleflight.Group
	staleTime time.Duration
	now       func() time.Time
	logger    *slog.Logger

	background sync.WaitGroup
}

// New creates a cache using the configured stale time.
func New(cfg *config.Config, logger *slog.Logger) *Cache {
	return &Cache{
		entries:   make(map[string]*entry),
		staleTime: cfg.Cache.StaleTime,
		now:       time.Now,
		logger:    logger,
	}
}

// Fetch returns the cached value for key when it is fresh, otherwise calls
// fetch. Concurrent callers for the same key share a single call.
func (c *Cache) Fetch(ctx context.Context, key Key, fetch Fetcher) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(key, fetch)
	if !c.isStaleLocked(e) {
		data := e.data
		c.mu.Unlock()

		return data, nil
	}
	c.mu.Unlock()

	return c.load(ctx, key)
}

// Subscribe registers listener for key. The listener immediately receives the
// current snapshot; the first subscriber (or any subscriber finding the entry
// stale) triggers a background fetch. The returned function unsubscribes.
func (c *Cache) Subscribe(key Key, fetch Fetcher, listener Listener) (unsubscribe func()) {
	c.mu.Lock()
	e := c.entryLocked(key, fetch)
	c.nextID++
	id := c.nextID
	e.subscribers[id] = listener
	snapshot := c.snapshotLocked(e)
	needsFetch := snapshot.Stale
	c.mu.Unlock()

	listener(snapshot)

	if needsFetch {
		c.refetch(key)
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(e.subscribers, id)
		})
	}
}

// Invalidate marks every entry whose key starts with one of prefixes as
// stale. Entries with subscribers refetch right away; the rest refetch on
// their next read. It returns the number of entries matched.
func (c *Cache) Invalidate(prefixes ...Key) int {
	var (
		matched   int
		toRefetch []Key
	)

	c.mu.Lock()
	for _, e := range c.entries {
		if !matchesAny(e.key, prefixes) {
			continue
		}
		matched++
		e.invalidated = true
		e.generation++
		if len(e.subscribers) > 0 {
			toRefetch = append(toRefetch, e.key)
		}
	}
	c.mu.Unlock()

	c.logger.Debug("[QueryCache] Invalidated",
		slog.Any("prefixes", prefixes),
		slog.Int("matched", matched),
		slog.Int("refetching", len(toRefetch)),
	)

	for _, key := range toRefetch {
		c.refetch(key)
	}

	return matched
}

// Get returns the snapshot for key without fetching.
func (c *Cache) Get(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Snapshot{}, false
	}

	return c.snapshotLocked(e), true
}

// Remove drops unsubscribed entries under prefix so the next read starts
// from an empty state. Subscribed entries are kept; invalidate them instead.
func (c *Cache) Remove(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if e.key.HasPrefix(prefix) && len(e.subscribers) == 0 {
			delete(c.entries, k)
			removed++
		}
	}

	return removed
}

// Wait blocks until all background fetches finished.
func (c *Cache) Wait() {
	c.background.Wait()
}

// Close waits for background fetches. Fetches are never cancelled.
func (c *Cache) Close() error {
	c.Wait()

	return nil
}

func (c *Cache) entryLocked(key Key, fetch Fetcher) *entry {
	k := key.String()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{
			key:         append(Key(nil), key...),
			subscribers: make(map[uint64]Listener),
		}
		c.entries[k] = e
	}
	if fetch != nil {
		e.fetch = fetch
	}

	return e
}

func (c *Cache) isStaleLocked(e *entry) bool {
	if !e.hasData || e.invalidated {
		return true
	}

	return c.now().Sub(e.updatedAt) >= c.staleTime
}

func (c *Cache) snapshotLocked(e *entry) Snapshot {
	status := StatusPending
	switch {
	case e.err != nil:
		status = StatusError
	case e.hasData:
		status = StatusSuccess
	}

	return Snapshot{
		Key:       e.key,
		Data:      e.data,
		Err:       e.err,
		Status:    status,
		Stale:     c.isStaleLocked(e),
		UpdatedAt: e.updatedAt,
	}
}

// load runs the entry's fetcher through singleflight. The flight key carries
// the invalidation generation so a read after Invalidate never joins a fetch
// that started before it.
func (c *Cache) load(ctx context.Context, key Key) (any, error) {
	k := key.String()

	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok || e.fetch == nil {
		c.mu.Unlock()

		return nil, errors.Errorf("no fetcher registered for key %s", k)
	}
	generation := e.generation
	c.mu.Unlock()

	// The shared call outlives any single caller's cancellation
	fetchCtx := context.WithoutCancel(ctx)
	result := c.group.DoChan(k+"#"+strconv.FormatUint(generation, 10), func() (any, error) {
		return c.run(fetchCtx, k)
	})

	select {
	case res := <-result:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	}
}

func (c *Cache) run(ctx context.Context, k string) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok {
		c.mu.Unlock()

		return nil, errors.Errorf("cache entry %s removed", k)
	}
	fetch := e.fetch
	generation := e.generation
	c.mu.Unlock()

	start := c.now()
	data, err := fetch(ctx)

	c.mu.Lock()
	switch {
	case generation < e.landed:
		// A fetch started after a later invalidation already landed
	case err != nil:
		e.err = err
	default:
		e.data = data
		e.err = nil
		e.hasData = true
		e.updatedAt = c.now()
		e.landed = generation
		if e.generation == generation {
			e.invalidated = false
		}
	}
	snapshot := c.snapshotLocked(e)
	listeners := make([]Listener, 0, len(e.subscribers))
	for _, listener := range e.subscribers {
		listeners = append(listeners, listener)
	}
	c.mu.Unlock()

	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
	}
	c.logger.Log(ctx, level, "[QueryCache] Fetched",
		slog.String("key", k),
		slog.Duration("latency", c.now().Sub(start)),
		slog.Any("error", err),
	)

	for _, listener := range listeners {
		listener(snapshot)
	}

	return data, err
}

// refetch loads key in the background.
func (c *Cache) refetch(key Key) {
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		// Errors are recorded on the entry and delivered to subscribers
		_, _ = c.load(context.Background(), key)
	}()
}

func matchesAny(key Key, prefixes []Key) bool {
	for _, prefix := range prefixes {
		if key.HasPrefix(prefix) {
			return true
		}
	}

	return false
}

// Query is the typed form of Cache.Fetch.
func Query[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	value, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, errors.Errorf("cached value for %s is %T, not %T", key, value, zero)
	}

	return typed, nil
}

// Use is the typed form of Cache.Subscribe. value is the zero T until data
// of type T lands.
func Use[T any](c *Cache, key Key, fetch func(ctx context.Context) (T, error), listener func(value T, snapshot Snapshot)) (unsubscribe func()) {
	return c.Subscribe(key,
		func(ctx context.Context) (any, error) {
			return fetch(ctx)
		},
		func(snapshot Snapshot) {
			value, _ := snapshot.Data.(T)
			listener(value, snapshot)
		})
}
