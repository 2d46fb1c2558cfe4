/*
Package cache holds the per-session snapshots of the remote collections.

Every collection (events, registrations, announcements, discussions, users) maps to the
complete list the remote service returned on its last successful reload, in server order.
Reload is the only mutator and replaces a snapshot wholesale; records are never patched.
*/
package cache

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"buzzportal/internal/pkg/logx"
)

// Collection names one remote collection.
type Collection string

const (
	Events        Collection = "events"
	Registrations Collection = "registrations"
	Announcements Collection = "announcements"
	Discussions   Collection = "discussions"
	Users         Collection = "users"
)

// FetchFunc loads a collection from the remote service. The returned value must be a slice.
type FetchFunc func(ctx context.Context, query url.Values) (any, error)

// Fetcher adapts a typed list call to a FetchFunc.
func Fetcher[T any](fetch func(ctx context.Context, query url.Values) ([]T, error)) FetchFunc {
	return func(ctx context.Context, query url.Values) (any, error) {
		items, err := fetch(ctx, query)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
}

// Job is one reload request.
type Job struct {
	Name  Collection
	Query url.Values
	Fetch FetchFunc
}

// snapshot is the last accepted server response for one collection.
type snapshot struct {
	items    any
	query    url.Values
	loadedAt time.Time
	seq      uint64
}

// Cache is the entity cache of one browser session.
type Cache struct {
	// mu protects snaps and seq.
	mu sync.RWMutex

	// snaps stores the current snapshot per collection.
	snaps map[Collection]snapshot

	// seq numbers reloads in the order they were issued.
	seq uint64

	logger zerolog.Logger
}

// New returns an empty Cache. Unloaded collections list as empty.
func New() *Cache {
	return &Cache{
		snaps:  make(map[Collection]snapshot),
		logger: logx.Component("cache"),
	}
}

// Reload fetches one collection and replaces its snapshot.
// On failure the previous snapshot stays in place and the error is returned.
// When reloads of the same collection overlap, the one issued last wins.
func (c *Cache) Reload(ctx context.Context, job Job) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	items, err := job.Fetch(ctx, job.Query)
	if err != nil {
		return fmt.Errorf("reload %s: %w", job.Name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.snaps[job.Name]; ok && current.seq > seq {
		c.logger.Debug().Str("collection", string(job.Name)).Msg("Discarded stale reload result.")
		return nil
	}

	c.snaps[job.Name] = snapshot{
		items:    items,
		query:    cloneQuery(job.Query),
		loadedAt: time.Now(),
		seq:      seq,
	}
	return nil
}

// ReloadAll runs the jobs concurrently and waits for every one of them to settle.
// A failing job does not stop the others; its error is logged and reported in the
// returned map, keyed by collection. The map is empty when everything loaded.
func (c *Cache) ReloadAll(ctx context.Context, jobs ...Job) map[Collection]error {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed = make(map[Collection]error)
	)

	for _, job := range jobs {
		g.Go(func() error {
			if err := c.Reload(ctx, job); err != nil {
				c.logger.Warn().Err(err).Str("collection", string(job.Name)).
					Msg("Collection reload failed; keeping previous snapshot.")

				mu.Lock()
				failed[job.Name] = err
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return failed
}

// List returns a copy of the named collection's snapshot in server order.
// It returns an empty slice when the collection was never loaded.
func List[T any](c *Cache, name Collection) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items, ok := c.snaps[name].items.([]T)
	if !ok {
		return []T{}
	}
	return slices.Clone(items)
}

// Query returns the query the named collection was last loaded with.
func (c *Cache) Query(name Collection) url.Values {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cloneQuery(c.snaps[name].query)
}

// Loaded reports whether the named collection has a snapshot.
func (c *Cache) Loaded(name Collection) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.snaps[name]
	return ok
}

func cloneQuery(q url.Values) url.Values {
	if q == nil {
		return url.Values{}
	}
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = slices.Clone(v)
	}
	return out
}
