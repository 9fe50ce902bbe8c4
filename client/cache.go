package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"talentbridge/pkg/logger"
)

// Key identifies one cached query: the API path plus the filter signature
// (an encoded query string, empty for unfiltered lists).
type Key struct {
	Path   string
	Filter string
}

func (k Key) url() string {
	if k.Filter == "" {
		return k.Path
	}
	return k.Path + "?" + k.Filter
}

// CacheOptions tunes the staleness and retention windows; zero values take
// the defaults.
type CacheOptions struct {
	// StaleTime is how long a fetched entry is served without revalidation.
	StaleTime time.Duration
	// GCTime is how long an unread entry survives before eviction.
	GCTime time.Duration
}

const (
	defaultStaleTime = 30 * time.Second
	defaultGCTime    = 5 * time.Minute
)

type entry struct {
	data       json.RawMessage
	fetchedAt  time.Time
	lastAccess time.Time
	// invalidated forces revalidation on the next read regardless of age.
	invalidated bool
	refreshing  bool
}

// Cache is the request cache. It is an explicit service object with a
// lifecycle: construct once at startup, Close at shutdown. Reads inside the
// staleness window are served from memory; stale reads still return the
// cached value immediately while a background refetch replaces it.
type Cache struct {
	api   *API
	stale time.Duration
	gc    time.Duration

	mu      sync.Mutex
	entries map[Key]*entry

	done chan struct{}
}

func NewCache(api *API, opts CacheOptions) *Cache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = defaultStaleTime
	}
	if opts.GCTime <= 0 {
		opts.GCTime = defaultGCTime
	}
	c := &Cache{
		api:     api,
		stale:   opts.StaleTime,
		gc:      opts.GCTime,
		entries: make(map[Key]*entry),
		done:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Close stops the eviction goroutine.
func (c *Cache) Close() {
	close(c.done)
}

// Get returns the cached value for key, fetching it when absent. A stale hit
// is returned immediately and revalidated in the background. out is
// unmarshalled from the cached JSON.
func (c *Cache) Get(ctx context.Context, key Key, out any) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		e.lastAccess = time.Now()
		data := e.data
		needsRefresh := (e.invalidated || time.Since(e.fetchedAt) > c.stale) && !e.refreshing
		if needsRefresh {
			e.refreshing = true
		}
		c.mu.Unlock()

		if needsRefresh {
			go func() {
				if err := c.Refresh(context.WithoutCancel(ctx), key); err != nil {
					logger.Sugar.Debugf("Background refresh of %s failed: %v", key.url(), err)
				}
			}()
		}
		return json.Unmarshal(data, out)
	}
	c.mu.Unlock()

	if err := c.Refresh(ctx, key); err != nil {
		return err
	}
	c.mu.Lock()
	data := c.entries[key].data
	c.mu.Unlock()
	return json.Unmarshal(data, out)
}

// Refresh fetches key synchronously and replaces the cached value.
func (c *Cache) Refresh(ctx context.Context, key Key) error {
	body, err := c.api.Get(ctx, key.url())

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.refreshing = false
	}
	if err != nil {
		return err
	}
	now := time.Now()
	c.entries[key] = &entry{data: body, fetchedAt: now, lastAccess: now}
	return nil
}

// Set writes data into the cache directly; mutations use it for optimistic
// updates.
func (c *Cache) Set(key Key, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	c.entries[key] = &entry{data: data, fetchedAt: now, lastAccess: now}
}

// Snapshot returns the current cached bytes for key, and whether an entry
// exists. The returned slice is the stored one; callers must not mutate it.
func (c *Cache) Snapshot(key Key) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Restore puts a snapshot back verbatim; existed=false removes the entry,
// matching a snapshot taken before the key was ever populated.
func (c *Cache) Restore(key Key, data json.RawMessage, existed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !existed {
		delete(c.entries, key)
		return
	}
	now := time.Now()
	c.entries[key] = &entry{data: data, fetchedAt: now, lastAccess: now}
}

// Invalidate marks entries as needing revalidation without dropping their
// data, so readers keep getting the cached value until the refetch lands.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			e.invalidated = true
		}
	}
}

// InvalidatePath invalidates every entry under one logical path, whatever
// its filter signature.
func (c *Cache) InvalidatePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if key.Path == path {
			e.invalidated = true
		}
	}
}

func (c *Cache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.evict()
		}
	}
}

func (c *Cache) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if time.Since(e.lastAccess) > c.gc {
			delete(c.entries, key)
		}
	}
}
