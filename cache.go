package blogkit

import (
	"sync"
	"time"
)

// ContentLoader produces a fresh ContentStore, normally by rescanning disk.
type ContentLoader func() (*ContentStore, error)

// PostCache keeps the most recently loaded ContentStore in memory and reloads
// it once the TTL has passed, so edits to the content directory show up
// without a restart.
type PostCache struct {
	mu      sync.RWMutex
	store   *ContentStore
	fetched time.Time
	ttl     time.Duration
	load    ContentLoader
	onLoad  []func(*ContentStore)
}

// NewPostCache creates a PostCache backed by loader.
func NewPostCache(loader ContentLoader, ttl time.Duration) *PostCache {
	return &PostCache{load: loader, ttl: ttl}
}

// OnLoad registers fn to run after every successful reload, while the cache
// write lock is held. Used to keep derived indexes in step with content.
func (c *PostCache) OnLoad(fn func(*ContentStore)) {
	c.mu.Lock()
	c.onLoad = append(c.onLoad, fn)
	c.mu.Unlock()
}

func (c *PostCache) valid() bool {
	return c.store != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.store = nil
	c.mu.Unlock()
}

func (c *PostCache) reload() error {
	if c.valid() {
		return nil
	}
	store, err := c.load()
	if err != nil {
		return err
	}
	c.store = store
	c.fetched = time.Now()
	for _, fn := range c.onLoad {
		fn(store)
	}
	return nil
}

// Store returns the cached ContentStore after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) Store() (*ContentStore, error) {
	c.mu.RLock()
	if c.valid() {
		s := c.store
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.reload(); err != nil {
		return nil, err
	}
	return c.store, nil
}

// ListPosts returns posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]Post, error) {
	s, err := c.Store()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return s.Posts(), nil
	}
	return s.ByTag(tag), nil
}

// ListTags returns all unique tags.
func (c *PostCache) ListTags() ([]string, error) {
	s, err := c.Store()
	if err != nil {
		return nil, err
	}
	return s.Tags(), nil
}

// GetPost returns a single post by ID from the cache.
func (c *PostCache) GetPost(id string) (Post, error) {
	s, err := c.Store()
	if err != nil {
		return Post{}, err
	}
	return s.Get(id)
}
