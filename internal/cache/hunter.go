// Package cache holds in-process read caches.
package cache

import (
	"fmt"
	"hunter-tracker/internal/config"
	"hunter-tracker/internal/domain"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// HunterCache is an opt-in LRU of hunters by id, valid for a single server
// process only. A zero size disables it. Stored and returned values are deep
// copies.
//
// Readers take a Token before loading from the store and pass it to
// AddIfCurrent; any Remove in between makes the load stale and it is dropped.
type HunterCache struct {
	mu  sync.Mutex
	gen uint64
	lru *lru.Cache
}

// Token marks the point a store read started.
type Token uint64

func NewHunterCache(cfg *config.Config) (*HunterCache, error) {
	return NewHunterCacheSize(cfg.HunterCacheSize)
}

func NewHunterCacheSize(size int) (*HunterCache, error) {
	if size <= 0 {
		return &HunterCache{}, nil
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create hunter cache: %w", err)
	}
	return &HunterCache{lru: c}, nil
}

func (c *HunterCache) Enabled() bool {
	return c.lru != nil
}

func (c *HunterCache) Get(id string) (*domain.Hunter, bool) {
	if c.lru == nil {
		return nil, false
	}
	v, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	h := v.(domain.Hunter)
	return clone(&h), true
}

func (c *HunterCache) Token() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Token(c.gen)
}

// Add stores a hunter that was just written, such as a freshly created one.
func (c *HunterCache) Add(h *domain.Hunter) {
	if c.lru == nil || h == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(h.ID, *clone(h))
}

// AddIfCurrent stores h only if nothing was removed since tok was taken. It
// reports whether h was stored.
func (c *HunterCache) AddIfCurrent(h *domain.Hunter, tok Token) bool {
	if c.lru == nil || h == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if Token(c.gen) != tok {
		return false
	}
	c.lru.Add(h.ID, *clone(h))
	return true
}

func (c *HunterCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.lru != nil {
		c.lru.Remove(id)
	}
}

func (c *HunterCache) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

func clone(h *domain.Hunter) *domain.Hunter {
	out := *h
	if h.Email != nil {
		email := *h.Email
		out.Email = &email
	}
	if h.Title != nil {
		title := *h.Title
		out.Title = &title
	}
	return &out
}
