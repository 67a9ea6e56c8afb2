// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

// SessionCacheEntry is a cached set of session parameters.
type SessionCacheEntry struct {
	Params     native.SessionParameters
	StoredAt   time.Time
	ServerName string
}

// SessionCacheConfig holds configuration for a [SessionCache].
type SessionCacheConfig struct {
	MaxSize int           // Maximum number of sessions (0 = unlimited)
	MaxAge  time.Duration // Entries older than this are misses (0 = no expiry)
}

// SessionCacheMetrics tracks cache usage.
type SessionCacheMetrics struct {
	Size      int64 // Current number of cached sessions
	Hits      int64 // Number of lookups served from the cache
	Misses    int64 // Number of lookups that found nothing fresh
	Evictions int64 // Number of LRU evictions
}

// DefaultSessionCacheSize is the capacity used when none is configured.
const DefaultSessionCacheSize = 32

// SessionCache is an LRU of session parameters keyed by server name. It is
// safe for concurrent use.
type SessionCache struct {
	mu      sync.Mutex
	entries map[string]*SessionCacheEntry
	order   []string // least recently used first
	config  SessionCacheConfig

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewSessionCache returns an empty cache. A nil config selects
// [DefaultSessionCacheSize] without expiry.
func NewSessionCache(config *SessionCacheConfig) *SessionCache {
	cfg := SessionCacheConfig{MaxSize: DefaultSessionCacheSize}
	if config != nil {
		cfg = *config
	}
	if cfg.MaxSize < 0 {
		cfg.MaxSize = 0
	}
	if cfg.MaxAge < 0 {
		cfg.MaxAge = 0
	}
	return &SessionCache{
		entries: make(map[string]*SessionCacheEntry),
		config:  cfg,
	}
}

func (c *SessionCache) touch(name string) {
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, name)
}

func (c *SessionCache) remove(name string) {
	delete(c.entries, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *SessionCache) fresh(e *SessionCacheEntry) bool {
	return c.config.MaxAge == 0 || time.Since(e.StoredAt) < c.config.MaxAge
}

// Get returns the parameters stored for serverName.
func (c *SessionCache) Get(serverName string) (native.SessionParameters, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[serverName]
	if !ok || !c.fresh(entry) {
		if ok {
			c.remove(serverName)
		}
		c.misses.Add(1)
		return native.SessionParameters{}, false
	}

	c.hits.Add(1)
	c.touch(serverName)
	return cloneParams(entry.Params), true
}

// Put stores p for serverName, evicting the least recently used entry when full.
// Parameters without a session ID are ignored.
func (c *SessionCache) Put(serverName string, p native.SessionParameters) {
	if len(p.SessionID) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[serverName]; !exists {
		for c.config.MaxSize > 0 && len(c.entries) >= c.config.MaxSize && len(c.order) > 0 {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
			c.evictions.Add(1)
		}
	}

	c.entries[serverName] = &SessionCacheEntry{
		Params:     cloneParams(p),
		StoredAt:   time.Now(),
		ServerName: serverName,
	}
	c.touch(serverName)
}

// Forget drops the entry for serverName.
func (c *SessionCache) Forget(serverName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(serverName)
}

// Clear empties the cache and resets its metrics.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*SessionCacheEntry)
	c.order = nil
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Metrics returns a snapshot of cache metrics.
func (c *SessionCache) Metrics() SessionCacheMetrics {
	c.mu.Lock()
	size := int64(len(c.entries))
	c.mu.Unlock()

	return SessionCacheMetrics{
		Size:      size,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// Stats returns a formatted summary of the cache metrics.
func (c *SessionCache) Stats() string {
	m := c.Metrics()

	hitRate := float64(0)
	if total := m.Hits + m.Misses; total > 0 {
		hitRate = float64(m.Hits) / float64(total) * 100
	}

	return fmt.Sprintf("Session Cache Statistics:\n"+
		"  Size: %d/%d entries\n"+
		"  Hit Rate: %.1f%% (%d hits, %d misses)\n"+
		"  Evictions: %d",
		m.Size, c.config.MaxSize,
		hitRate, m.Hits, m.Misses,
		m.Evictions)
}

// Resume installs the cached parameters for serverName into cc and reports
// whether there were any.
func (c *SessionCache) Resume(cc *ClientContext, serverName string) bool {
	p, ok := c.Get(serverName)
	if ok {
		cc.SetSessionParameters(p)
	}
	return ok
}

// Save stores the session cc established for serverName.
func (c *SessionCache) Save(cc *ClientContext, serverName string) {
	if cc.State() != StateEstablished {
		return
	}
	c.Put(serverName, cc.SessionParameters())
}

func cloneParams(p native.SessionParameters) native.SessionParameters {
	p.SessionID = append([]byte(nil), p.SessionID...)
	return p
}
