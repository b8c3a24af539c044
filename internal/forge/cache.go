package forge

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/logger"
	"github.com/osse101/ToolForge_Go/internal/metrics"
)

// cachedToolEntry wraps a tool with version metadata for cache invalidation
type cachedToolEntry struct {
	Version  string
	Tool     Tool
	CachedAt time.Time
}

// toolCache keeps recently used tool documents keyed by tool id.
// Entries are cloned on the way in and out so callers never share a document.
type toolCache struct {
	lru *expirable.LRU[string, *cachedToolEntry]
}

func newToolCache(size int, ttl time.Duration) *toolCache {
	if size <= 0 {
		return nil
	}
	return &toolCache{
		lru: expirable.NewLRU[string, *cachedToolEntry](size, nil, ttl),
	}
}

// Get returns the cached tool when present and written under the current schemas
func (c *toolCache) Get(id string) (*Tool, bool) {
	if c == nil {
		return nil, false
	}
	entry, found := c.lru.Get(id)
	if !found {
		metrics.ToolCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return nil, false
	}

	if entry.Version != CacheSchemaVersion || entry.Tool.Document == nil ||
		entry.Tool.Document.Version != domain.ToolDocumentVersion {
		c.lru.Remove(id)
		logger.Debug(LogMsgCacheEntryVersion, "tool_id", id, "version", entry.Version)
		metrics.ToolCacheLookups.WithLabelValues(metrics.CacheStale).Inc()
		return nil, false
	}

	metrics.ToolCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	return entry.Tool.clone(), true
}

// Set stores a tool with the current schema version
func (c *toolCache) Set(t *Tool) {
	if c == nil || t == nil || t.Document == nil {
		return
	}
	c.lru.Add(t.ID, &cachedToolEntry{
		Version:  CacheSchemaVersion,
		Tool:     *t.clone(),
		CachedAt: time.Now(),
	})
}

// Invalidate removes a tool from the cache
func (c *toolCache) Invalidate(id string) {
	if c == nil {
		return
	}
	c.lru.Remove(id)
}

// Len returns the number of live entries
func (c *toolCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
