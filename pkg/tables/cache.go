package tables

import (
	"time"

	"github.com/edgeflare/pgtables/pkg/metrics"
	"github.com/edgeflare/pgtables/pkg/sqlgen"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultCacheTTL = time.Minute

// catalogCache keeps successful catalog envelopes for a short time. Any successful
// mutation purges it.
type catalogCache struct {
	lru *expirable.LRU[string, Envelope]
}

func newCatalogCache(size int, ttl time.Duration) *catalogCache {
	if size <= 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &catalogCache{lru: expirable.NewLRU[string, Envelope](size, nil, ttl)}
}

func cacheKey(stmt sqlgen.Statement) string {
	return string(stmt.Op) + "\x00" + stmt.SQL
}

// get is safe on a nil cache.
func (c *catalogCache) get(stmt sqlgen.Statement) (Envelope, bool) {
	if c == nil {
		return Envelope{}, false
	}
	env, ok := c.lru.Get(cacheKey(stmt))
	if ok {
		metrics.CatalogCache.WithLabelValues(metrics.CacheResultHit).Inc()
	} else {
		metrics.CatalogCache.WithLabelValues(metrics.CacheResultMiss).Inc()
	}
	return env, ok
}

func (c *catalogCache) put(stmt sqlgen.Statement, env Envelope) {
	if c == nil || !env.OK() {
		return
	}
	c.lru.Add(cacheKey(stmt), env)
}

func (c *catalogCache) purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
	metrics.CatalogCache.WithLabelValues(metrics.CacheResultPurge).Inc()
}
