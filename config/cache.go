package config

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

var (
	// StatsCache holds computed project statistics between mutations.
	StatsCache *cache.Cache
	// DatasetCache holds per-state derived series served to the dashboard.
	DatasetCache *cache.Cache
)

const (
	statsCacheDuration   = 5 * time.Minute
	datasetCacheDuration = 1 * time.Hour

	statsCleanupInterval   = 10 * time.Minute
	datasetCleanupInterval = 2 * time.Hour
)

// InitCache initializes the cache instances.
func InitCache() {
	StatsCache = cache.New(statsCacheDuration, statsCleanupInterval)
	DatasetCache = cache.New(datasetCacheDuration, datasetCleanupInterval)
}

// ClearAllCaches flushes every cache instance.
func ClearAllCaches() {
	StatsCache.Flush()
	DatasetCache.Flush()
}

// GetCacheKey builds a cache key from a prefix and parameters.
func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
