package cache

import (
	"fmt"
	"time"

	"github.com/coocood/freecache"
)

var _ Cache = (*LocalCache)(nil)

// LocalCache is an in-process cache with a fixed memory footprint; the oldest
// entries are evicted when it fills up.
type LocalCache struct {
	mainCache *freecache.Cache
}

func NewLocalCache(sizeMegabytes int) *LocalCache {
	megabyte := 1024 * 1024
	return &LocalCache{
		mainCache: freecache.NewCache(sizeMegabytes * megabyte),
	}
}

func (lc *LocalCache) Get(key string) ([]byte, bool) {
	value, err := lc.mainCache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set stores value for ttl, rounded down to whole seconds. A ttl under one
// second means no expiry.
func (lc *LocalCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := lc.mainCache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		return fmt.Errorf("local cache set: %w", err)
	}
	return nil
}

func (lc *LocalCache) Clear() {
	lc.mainCache.Clear()
}
