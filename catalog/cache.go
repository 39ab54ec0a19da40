package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/hoyle1974/timeslider/storage"
)

var itemCache = cache.New(5*time.Minute, 10*time.Minute)

type CacheStats struct {
	Hits   atomic.Int64
	Misses atomic.Int64
}

func (c *CacheStats) Hit() {
	c.Hits.Add(1)
}
func (c *CacheStats) Miss() {
	c.Misses.Add(1)
}
func (c *CacheStats) Reset() {
	c.Hits.Store(0)
	c.Misses.Store(0)
}
func (c *CacheStats) String() string {
	return fmt.Sprintf("CacheStats(Hits: %d, Misses: %d)", c.Hits.Load(), c.Misses.Load())
}

var itemCacheStats = CacheStats{}

func PrintCacheStats() {
	fmt.Println(itemCacheStats.String())
}

func ClearItemCache() {
	itemCacheStats.Reset()
	itemCache = cache.New(5*time.Minute, 10*time.Minute)
}

// loadItem fetches a shared time info item by its storage key.  Items are
// referenced from many layers across documents, so they cache well.
func loadItem(ctx context.Context, s storage.System, key string) (timeInfoSpec, error) {
	if item, ok := itemCache.Get(key); ok {
		itemCacheStats.Hit()
		return item.(timeInfoSpec), nil
	}
	itemCacheStats.Miss()

	var info timeInfoSpec
	b, err := s.Read(ctx, key)
	if err != nil {
		return info, errors.Wrap(err, "can not read time info item")
	}
	if err := json.Unmarshal(b, &info); err != nil {
		return info, errors.Wrap(err, "can not decode time info item")
	}

	itemCache.Set(key, info, cache.DefaultExpiration)
	return info, nil
}
