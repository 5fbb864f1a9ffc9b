package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/logging"
)

// DefaultPrefix namespaces the cache keys when none is configured.
const DefaultPrefix = "directory"

// Cache stores one dataset with a write timestamp and serves it back while
// it is younger than TTL.
//
// Storage failures never reach the caller: Write logs and gives up, Read
// logs and reports a miss. A load must still succeed when the store is
// unavailable.
type Cache struct {
	Store   Store
	TTL     time.Duration
	Enabled bool
	Prefix  string

	// Now returns the current time. Nil uses time.Now.
	Now func() time.Time
}

// New creates an enabled Cache over store.
func New(store Store, ttl time.Duration, prefix string) *Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{Store: store, TTL: ttl, Enabled: true, Prefix: prefix}
}

// DataKey is the key holding the encoded dataset.
func (c *Cache) DataKey() string { return c.prefix() + "_data" }

// TimestampKey is the key holding the write time.
func (c *Cache) TimestampKey() string { return c.prefix() + "_cache_timestamp" }

func (c *Cache) prefix() string {
	if c.Prefix == "" {
		return DefaultPrefix
	}
	return c.Prefix
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Write stores ds and the current time.
func (c *Cache) Write(ctx context.Context, ds *directory.Dataset) {
	if !c.Enabled || c.Store == nil || ds == nil {
		return
	}
	log := logging.FromContext(ctx)

	data, err := json.Marshal(ds)
	if err != nil {
		cacheWriteFailures.Inc()
		log.Warn("failed to encode dataset for cache", "error", err)
		return
	}
	// Data and timestamp land together so a failed write never pairs new
	// data with an old timestamp.
	entries := map[string]string{
		c.DataKey():      string(data),
		c.TimestampKey(): strconv.FormatInt(c.now().UnixMilli(), 10),
	}
	if err := c.Store.SetMany(ctx, entries); err != nil {
		cacheWriteFailures.Inc()
		log.Warn("failed to cache data", "error", err)
		return
	}
	log.Debug("dataset cached", "records", ds.Len(), "dataset_id", ds.ID)
}

// Read returns the cached dataset when both keys are present and the entry
// is younger than TTL. Stale entries are left in place.
func (c *Cache) Read(ctx context.Context) (*directory.Dataset, bool) {
	if !c.Enabled || c.Store == nil {
		return nil, false
	}
	log := logging.FromContext(ctx)

	raw, ok, err := c.Store.Get(ctx, c.DataKey())
	if err != nil {
		log.Warn("failed to read cached data", "error", err)
	}
	if !ok || err != nil {
		cacheMisses.Inc()
		return nil, false
	}
	tsRaw, ok, err := c.Store.Get(ctx, c.TimestampKey())
	if err != nil {
		log.Warn("failed to read cache timestamp", "error", err)
	}
	if !ok || err != nil {
		cacheMisses.Inc()
		return nil, false
	}

	ms, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		log.Warn("invalid cache timestamp", "value", tsRaw, "error", err)
		cacheMisses.Inc()
		return nil, false
	}
	if age := c.now().Sub(time.UnixMilli(ms)); age >= c.TTL {
		cacheMisses.Inc()
		return nil, false
	}

	var ds directory.Dataset
	if err := json.Unmarshal([]byte(raw), &ds); err != nil {
		log.Warn("failed to decode cached data", "error", err)
		cacheMisses.Inc()
		return nil, false
	}
	if ds.Records == nil {
		ds.Records = []directory.Record{}
	}
	cacheHits.Inc()
	return &ds, true
}

// Clear removes both keys.
func (c *Cache) Clear(ctx context.Context) {
	if c.Store == nil {
		return
	}
	if err := c.Store.Delete(ctx, c.DataKey(), c.TimestampKey()); err != nil {
		logging.FromContext(ctx).Warn("failed to clear cache", "error", err)
	}
}
