package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/shopspring/decimal"
)

// Entries live for a day: BOJ publishes one quote per business day, so a
// resolved rate or max-date marker is stale after 24 hours at worst.
const entryTTL = 24 * time.Hour

const maxDateKey = "max_date"

type RistrettoRateCache struct {
	cache *ristretto.Cache
}

func NewRateCache(maxItems int64) (*RistrettoRateCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RistrettoRateCache{cache: c}, nil
}

func (c *RistrettoRateCache) GetRate(key string) (decimal.Decimal, bool) {
	if v, ok := c.cache.Get(key); ok {
		d, ok := v.(decimal.Decimal)
		return d, ok
	}
	return decimal.Decimal{}, false
}

func (c *RistrettoRateCache) SetRate(key string, value decimal.Decimal) {
	c.cache.SetWithTTL(key, value, 1, entryTTL)
}

func (c *RistrettoRateCache) GetMaxDate() (time.Time, bool) {
	if v, ok := c.cache.Get(maxDateKey); ok {
		t, ok := v.(time.Time)
		return t, ok
	}
	return time.Time{}, false
}

func (c *RistrettoRateCache) SetMaxDate(t time.Time) {
	c.cache.SetWithTTL(maxDateKey, t, 1, entryTTL)
}

func (c *RistrettoRateCache) Close() { c.cache.Close() }
