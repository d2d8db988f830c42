package cache

import (
	"context"
	"time"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"github.com/on-the-ground/effectdeps/effect"
)

var _ effect.Cache = (*Ristretto)(nil)

// Ristretto is an in-process, cost-bounded cache. Writes are applied
// asynchronously; Set waits for them so a following Get observes the value.
type Ristretto struct {
	cache *ristretto.Cache[string, []byte]
}

// RistrettoConfig sizes the cache.
type RistrettoConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

// NewRistretto builds a cache; zero config fields fall back to defaults.
func NewRistretto(cfg RistrettoConfig) (*Ristretto, error) {
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 1e7 // number of keys to track frequency of (10M).
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 1 << 30 // maximum cost of cache (1GB).
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64 // number of keys per Get buffer.
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{cache: c}, nil
}

func (r *Ristretto) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, ok := r.cache.Get(key)
	return v, ok, nil
}

func (r *Ristretto) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cost := int64(len(value)) + 1
	if ttl > 0 {
		r.cache.SetWithTTL(key, value, cost, ttl)
	} else {
		r.cache.Set(key, value, cost)
	}
	r.cache.Wait()
	return nil
}

func (r *Ristretto) Delete(ctx context.Context, keys ...string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	for _, key := range keys {
		if _, ok := r.cache.Get(key); ok {
			n++
		}
		r.cache.Del(key)
	}
	return n, nil
}

// Close stops the cache's background goroutines.
func (r *Ristretto) Close() {
	r.cache.Close()
}
