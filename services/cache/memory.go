// Package cache provides effect.Cache implementations.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/on-the-ground/effectdeps/effect"
	"github.com/rickb777/date/v2/timespan"
)

var _ effect.Cache = (*Memory)(nil)

// Memory is an in-process cache split into shards chosen by key hash.
// Entries with a ttl carry the time span during which they are valid.
type Memory struct {
	shards []*shard
	now    func() time.Time
}

type shard struct {
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value   []byte
	expires bool
	valid   timespan.TimeSpan
}

func (e entry) live(now time.Time) bool {
	return !e.expires || now.Before(e.valid.End())
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory returns an empty cache with numShards shards (at least one).
func NewMemory(numShards int, opts ...MemoryOption) *Memory {
	if numShards <= 0 {
		numShards = 1
	}
	m := &Memory{
		shards: make([]*shard, numShards),
		now:    time.Now,
	}
	for i := range m.shards {
		m.shards[i] = &shard{entries: make(map[string]entry)}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) shardOf(key string) *shard {
	if len(m.shards) == 1 {
		return m.shards[0]
	}
	return m.shards[xxhash.Sum64String(key)%uint64(len(m.shards))]
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s := m.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.live(m.now()) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return slices.Clone(e.value), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := entry{value: slices.Clone(value)}
	if ttl > 0 {
		now := m.now()
		e.expires = true
		e.valid = timespan.BetweenTimes(now, now.Add(ttl))
	}

	s := m.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	now := m.now()
	var n int64
	for _, key := range keys {
		s := m.shardOf(key)
		s.mu.Lock()
		if e, ok := s.entries[key]; ok {
			delete(s.entries, key)
			if e.live(now) {
				n++
			}
		}
		s.mu.Unlock()
	}
	return n, nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	n := 0
	for _, s := range m.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}
