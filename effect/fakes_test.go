package effect_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/on-the-ground/effectdeps/effect"
)

var _ effect.Cache = (*mapCache)(nil)

type mapCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMapCache(kv ...string) *mapCache {
	c := &mapCache{m: make(map[string][]byte)}
	for i := 0; i+1 < len(kv); i += 2 {
		c.m[kv[i]] = []byte(kv[i+1])
	}
	return c
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.m[k]; ok {
			delete(c.m, k)
			n++
		}
	}
	return n, nil
}

var _ effect.Logger = (*recordingLogger)(nil)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) record(level, msg string, details ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%s %s %v", level, msg, details))
}

func (l *recordingLogger) Info(msg string, details ...any)  { l.record("info", msg, details...) }
func (l *recordingLogger) Warn(msg string, details ...any)  { l.record("warn", msg, details...) }
func (l *recordingLogger) Error(msg string, details ...any) { l.record("error", msg, details...) }
func (l *recordingLogger) Debug(msg string, details ...any) { l.record("debug", msg, details...) }

func (l *recordingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

type noopStore struct{}

func (noopStore) Exec(context.Context, string, ...any) (int64, error)         { return 0, nil }
func (noopStore) Query(context.Context, string, ...any) ([]effect.Row, error) { return nil, nil }

type noopTransport struct{}

func (noopTransport) Get(context.Context, string, ...effect.RequestOption) (*effect.Response, error) {
	return &effect.Response{StatusCode: 200}, nil
}
func (noopTransport) Post(context.Context, string, any, ...effect.RequestOption) (*effect.Response, error) {
	return &effect.Response{StatusCode: 201}, nil
}
func (noopTransport) Put(context.Context, string, any, ...effect.RequestOption) (*effect.Response, error) {
	return &effect.Response{StatusCode: 200}, nil
}
func (noopTransport) Delete(context.Context, string, ...effect.RequestOption) (*effect.Response, error) {
	return &effect.Response{StatusCode: 204}, nil
}

func fullDeps() effect.Dependencies {
	return effect.NewDependencies(noopStore{}, newMapCache(), &recordingLogger{}, noopTransport{})
}
