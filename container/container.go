// Package container owns the concrete service handles Effects run against.
//
// A Container is created explicitly with Open (or OpenInMemory for tests),
// passed to whoever runs Effects, and released with Close. There is no
// process-wide default.
package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/effectdeps/config"
	"github.com/on-the-ground/effectdeps/effect"
	"github.com/on-the-ground/effectdeps/services/cache"
	"github.com/on-the-ground/effectdeps/services/logsink"
	"github.com/on-the-ground/effectdeps/services/store"
	"github.com/on-the-ground/effectdeps/services/transport"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container holds one dependency map and the resources behind it.
type Container struct {
	id      string
	deps    effect.Dependencies
	logger  *zap.Logger
	metrics *Metrics
	closers []func() error

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// Option configures Open.
type Option func(*options)

// WithLogger makes the container use logger instead of building one from config.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegisterer registers the run metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// Open builds every handle described by cfg. If any handle fails to open,
// those already opened are closed and the error is returned.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{id: uuid.New().String()}

	logger := o.logger
	if logger == nil {
		built, err := logsink.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
		logger = built
	}
	c.logger = logger.With(zap.String("containerId", c.id))
	sink := logsink.NewZap(c.logger)
	c.closers = append(c.closers, func() error {
		// stdout/stderr sinks report EINVAL on Sync; nothing to flush there
		_ = sink.Sync()
		return nil
	})

	metrics, err := newMetrics(o.registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	c.metrics = metrics

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.closers = append(c.closers, st.Close)

	ch, err := openCache(ctx, cfg.Cache)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	if closer, ok := ch.(interface{ Close() error }); ok {
		c.closers = append(c.closers, closer.Close)
	} else if closer, ok := ch.(interface{ Close() }); ok {
		c.closers = append(c.closers, func() error { closer.Close(); return nil })
	}

	tr := transport.NewResty(transport.Config{
		BaseURL:   cfg.Transport.BaseURL,
		Timeout:   cfg.Transport.Timeout,
		Headers:   cfg.Transport.Headers,
		RateLimit: cfg.Transport.RateLimit,
		Burst:     cfg.Transport.Burst,
	})

	c.deps = effect.NewDependencies(st, ch, sink, tr)
	c.logger.Debug("container opened",
		zap.String("store", cfg.Store.Driver),
		zap.String("cache", cfg.Cache.Driver),
	)
	return c, nil
}

// OpenInMemory opens a container on an in-memory SQLite store and an
// in-process cache. Without WithLogger it logs nothing.
func OpenInMemory(ctx context.Context, opts ...Option) (*Container, error) {
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	return Open(ctx, config.Default(), opts...)
}

type storeCloser interface {
	effect.Store
	Close() error
}

func openStore(ctx context.Context, cfg config.StoreConfig) (storeCloser, error) {
	switch cfg.Driver {
	case config.StorePostgres:
		return store.OpenPostgres(ctx, cfg.DSN)
	case config.StoreSQLite:
		return store.OpenSQLite(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

func openCache(ctx context.Context, cfg config.CacheConfig) (effect.Cache, error) {
	switch cfg.Driver {
	case config.CacheRedis:
		return cache.NewRedis(ctx, cache.RedisConfig{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	case config.CacheRistretto:
		return cache.NewRistretto(cache.RistrettoConfig{NumCounters: cfg.NumCounters, MaxCost: cfg.MaxCost})
	case config.CacheMemory:
		return cache.NewMemory(cfg.Shards), nil
	default:
		return nil, fmt.Errorf("%w: unknown cache driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

// ID identifies the container in its log lines.
func (c *Container) ID() string {
	return c.id
}

// Dependencies returns a copy of the container's dependency map.
func (c *Container) Dependencies() effect.Dependencies {
	return c.deps.Project(effect.AllKeys())
}

// Metrics exposes the run counters.
func (c *Container) Metrics() *Metrics {
	return c.metrics
}

// Close releases every handle in reverse opening order. It is safe to call
// more than once; later calls return the first result.
func (c *Container) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		var errs []error
		for i := len(c.closers) - 1; i >= 0; i-- {
			if err := c.closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		c.closeErr = errors.Join(errs...)
		if c.logger != nil {
			c.logger.Debug("container closed", zap.Error(c.closeErr))
		}
	})
	return c.closeErr
}

// Run executes e against c's dependencies and records the outcome in c's metrics.
func Run[T any](ctx context.Context, c *Container, e effect.Effect[T]) (T, error) {
	start := time.Now()
	res, err := e.Run(ctx, c.deps)
	c.metrics.observe(time.Since(start).Seconds(), err)
	return res, err
}
