package effect

import "context"

// WithStore builds an Effect from a step that uses the relational store.
func WithStore[T any](fn func(context.Context, Store) (T, error)) Effect[T] {
	return WithDependency(KeyStore, fn)
}

// WithCache builds an Effect from a step that uses the cache.
func WithCache[T any](fn func(context.Context, Cache) (T, error)) Effect[T] {
	return WithDependency(KeyCache, fn)
}

// WithLog builds an Effect from a step that uses the log sink.
func WithLog[T any](fn func(context.Context, Logger) (T, error)) Effect[T] {
	return WithDependency(KeyLog, fn)
}

// WithTransport builds an Effect from a step that uses the outbound transport.
func WithTransport[T any](fn func(context.Context, Transport) (T, error)) Effect[T] {
	return WithDependency(KeyTransport, fn)
}
