package effect

import (
	"context"
)

// settled is the outcome of one member of an aggregate.
type settled[T any] struct {
	index int
	value T
	err   error
}

func unionOf[T any](effects []Effect[T]) KeySet {
	var ks KeySet
	for _, e := range effects {
		ks = ks.Union(e.requires)
	}
	return ks
}

// spawn starts every effect in its own goroutine and returns the channel their
// outcomes arrive on. The channel is buffered for all of them, so members that
// finish after the aggregate has settled exit without blocking.
func spawn[T any](ctx context.Context, deps Dependencies, effects []Effect[T]) <-chan settled[T] {
	results := make(chan settled[T], len(effects))
	for i, e := range effects {
		go func(i int, e Effect[T]) {
			v, err := e.Run(ctx, deps)
			results <- settled[T]{index: i, value: v, err: err}
		}(i, e)
	}
	return results
}

// All runs every effect concurrently and yields their results in input order.
//
// The first failure settles the aggregate immediately with that error. Other
// members are not cancelled: they run to completion and their results are discarded.
func All[T any](effects ...Effect[T]) Effect[[]T] {
	effects = append([]Effect[T](nil), effects...)
	return newEffect(unionOf(effects), func(ctx context.Context, deps Dependencies) ([]T, error) {
		out := make([]T, len(effects))
		results := spawn(ctx, deps, effects)
		for range effects {
			res := <-results
			if res.err != nil {
				return nil, res.err
			}
			out[res.index] = res.value
		}
		return out, nil
	})
}

// Race runs every effect concurrently and settles with whichever finishes
// first, success or failure. Slower members are not cancelled.
func Race[T any](effects ...Effect[T]) Effect[T] {
	effects = append([]Effect[T](nil), effects...)
	return newEffect(unionOf(effects), func(ctx context.Context, deps Dependencies) (T, error) {
		if len(effects) == 0 {
			var zero T
			return zero, ErrEmptyRace
		}
		res := <-spawn(ctx, deps, effects)
		return res.value, res.err
	})
}

// Sequence runs effects one at a time in order and collects their results.
// It stops at the first failure; later effects never start.
func Sequence[T any](effects ...Effect[T]) Effect[[]T] {
	effects = append([]Effect[T](nil), effects...)
	return newEffect(unionOf(effects), func(ctx context.Context, deps Dependencies) ([]T, error) {
		out := make([]T, 0, len(effects))
		for _, e := range effects {
			v, err := e.Run(ctx, deps)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	})
}
