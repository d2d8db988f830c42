package effect

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/effectdeps/shared/helper"
)

var (
	// ErrMissingDependency is returned by Run when the supplied map lacks a required key.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrDependencyType is returned when a handle does not implement the expected type.
	ErrDependencyType = helper.ErrUnexpectedType

	// ErrPanicked wraps a recovered panic value that was not itself an error.
	ErrPanicked = helper.ErrPanicked

	// ErrNilEffect is returned when running the zero Effect.
	ErrNilEffect = errors.New("nil effect")

	// ErrEmptyRace is returned by Race over no effects.
	ErrEmptyRace = errors.New("race over no effects")
)

// Effect is a lazy computation producing a T from a dependency map.
//
// Constructing or composing Effects never runs anything; only Run does.
// An Effect is immutable and may be run any number of times, each run
// being independent of the others.
type Effect[T any] struct {
	requires KeySet
	run      func(context.Context, Dependencies) (T, error)
}

func newEffect[T any](requires KeySet, run func(context.Context, Dependencies) (T, error)) Effect[T] {
	return Effect[T]{requires: requires, run: run}
}

// Requires reports the dependency keys this Effect declares.
func (e Effect[T]) Requires() KeySet {
	return e.requires
}

// Require returns a copy of e that additionally declares keys.
// Use it on chained Effects whose continuation needs services the first step does not.
func (e Effect[T]) Require(keys ...Key) Effect[T] {
	return newEffect(e.requires.Union(NewKeySet(keys...)), e.run)
}

// Run executes e against deps.
//
// Every declared key must be present in deps, otherwise Run fails with
// ErrMissingDependency before any step is invoked. A panic inside a step
// is returned as the run error.
func (e Effect[T]) Run(ctx context.Context, deps Dependencies) (res T, err error) {
	if e.run == nil {
		return res, ErrNilEffect
	}
	if missing := deps.Missing(e.requires); len(missing) > 0 {
		return res, fmt.Errorf("%w: %v", ErrMissingDependency, NewKeySet(missing...))
	}

	defer func() {
		if r := recover(); r != nil {
			var zero T
			res, err = zero, helper.ErrorFromPanic(r)
		}
	}()
	return e.run(ctx, deps)
}

// Pure lifts a value into an Effect that needs nothing and never fails.
func Pure[T any](value T) Effect[T] {
	return newEffect(KeySet{}, func(context.Context, Dependencies) (T, error) {
		return value, nil
	})
}

// Fail returns an Effect that always fails with err.
func Fail[T any](err error) Effect[T] {
	return newEffect(KeySet{}, func(context.Context, Dependencies) (T, error) {
		var zero T
		return zero, err
	})
}

// FromFunc wraps fn as an Effect with no dependencies; its outcome is adopted verbatim.
func FromFunc[T any](fn func(context.Context) (T, error)) Effect[T] {
	return newEffect(KeySet{}, func(ctx context.Context, _ Dependencies) (T, error) {
		return fn(ctx)
	})
}

// WithDependency builds an Effect requiring exactly key. When run, the handle
// registered under key is asserted to H and passed to fn.
func WithDependency[H, T any](key Key, fn func(context.Context, H) (T, error)) Effect[T] {
	return newEffect(NewKeySet(key), func(ctx context.Context, deps Dependencies) (T, error) {
		handle, err := helper.GetTypedValueOf[H](func() (any, error) {
			v, ok := deps.Lookup(key)
			if !ok {
				return nil, ErrMissingDependency
			}
			return v, nil
		})
		if err != nil {
			var zero T
			return zero, fmt.Errorf("dependency %s: %w", key, err)
		}
		return fn(ctx, handle)
	})
}

// WithAllDependencies builds an Effect requiring every standard key.
// fn receives the map projected to those keys.
func WithAllDependencies[T any](fn func(context.Context, Dependencies) (T, error)) Effect[T] {
	all := AllKeys()
	return newEffect(all, func(ctx context.Context, deps Dependencies) (T, error) {
		return fn(ctx, deps.Project(all))
	})
}

// Map applies fn to the success value of self. The requirement is unchanged.
func Map[T, U any](self Effect[T], fn func(T) U) Effect[U] {
	return newEffect(self.requires, func(ctx context.Context, deps Dependencies) (U, error) {
		v, err := self.Run(ctx, deps)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v), nil
	})
}

// TryMap is Map for a fallible fn.
func TryMap[T, U any](self Effect[T], fn func(T) (U, error)) Effect[U] {
	return newEffect(self.requires, func(ctx context.Context, deps Dependencies) (U, error) {
		v, err := self.Run(ctx, deps)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// Chain runs self, passes its result to fn, and runs the returned Effect
// against the same dependency map. The second stage never starts if self fails.
//
// The continuation is only known at run time, so the derived requirement is
// that of self; widen it with Require when the continuation needs more.
func Chain[T, U any](self Effect[T], fn func(T) Effect[U]) Effect[U] {
	return newEffect(self.requires, func(ctx context.Context, deps Dependencies) (U, error) {
		v, err := self.Run(ctx, deps)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v).Run(ctx, deps)
	})
}

// Then runs self and then next, keeping only next's result.
func Then[T, U any](self Effect[T], next Effect[U]) Effect[U] {
	return newEffect(self.requires.Union(next.requires), func(ctx context.Context, deps Dependencies) (U, error) {
		if _, err := self.Run(ctx, deps); err != nil {
			var zero U
			return zero, err
		}
		return next.Run(ctx, deps)
	})
}
