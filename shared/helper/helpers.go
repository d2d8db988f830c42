package helper

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnexpectedType reports a failed type assertion in GetTypedValueOf.
var ErrUnexpectedType = errors.New("unexpected type")

// ErrPanicked marks an error recovered from a panic whose value was not an error.
var ErrPanicked = errors.New("panicked")

// GetTypedValueOf safely asserts the result of a getter function to the expected type T.
// Errors from the getter are returned unchanged.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, err
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %v", ErrUnexpectedType, res, reflect.TypeFor[T]())
	}

	return val, nil
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
// Use when failure should be fatal (e.g., wiring at program start).
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}

// ErrorFromPanic turns a recovered value into an error.
// Error values are returned as-is so callers can match them with errors.Is.
func ErrorFromPanic(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPanicked, r)
}
