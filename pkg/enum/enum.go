// Package enum registers string-backed enum values so they can be parsed
// back from wire input with a type-safe lookup.
package enum

import (
	"fmt"
	"reflect"
)

var registry = map[reflect.Type]map[string]any{}

// New registers value under its concrete type and returns it unchanged, so
// it can be used directly in a var declaration.
func New[T ~string](value T) T {
	t := reflect.TypeOf(value)
	if registry[t] == nil {
		registry[t] = map[string]any{}
	}

	registry[t][string(value)] = value
	return value
}

// ToEnum parses s into a registered value of type T. Unregistered strings
// are rejected, which makes it safe to feed user input through it.
func ToEnum[T ~string](s string) (T, error) {
	var zero T
	values, ok := registry[reflect.TypeOf(zero)]
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := values[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value.(T), nil
}
