// Package filter matches items against key=value filters given on the command line.
package filter

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Predicate defines a function that returns true if the given item matches a condition.
type Predicate[T any] func(item T, filterValue string) bool

// Options holds configuration for filtering behavior.
type Options[T any] struct {
	matchers map[string]Predicate[T]
}

// Option configures filter Options.
type Option[T any] func(*Options[T]) error

func defaultOptions[T any]() Options[T] {
	return Options[T]{
		matchers: make(map[string]Predicate[T]),
	}
}

// NormalizeString can be used to normalize a string value for filtering/comparison.
// The value is made lowercase and has any leading and/or trailing whitespace removed.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewOptions creates Options with defaults and applies given options.
func NewOptions[T any](opt ...Option[T]) (Options[T], error) {
	opts := defaultOptions[T]()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return Options[T]{}, err
		}
	}
	return opts, nil
}

// Keys returns the normalized keys that have a matcher, sorted.
func (o Options[T]) Keys() []string {
	return slices.Sorted(maps.Keys(o.matchers))
}

// BoolValueProvider extracts a single boolean value from an item of type T.
type BoolValueProvider[T any] func(T) bool

// StringValueProvider extracts a single string value from an item of type T.
type StringValueProvider[T any] func(T) string

// StringValuesProvider extracts a slice of string values from an item of type T.
type StringValuesProvider[T any] func(T) []string

// Equals returns a Predicate that checks if the value extracted by the provider
// exactly matches the filter value (case-insensitive, normalized).
func Equals[T any](provider StringValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		return NormalizeString(provider(item)) == NormalizeString(val)
	}
}

// EqualsBool returns a Predicate that checks if the value extracted by the provider
// matches the parsed boolean representation of the filter value.
// A filter value that is not a boolean never matches.
func EqualsBool[T any](provider BoolValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		parsedVal, err := strconv.ParseBool(NormalizeString(val))
		if err != nil {
			return false
		}
		return provider(item) == parsedVal
	}
}

// Partial returns a Predicate that checks if the value extracted by the provider
// contains the filter value as a substring (case-insensitive, normalized).
func Partial[T any](provider StringValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		return strings.Contains(NormalizeString(provider(item)), NormalizeString(val))
	}
}

// PartialAny returns a Predicate that checks if *ANY* value extracted by the provider
// contains the filter value as a substring (case-insensitive, normalized).
//
// Example:
//
// predicate := PartialAny(deploymentNames),
// result := predicate(inst, "api") // true if any deployment name contains "api"
func PartialAny[T any](provider StringValuesProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		expected := NormalizeString(val)
		for _, v := range provider(item) {
			if strings.Contains(NormalizeString(v), expected) {
				return true
			}
		}
		return false
	}
}

// WithMatcher adds or overrides a matcher.
func WithMatcher[T any](key string, value Predicate[T]) Option[T] {
	return func(o *Options[T]) error {
		k := NormalizeString(key)
		if k == "" {
			return fmt.Errorf("filter key cannot be empty")
		}
		if value == nil {
			return fmt.Errorf("matcher for filter key '%s' cannot be nil", k)
		}
		o.matchers[k] = value
		return nil
	}
}

// WithMatchers adds or overrides matchers.
func WithMatchers[T any](m map[string]Predicate[T]) Option[T] {
	return func(o *Options[T]) error {
		for k, v := range m {
			if err := WithMatcher(k, v)(o); err != nil {
				return err
			}
		}
		return nil
	}
}

// Validate returns an error naming every filter key without a matcher.
func (o Options[T]) Validate(filters map[string]string) error {
	var unsupported []string
	for key := range filters {
		k := NormalizeString(key)
		if _, ok := o.matchers[k]; !ok {
			unsupported = append(unsupported, k)
		}
	}

	if len(unsupported) == 0 {
		return nil
	}

	slices.Sort(unsupported)
	return fmt.Errorf(
		"unsupported filter key(s): %s (supported: %s)",
		strings.Join(unsupported, ", "),
		strings.Join(o.Keys(), ", "),
	)
}

// Match reports whether item satisfies every filter.
// Filters are matched against the configured matchers, and a key without a matcher is an error.
func (o Options[T]) Match(item T, filters map[string]string) (bool, error) {
	if err := o.Validate(filters); err != nil {
		return false, err
	}

	for key, val := range filters {
		if !o.matchers[NormalizeString(key)](item, val) {
			return false, nil
		}
	}

	return true, nil
}
