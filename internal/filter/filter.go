// Package filter narrows fetched collections on the client. Filters are
// pure: they never reorder items and never trigger a refetch.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
)

// All is the wildcard value for enum filters.
const All = "todos"

// Predicate decides whether an item is visible.
type Predicate[T any] func(T) bool

// Apply returns the items accepted by pred, in their original order.
// A nil pred accepts everything.
func Apply[T any](items []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred == nil || pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// And accepts an item only when every predicate does.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(it T) bool {
		for _, p := range preds {
			if p != nil && !p(it) {
				return false
			}
		}
		return true
	}
}

// fold applies Unicode case folding. A Caser is stateful, so each call
// gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Contains reports whether needle occurs in haystack ignoring case.
func Contains(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

// Text accepts items where query is a case-insensitive substring of at
// least one field. A blank query accepts everything.
func Text[T any](query string, fields ...func(T) string) Predicate[T] {
	q := fold(strings.TrimSpace(query))
	return func(it T) bool {
		if q == "" {
			return true
		}
		for _, f := range fields {
			if strings.Contains(fold(f(it)), q) {
				return true
			}
		}
		return false
	}
}

// Equals accepts items whose field equals want. The All wildcard and the
// empty string accept everything.
func Equals[T any](want string, field func(T) string) Predicate[T] {
	return func(it T) bool {
		if want == "" || want == All {
			return true
		}
		return field(it) == want
	}
}

// OneOf accepts items whose field is in wants. An empty set accepts everything.
func OneOf[T any](wants []string, field func(T) string) Predicate[T] {
	set := make(map[string]bool, len(wants))
	for _, w := range wants {
		set[w] = true
	}
	return func(it T) bool {
		if len(set) == 0 {
			return true
		}
		return set[field(it)]
	}
}
