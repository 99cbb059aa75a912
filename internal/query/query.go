// Package query answers questions about a type hierarchy: the supertypes of a
// type, the methods, fields and inner types declared anywhere in it, the override
// chain of a method and the annotations found on an element and its ancestors.
//
// Every query is a builder. Its WithX methods change the query in place and return
// it, and its terminal methods (Stream, First, ExistsAny, Item, Collect) re-run the
// walk with the current configuration every time they are called. Nothing is cached.
package query

import (
	"iter"
	"slices"

	"github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/model"
)

// Query holds the terminal operations shared by all concrete queries
type Query[T any] struct {
	source func() iter.Seq[T]
}

// Stream returns a lazy sequence over the results
func (q *Query[T]) Stream() iter.Seq[T] {
	return q.source()
}

// First returns the first result without walking past it
func (q *Query[T]) First() (T, bool) {
	for item := range q.source() {
		return item, true
	}
	var zero T
	return zero, false
}

// ExistsAny reports whether the query has at least one result
func (q *Query[T]) ExistsAny() bool {
	_, ok := q.First()
	return ok
}

// Item skips n results and returns the next one. A negative n is rejected
// before the model is touched.
func (q *Query[T]) Item(n int) (T, bool, error) {
	var zero T
	if n < 0 {
		return zero, false, errors.NewPreconditionError("item", "index must not be negative").
			WithContext("index", n)
	}
	i := 0
	for item := range q.source() {
		if i == n {
			return item, true, nil
		}
		i++
	}
	return zero, false, nil
}

// Collect materializes all results
func (q *Query[T]) Collect() []T {
	return slices.Collect(q.source())
}

// LevelExtractor yields the candidates one hierarchy level contributes
type LevelExtractor[T any] func(level model.Type) iter.Seq[T]

// hierarchy concatenates the candidates of every level, in level order and then
// declaration order, and keeps those accepted by keep. Levels are only extracted
// as far as the consumer pulls.
func hierarchy[T any](levels iter.Seq[model.Type], extract LevelExtractor[T], keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for level := range levels {
			for candidate := range extract(level) {
				if keep != nil && !keep(candidate) {
					continue
				}
				if !yield(candidate) {
					return
				}
			}
		}
	}
}

// all adapts a declared-members slice into a level sequence
func all[T any](items []T) iter.Seq[T] {
	return slices.Values(items)
}

// single yields v when ok is set
func single[T any](v T, ok bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		if ok {
			yield(v)
		}
	}
}

// hasAnnotation reports whether e directly carries an annotation with that name
func hasAnnotation(e model.Element, qualifiedName string) bool {
	for _, a := range e.Annotations() {
		if a.QualifiedName() == qualifiedName {
			return true
		}
	}
	return false
}
