package query

import (
	"iter"

	"github.com/toyz/hierq/internal/model"
)

// MethodMatcher decides whether candidate, declared at some ancestor level,
// overrides or is overridden by the start method.
type MethodMatcher func(start, candidate model.Method) bool

// IdentifierEquality matches methods with equal erased identifiers
func IdentifierEquality(start, candidate model.Method) bool {
	return start.Identifier(true) == candidate.Identifier(true)
}

// OverrideEquivalence matches methods whose parameters agree after erasure,
// treating type variable positions as wildcards. It finds overrides that
// specialize a generic parameter, e.g. run(String) for run(T).
func OverrideEquivalence(start, candidate model.Method) bool {
	return model.OverrideEquivalent(start, candidate)
}

// SuperMethodQuery yields the override chain of a method, most derived first
type SuperMethodQuery struct {
	Query[model.Method]

	method     model.Method
	identifier string
	scope      Scope
	flags      model.Flags
	annotation string
	matcher    MethodMatcher
}

// SuperMethods creates a query over m and every method it overrides
func SuperMethods(m model.Method) *SuperMethodQuery {
	q := &SuperMethodQuery{
		method: m,
		scope:  Scope{Self: true, Superclasses: true, Superinterfaces: true},
	}
	if m != nil {
		q.identifier = m.Identifier(true)
	}
	q.source = q.stream
	return q
}

// WithSelf includes or excludes the start method itself
func (q *SuperMethodQuery) WithSelf(include bool) *SuperMethodQuery {
	q.scope.Self = include
	return q
}

// WithSuperTypes includes or excludes superclasses and superinterfaces together
func (q *SuperMethodQuery) WithSuperTypes(include bool) *SuperMethodQuery {
	q.scope.Superclasses = include
	q.scope.Superinterfaces = include
	return q
}

// WithSuperClasses includes or excludes the superclass chain
func (q *SuperMethodQuery) WithSuperClasses(include bool) *SuperMethodQuery {
	q.scope.Superclasses = include
	return q
}

// WithSuperInterfaces includes or excludes the superinterfaces
func (q *SuperMethodQuery) WithSuperInterfaces(include bool) *SuperMethodQuery {
	q.scope.Superinterfaces = include
	return q
}

// WithFlags keeps methods that have all the given flags
func (q *SuperMethodQuery) WithFlags(flags model.Flags) *SuperMethodQuery {
	q.flags = flags
	return q
}

// WithAnnotation keeps methods directly annotated with the given annotation type
func (q *SuperMethodQuery) WithAnnotation(qualifiedName string) *SuperMethodQuery {
	q.annotation = qualifiedName
	return q
}

// WithMatcher replaces identifier equality with another override relation.
// At most the first matching method of each level is yielded.
func (q *SuperMethodQuery) WithMatcher(matcher MethodMatcher) *SuperMethodQuery {
	q.matcher = matcher
	return q
}

func (q *SuperMethodQuery) stream() iter.Seq[model.Method] {
	if q.method == nil {
		return all[model.Method](nil)
	}
	return hierarchy(Levels(q.method.DeclaringType(), q.scope), q.extractor(), q.accept)
}

func (q *SuperMethodQuery) extractor() LevelExtractor[model.Method] {
	if q.matcher == nil {
		id := q.identifier
		return func(level model.Type) iter.Seq[model.Method] {
			m, ok := methodByIdentifier(level, id)
			return single(m, ok)
		}
	}
	match := q.matcher
	return func(level model.Type) iter.Seq[model.Method] {
		for _, candidate := range level.Methods() {
			if candidate.Name() == q.method.Name() && match(q.method, candidate) {
				return single(candidate, true)
			}
		}
		return all[model.Method](nil)
	}
}

func (q *SuperMethodQuery) accept(m model.Method) bool {
	if !m.Flags().Has(q.flags) {
		return false
	}
	return q.annotation == "" || hasAnnotation(m, q.annotation)
}
