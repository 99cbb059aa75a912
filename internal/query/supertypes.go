package query

import (
	"iter"

	"github.com/toyz/hierq/internal/model"
)

// SuperTypeQuery yields a type and its supertypes in walk order
type SuperTypeQuery struct {
	Query[model.Type]

	start      model.Type
	scope      Scope
	name       string
	simpleName string
	flags      model.Flags
}

// Supertypes creates a query over start, its superclasses and its superinterfaces
func Supertypes(start model.Type) *SuperTypeQuery {
	q := &SuperTypeQuery{start: start, scope: Scope{Self: true, Superclasses: true, Superinterfaces: true}}
	q.source = q.stream
	return q
}

// WithSelf includes or excludes the start type
func (q *SuperTypeQuery) WithSelf(include bool) *SuperTypeQuery {
	q.scope.Self = include
	return q
}

// WithSuperTypes includes or excludes superclasses and superinterfaces together
func (q *SuperTypeQuery) WithSuperTypes(include bool) *SuperTypeQuery {
	q.scope.Superclasses = include
	q.scope.Superinterfaces = include
	return q
}

// WithSuperClasses includes or excludes the superclass chain
func (q *SuperTypeQuery) WithSuperClasses(include bool) *SuperTypeQuery {
	q.scope.Superclasses = include
	return q
}

// WithSuperInterfaces includes or excludes the superinterfaces
func (q *SuperTypeQuery) WithSuperInterfaces(include bool) *SuperTypeQuery {
	q.scope.Superinterfaces = include
	return q
}

// WithName keeps types with exactly this qualified name
func (q *SuperTypeQuery) WithName(qualifiedName string) *SuperTypeQuery {
	q.name = qualifiedName
	return q
}

// WithSimpleName keeps types with this simple name
func (q *SuperTypeQuery) WithSimpleName(simpleName string) *SuperTypeQuery {
	q.simpleName = simpleName
	return q
}

// WithFlags keeps types that have all the given flags
func (q *SuperTypeQuery) WithFlags(flags model.Flags) *SuperTypeQuery {
	q.flags = flags
	return q
}

func (q *SuperTypeQuery) stream() iter.Seq[model.Type] {
	levels := Levels(q.start, q.scope)
	return func(yield func(model.Type) bool) {
		for t := range levels {
			if q.accept(t) && !yield(t) {
				return
			}
		}
	}
}

func (q *SuperTypeQuery) accept(t model.Type) bool {
	return typeMatches(t, q.name, q.simpleName, q.flags)
}

func typeMatches(t model.Type, qualifiedName, simpleName string, flags model.Flags) bool {
	if qualifiedName != "" && t.QualifiedName() != qualifiedName {
		return false
	}
	if simpleName != "" && t.Name() != simpleName {
		return false
	}
	return t.Flags().Has(flags)
}

// isInstanceOf reports whether t or any of its supertypes has the qualified name
func isInstanceOf(t model.Type, qualifiedName string) bool {
	return Supertypes(t).WithName(qualifiedName).ExistsAny()
}
