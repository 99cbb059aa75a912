package query

import (
	"iter"

	"github.com/toyz/hierq/internal/model"
)

// FieldQuery finds fields declared by a type and, optionally, its supertypes
type FieldQuery struct {
	Query[model.Field]

	owner      model.Type
	scope      Scope
	name       string
	flags      model.Flags
	annotation string
}

// Fields creates a query over the fields declared by owner only
func Fields(owner model.Type) *FieldQuery {
	q := &FieldQuery{owner: owner, scope: Scope{Self: true}}
	q.source = q.stream
	return q
}

// WithName keeps the field with exactly this name
func (q *FieldQuery) WithName(name string) *FieldQuery {
	q.name = name
	return q
}

// WithFlags keeps fields that have all the given flags
func (q *FieldQuery) WithFlags(flags model.Flags) *FieldQuery {
	q.flags = flags
	return q
}

// WithAnnotation keeps fields directly annotated with the given annotation type
func (q *FieldQuery) WithAnnotation(qualifiedName string) *FieldQuery {
	q.annotation = qualifiedName
	return q
}

// WithSuperTypes includes or excludes superclasses and superinterfaces together
func (q *FieldQuery) WithSuperTypes(include bool) *FieldQuery {
	q.scope.Superclasses = include
	q.scope.Superinterfaces = include
	return q
}

// WithSuperClasses includes or excludes the superclass chain
func (q *FieldQuery) WithSuperClasses(include bool) *FieldQuery {
	q.scope.Superclasses = include
	return q
}

// WithSuperInterfaces includes or excludes the superinterfaces
func (q *FieldQuery) WithSuperInterfaces(include bool) *FieldQuery {
	q.scope.Superinterfaces = include
	return q
}

func (q *FieldQuery) stream() iter.Seq[model.Field] {
	extract := func(level model.Type) iter.Seq[model.Field] {
		return all(level.Fields())
	}
	return hierarchy(Levels(q.owner, q.scope), extract, q.accept)
}

func (q *FieldQuery) accept(f model.Field) bool {
	if q.name != "" && f.Name() != q.name {
		return false
	}
	if !f.Flags().Has(q.flags) {
		return false
	}
	return q.annotation == "" || hasAnnotation(f, q.annotation)
}

// fieldByName returns the field with that simple name declared by level
func fieldByName(level model.Type, name string) (model.Field, bool) {
	for _, f := range level.Fields() {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}
