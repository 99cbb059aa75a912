package query

import (
	"iter"

	"github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/model"
)

// ownerStrategy decides, once per query, how the annotated element is found again
// at each level of the walk. The kind is the tag; the remaining fields are the
// payload used by that kind.
type ownerStrategy struct {
	kind       model.Kind
	start      model.Type
	identifier string       // method and parameter owners
	fieldName  string       // field owners
	method     model.Method // parameter owners
	paramIndex int          // parameter owners
}

func newOwnerStrategy(owner model.Element) (ownerStrategy, error) {
	if owner == nil {
		return ownerStrategy{}, errors.NewPreconditionError("annotations", "owner must not be nil")
	}

	switch owner.Kind() {
	case model.KindType:
		if t, ok := owner.(model.Type); ok {
			return ownerStrategy{kind: model.KindType, start: t}, nil
		}
	case model.KindMethod:
		if m, ok := owner.(model.Method); ok && m.DeclaringType() != nil {
			return ownerStrategy{
				kind:       model.KindMethod,
				start:      m.DeclaringType(),
				identifier: m.Identifier(true),
			}, nil
		}
	case model.KindField:
		if f, ok := owner.(model.Field); ok && f.DeclaringType() != nil {
			return ownerStrategy{kind: model.KindField, start: f.DeclaringType(), fieldName: f.Name()}, nil
		}
	case model.KindParameter:
		if p, ok := owner.(model.Parameter); ok && p.DeclaringMethod() != nil && p.DeclaringMethod().DeclaringType() != nil {
			m := p.DeclaringMethod()
			return ownerStrategy{
				kind:       model.KindParameter,
				start:      m.DeclaringType(),
				identifier: m.Identifier(true),
				method:     m,
				paramIndex: p.Index(),
			}, nil
		}
	}
	return ownerStrategy{}, errors.NewUnsupportedOwnerError(owner.Kind().String())
}

// resolve returns the element standing for the owner at one level, if that level
// declares one. A parameter is taken by position from the method with the same
// identifier, or failing that from the first method with the same name whose
// parameter at that position has the owner's type. A level with no such method
// contributes nothing.
func (s ownerStrategy) resolve(level model.Type) (model.Element, bool) {
	switch s.kind {
	case model.KindType:
		return level, true
	case model.KindMethod:
		return methodByIdentifier(level, s.identifier)
	case model.KindField:
		return fieldByName(level, s.fieldName)
	case model.KindParameter:
		m, ok := methodByIdentifier(level, s.identifier)
		if !ok {
			m, ok = methodWithParameter(level, s.method, s.paramIndex)
		}
		if !ok {
			return nil, false
		}
		params := m.Parameters()
		if s.paramIndex >= len(params) {
			return nil, false
		}
		return params[s.paramIndex], true
	default:
		return nil, false
	}
}

// AnnotationQuery finds the annotations of an element, optionally including those
// declared on the corresponding element of every ancestor. Results are the union
// over all included levels, most specific level first.
type AnnotationQuery struct {
	Query[model.Annotation]

	owner    ownerStrategy
	scope    Scope
	typeName string
}

// Annotations creates a query over the annotations of owner, which must be a
// type, a method, a field or a method parameter. Any other owner is rejected here,
// before the model is walked.
func Annotations(owner model.Element) (*AnnotationQuery, error) {
	strategy, err := newOwnerStrategy(owner)
	if err != nil {
		return nil, err
	}
	q := &AnnotationQuery{owner: strategy, scope: Scope{Self: true}}
	q.source = q.stream
	return q, nil
}

// WithName keeps annotations of exactly this annotation type
func (q *AnnotationQuery) WithName(qualifiedName string) *AnnotationQuery {
	q.typeName = qualifiedName
	return q
}

// WithSuperTypes includes or excludes superclasses and superinterfaces together
func (q *AnnotationQuery) WithSuperTypes(include bool) *AnnotationQuery {
	q.scope.Superclasses = include
	q.scope.Superinterfaces = include
	return q
}

// WithSuperClasses includes or excludes the superclass chain
func (q *AnnotationQuery) WithSuperClasses(include bool) *AnnotationQuery {
	q.scope.Superclasses = include
	return q
}

// WithSuperInterfaces includes or excludes the superinterfaces
func (q *AnnotationQuery) WithSuperInterfaces(include bool) *AnnotationQuery {
	q.scope.Superinterfaces = include
	return q
}

func (q *AnnotationQuery) stream() iter.Seq[model.Annotation] {
	extract := func(level model.Type) iter.Seq[model.Annotation] {
		e, ok := q.owner.resolve(level)
		if !ok {
			return all[model.Annotation](nil)
		}
		return all(e.Annotations())
	}
	return hierarchy(Levels(q.owner.start, q.scope), extract, q.accept)
}

func (q *AnnotationQuery) accept(a model.Annotation) bool {
	return q.typeName == "" || a.QualifiedName() == q.typeName
}
