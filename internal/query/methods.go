package query

import (
	"iter"
	"regexp"

	"github.com/toyz/hierq/internal/model"
)

// MethodQuery finds methods declared by a type and, optionally, its supertypes
type MethodQuery struct {
	Query[model.Method]

	owner      model.Type
	scope      Scope
	name       string
	pattern    *regexp.Regexp
	flags      model.Flags
	annotation string
	identifier string
}

// Methods creates a query over the methods of owner. The owner itself is always
// searched; supertypes are not searched until enabled.
func Methods(owner model.Type) *MethodQuery {
	q := &MethodQuery{owner: owner, scope: Scope{Self: true}}
	q.source = q.stream
	return q
}

// WithName keeps methods with exactly this name
func (q *MethodQuery) WithName(name string) *MethodQuery {
	q.name = name
	return q
}

// WithNamePattern keeps methods whose name matches the pattern. It combines with
// WithName when both are set.
func (q *MethodQuery) WithNamePattern(pattern *regexp.Regexp) *MethodQuery {
	q.pattern = pattern
	return q
}

// WithFlags keeps methods that have all the given flags
func (q *MethodQuery) WithFlags(flags model.Flags) *MethodQuery {
	q.flags = flags
	return q
}

// WithAnnotation keeps methods directly annotated with the given annotation type
func (q *MethodQuery) WithAnnotation(qualifiedName string) *MethodQuery {
	q.annotation = qualifiedName
	return q
}

// WithMethodIdentifier selects one overload by its erased identifier, e.g.
// run(java.lang.String,int). Each level then contributes at most one method.
func (q *MethodQuery) WithMethodIdentifier(identifier string) *MethodQuery {
	q.identifier = identifier
	return q
}

// WithSuperTypes includes or excludes superclasses and superinterfaces together
func (q *MethodQuery) WithSuperTypes(include bool) *MethodQuery {
	q.scope.Superclasses = include
	q.scope.Superinterfaces = include
	return q
}

// WithSuperClasses includes or excludes the superclass chain
func (q *MethodQuery) WithSuperClasses(include bool) *MethodQuery {
	q.scope.Superclasses = include
	return q
}

// WithSuperInterfaces includes or excludes the superinterfaces
func (q *MethodQuery) WithSuperInterfaces(include bool) *MethodQuery {
	q.scope.Superinterfaces = include
	return q
}

func (q *MethodQuery) stream() iter.Seq[model.Method] {
	return hierarchy(Levels(q.owner, q.scope), q.extractor(), q.accept)
}

func (q *MethodQuery) extractor() LevelExtractor[model.Method] {
	if q.identifier == "" {
		return func(level model.Type) iter.Seq[model.Method] {
			return all(level.Methods())
		}
	}
	id := q.identifier
	return func(level model.Type) iter.Seq[model.Method] {
		m, ok := methodByIdentifier(level, id)
		return single(m, ok)
	}
}

func (q *MethodQuery) accept(m model.Method) bool {
	if q.name != "" && m.Name() != q.name {
		return false
	}
	if q.pattern != nil && !q.pattern.MatchString(m.Name()) {
		return false
	}
	if !m.Flags().Has(q.flags) {
		return false
	}
	if q.annotation != "" && !hasAnnotation(m, q.annotation) {
		return false
	}
	return true
}

// methodByIdentifier returns the method declared by level whose erased identifier
// equals id. The name is compared first so the identifier is only built for
// methods that can match.
func methodByIdentifier(level model.Type, id string) (model.Method, bool) {
	name := model.IdentifierName(id)
	for _, m := range level.Methods() {
		if m.Name() != name {
			continue
		}
		if m.Identifier(true) == id {
			return m, true
		}
	}
	return nil, false
}

// methodWithParameter returns the first method declared by level with the name of
// owner and a parameter at index of the same type as the owner's
func methodWithParameter(level model.Type, owner model.Method, index int) (model.Method, bool) {
	for _, m := range level.Methods() {
		if m.Name() == owner.Name() && model.SameParameterType(owner, m, index) {
			return m, true
		}
	}
	return nil, false
}
