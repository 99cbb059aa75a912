package query

import (
	"iter"

	"github.com/toyz/hierq/internal/model"
)

// innerTypeCriteria is the filter state shared by the inner type queries
type innerTypeCriteria struct {
	name       string
	simpleName string
	flags      model.Flags
	instanceOf string
	recursive  bool
}

func (c *innerTypeCriteria) accept(t model.Type) bool {
	if !typeMatches(t, c.name, c.simpleName, c.flags) {
		return false
	}
	return c.instanceOf == "" || isInstanceOf(t, c.instanceOf)
}

// extract yields the inner types of a level; when recursive, each inner type is
// followed by its own inner types before its next sibling.
func (c *innerTypeCriteria) extract(level model.Type) iter.Seq[model.Type] {
	if !c.recursive {
		return all(level.InnerTypes())
	}
	return func(yield func(model.Type) bool) {
		descend(level, yield)
	}
}

func descend(t model.Type, yield func(model.Type) bool) bool {
	for _, inner := range t.InnerTypes() {
		if !yield(inner) || !descend(inner, yield) {
			return false
		}
	}
	return true
}

// InnerTypeQuery finds the member types declared by one type
type InnerTypeQuery struct {
	Query[model.Type]
	innerTypeCriteria

	owner model.Type
}

// InnerTypes creates a query over the inner types declared directly by owner
func InnerTypes(owner model.Type) *InnerTypeQuery {
	q := &InnerTypeQuery{owner: owner}
	q.source = q.stream
	return q
}

// WithName keeps inner types with exactly this qualified name
func (q *InnerTypeQuery) WithName(qualifiedName string) *InnerTypeQuery {
	q.name = qualifiedName
	return q
}

// WithSimpleName keeps inner types with this simple name
func (q *InnerTypeQuery) WithSimpleName(simpleName string) *InnerTypeQuery {
	q.simpleName = simpleName
	return q
}

// WithFlags keeps inner types that have all the given flags
func (q *InnerTypeQuery) WithFlags(flags model.Flags) *InnerTypeQuery {
	q.flags = flags
	return q
}

// WithInstanceOf keeps inner types that are, or inherit from, the named type
func (q *InnerTypeQuery) WithInstanceOf(qualifiedName string) *InnerTypeQuery {
	q.instanceOf = qualifiedName
	return q
}

// WithRecursive also searches the inner types of inner types, at any depth
func (q *InnerTypeQuery) WithRecursive(recursive bool) *InnerTypeQuery {
	q.recursive = recursive
	return q
}

func (q *InnerTypeQuery) stream() iter.Seq[model.Type] {
	return hierarchy(Levels(q.owner, Scope{Self: true}), q.extract, q.accept)
}

// HierarchyInnerTypeQuery finds inner types declared by a type and its ancestors,
// nearest ancestor first. Superclasses are searched by default.
type HierarchyInnerTypeQuery struct {
	Query[model.Type]
	innerTypeCriteria

	owner model.Type
	scope Scope
}

// HierarchyInnerTypes creates a query over the inner types of owner and its superclasses
func HierarchyInnerTypes(owner model.Type) *HierarchyInnerTypeQuery {
	q := &HierarchyInnerTypeQuery{owner: owner, scope: Scope{Self: true, Superclasses: true}}
	q.source = q.stream
	return q
}

// WithName keeps inner types with exactly this qualified name
func (q *HierarchyInnerTypeQuery) WithName(qualifiedName string) *HierarchyInnerTypeQuery {
	q.name = qualifiedName
	return q
}

// WithSimpleName keeps inner types with this simple name
func (q *HierarchyInnerTypeQuery) WithSimpleName(simpleName string) *HierarchyInnerTypeQuery {
	q.simpleName = simpleName
	return q
}

// WithFlags keeps inner types that have all the given flags
func (q *HierarchyInnerTypeQuery) WithFlags(flags model.Flags) *HierarchyInnerTypeQuery {
	q.flags = flags
	return q
}

// WithInstanceOf keeps inner types that are, or inherit from, the named type
func (q *HierarchyInnerTypeQuery) WithInstanceOf(qualifiedName string) *HierarchyInnerTypeQuery {
	q.instanceOf = qualifiedName
	return q
}

// WithRecursive also searches the inner types of inner types, at any depth
func (q *HierarchyInnerTypeQuery) WithRecursive(recursive bool) *HierarchyInnerTypeQuery {
	q.recursive = recursive
	return q
}

// WithSuperTypes includes or excludes superclasses and superinterfaces together
func (q *HierarchyInnerTypeQuery) WithSuperTypes(include bool) *HierarchyInnerTypeQuery {
	q.scope.Superclasses = include
	q.scope.Superinterfaces = include
	return q
}

// WithSuperClasses includes or excludes the superclass chain
func (q *HierarchyInnerTypeQuery) WithSuperClasses(include bool) *HierarchyInnerTypeQuery {
	q.scope.Superclasses = include
	return q
}

// WithSuperInterfaces includes or excludes the superinterfaces
func (q *HierarchyInnerTypeQuery) WithSuperInterfaces(include bool) *HierarchyInnerTypeQuery {
	q.scope.Superinterfaces = include
	return q
}

func (q *HierarchyInnerTypeQuery) stream() iter.Seq[model.Type] {
	return hierarchy(Levels(q.owner, q.scope), q.extract, q.accept)
}
