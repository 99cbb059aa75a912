package model

import (
	"sort"

	"github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/utils"
)

// Index looks up types by qualified name. Inner types are indexed under
// Outer.Inner. It is safe for concurrent use.
type Index struct {
	types *utils.BaseRegistry[string, Type]
}

// NewIndex creates an empty index
func NewIndex() *Index {
	reg := utils.NewBaseRegistry[string, Type]("type", "qualified type name")
	reg.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[Type]("qualified type name"),
		utils.NoDuplicateValidator[string, Type]("type"),
	))
	return &Index{types: reg}
}

// Add registers a type and, recursively, its inner types
func (x *Index) Add(t Type) error {
	if err := x.types.Register(t.QualifiedName(), t); err != nil {
		return errors.NewDuplicateError("type", t.QualifiedName()).WithCause(err)
	}
	for _, inner := range t.InnerTypes() {
		if err := x.Add(inner); err != nil {
			return err
		}
	}
	return nil
}

// MustAdd is Add for fixtures; it panics on duplicates
func (x *Index) MustAdd(types ...Type) *Index {
	for _, t := range types {
		if err := x.Add(t); err != nil {
			panic(err)
		}
	}
	return x
}

// Lookup returns the type registered under a qualified name
func (x *Index) Lookup(qualifiedName string) (Type, bool) {
	return x.types.Get(qualifiedName)
}

// Len returns the number of indexed types
func (x *Index) Len() int {
	return x.types.Size()
}

// Types returns all indexed types sorted by qualified name
func (x *Index) Types() []Type {
	types := x.types.Values()
	sort.Slice(types, func(i, j int) bool {
		return types[i].QualifiedName() < types[j].QualifiedName()
	})
	return types
}
