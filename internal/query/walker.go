package query

import (
	"iter"

	"github.com/toyz/hierq/internal/model"
)

// Scope selects which levels of a hierarchy a walk visits
type Scope struct {
	Self            bool
	Superclasses    bool
	Superinterfaces bool
}

// Levels walks the hierarchy of start. The order is fixed:
//
//  1. start itself, when Self is set
//  2. the superclass chain, nearest first, when Superclasses is set
//  3. the superinterfaces, depth-first and left to right, when Superinterfaces is set
//
// The interface walk starts from the interfaces declared by start and, when
// superclasses are in scope, continues with those declared by each superclass.
// Each interface is yielded once, at its first visit. A nil start yields nothing.
//
// Every call of the returned sequence performs a fresh walk.
func Levels(start model.Type, scope Scope) iter.Seq[model.Type] {
	return func(yield func(model.Type) bool) {
		if start == nil {
			return
		}
		if scope.Self && !yield(start) {
			return
		}
		if scope.Superclasses {
			for super := range superclasses(start) {
				if !yield(super) {
					return
				}
			}
		}
		if scope.Superinterfaces {
			walkInterfaces(start, scope.Superclasses, yield)
		}
	}
}

// superclasses yields the superclass chain of t, nearest first. The chain ends at
// the first type seen before, so a cyclic model built in code cannot loop.
func superclasses(t model.Type) iter.Seq[model.Type] {
	return func(yield func(model.Type) bool) {
		seen := map[string]struct{}{t.ID(): {}}
		for {
			super, ok := t.Superclass()
			if !ok || super == nil {
				return
			}
			if _, dup := seen[super.ID()]; dup {
				return
			}
			seen[super.ID()] = struct{}{}
			if !yield(super) {
				return
			}
			t = super
		}
	}
}

// walkInterfaces runs a preorder DFS with an explicit stack. The visited set lives
// only as long as this walk and starts out holding start.
func walkInterfaces(start model.Type, viaSuperclasses bool, yield func(model.Type) bool) bool {
	visited := map[string]struct{}{start.ID(): {}}
	var stack []model.Type

	roots := func(t model.Type) bool {
		declared := t.Superinterfaces()
		for i := len(declared) - 1; i >= 0; i-- {
			stack = append(stack, declared[i])
		}
		for len(stack) > 0 {
			next := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if next == nil {
				continue
			}
			if _, seen := visited[next.ID()]; seen {
				continue
			}
			visited[next.ID()] = struct{}{}
			if !yield(next) {
				return false
			}
			supers := next.Superinterfaces()
			for i := len(supers) - 1; i >= 0; i-- {
				stack = append(stack, supers[i])
			}
		}
		return true
	}

	if !roots(start) {
		return false
	}
	if viaSuperclasses {
		for super := range superclasses(start) {
			if !roots(super) {
				return false
			}
		}
	}
	return true
}
