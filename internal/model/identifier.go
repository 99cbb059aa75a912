package model

import "strings"

// MethodIdentifier builds the override identity key name(T1,T2,...) of a method.
// Varargs are always rendered as arrays because String... and String[] override
// each other.
func MethodIdentifier(m Method, erase bool) string {
	var b strings.Builder
	b.WriteString(m.Name())
	b.WriteByte('(')

	lookup := TypeVariables(m)
	for i, p := range m.ParameterTypes() {
		if i > 0 {
			b.WriteByte(',')
		}
		if erase {
			p = p.Erasure(lookup)
		} else if p.Varargs {
			p.Varargs = false
			p.Dims++
		}
		b.WriteString(p.String())
	}

	b.WriteByte(')')
	return b.String()
}

// IdentifierName returns the method name part of an identifier
func IdentifierName(identifier string) string {
	if i := strings.IndexByte(identifier, '('); i >= 0 {
		return identifier[:i]
	}
	return identifier
}

// TypeVariables resolves type variable names visible inside a method: its own
// type parameters first, then those of the declaring type and its enclosing types.
func TypeVariables(m Method) TypeVariableLookup {
	return func(name string) ([]TypeRef, bool) {
		for _, tp := range m.TypeParameters() {
			if tp.Name == name {
				return tp.Bounds, true
			}
		}
		t := m.DeclaringType()
		for t != nil {
			for _, tp := range t.TypeParameters() {
				if tp.Name == name {
					return tp.Bounds, true
				}
			}
			outer, ok := t.DeclaringType()
			if !ok {
				break
			}
			t = outer
		}
		return nil, false
	}
}

// OverrideEquivalent reports whether two methods have the same name and the same
// number of parameters whose erased types are pairwise equal. A parameter whose
// declared type is a type variable in either method matches any type at that
// position.
func OverrideEquivalent(a, b Method) bool {
	if a == nil || b == nil || a.Name() != b.Name() {
		return false
	}
	pa, pb := a.ParameterTypes(), b.ParameterTypes()
	if len(pa) != len(pb) {
		return false
	}

	for i := range pa {
		if !SameParameterType(a, b, i) {
			return false
		}
	}
	return true
}

// SameParameterType reports whether both methods declare a parameter at index
// with equal erased types. A type variable in either method matches any type.
func SameParameterType(a, b Method, index int) bool {
	pa, pb := a.ParameterTypes(), b.ParameterTypes()
	if index < 0 || index >= len(pa) || index >= len(pb) {
		return false
	}
	la, lb := TypeVariables(a), TypeVariables(b)
	if isTypeVariable(pa[index], la) || isTypeVariable(pb[index], lb) {
		return true
	}
	return pa[index].Erasure(la).String() == pb[index].Erasure(lb).String()
}

func isTypeVariable(r TypeRef, lookup TypeVariableLookup) bool {
	if r.Wildcard != NoWildcard || strings.Contains(r.Name, ".") {
		return false
	}
	_, ok := lookup(r.Name)
	return ok
}
