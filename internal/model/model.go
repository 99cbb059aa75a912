// Package model defines the type model the query engine reads: types with their
// superclass and superinterfaces, and the fields, methods, parameters, inner types
// and annotations they declare.
//
// The interfaces are the only surface the query package depends on. The Decl
// types in this package are the in-memory implementation built by code or by the
// loader package.
package model

import "fmt"

// Kind identifies which sort of element a model value is
type Kind int

const (
	KindUnknown Kind = iota
	KindType
	KindMethod
	KindField
	KindParameter
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindParameter:
		return "parameter"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Element is anything that can carry annotations
type Element interface {
	Kind() Kind
	Name() string
	Flags() Flags
	// Annotations returns the annotations declared directly on the element.
	Annotations() []Annotation
}

// Type is a node of the inheritance graph
type Type interface {
	Element
	// ID is unique per declaration and stable for the lifetime of the model.
	ID() string
	QualifiedName() string
	// DeclaringType returns the enclosing type of an inner type.
	DeclaringType() (Type, bool)
	// Superclass is absent for interfaces and for the hierarchy root.
	Superclass() (Type, bool)
	Superinterfaces() []Type
	TypeParameters() []TypeParameter
	Fields() []Field
	Methods() []Method
	InnerTypes() []Type
}

// Method is a method declared by exactly one type
type Method interface {
	Element
	DeclaringType() Type
	ReturnType() TypeRef
	Parameters() []Parameter
	ParameterTypes() []TypeRef
	TypeParameters() []TypeParameter
	// Identifier returns name(T1,T2,...). With erase set, type arguments are
	// dropped and type variables are replaced by the erasure of their bound.
	Identifier(erase bool) string
}

// Field is a field declared by exactly one type
type Field interface {
	Element
	DeclaringType() Type
	FieldType() TypeRef
}

// Parameter is a positional method parameter
type Parameter interface {
	Element
	DeclaringMethod() Method
	Index() int
	ParameterType() TypeRef
}

// Annotation is a single annotation instance on an element
type Annotation interface {
	QualifiedName() string
	SimpleName() string
	Owner() Element
	Value(name string) (string, bool)
	Values() map[string]string
}

// TypeParameter is a declared type variable with its bounds
type TypeParameter struct {
	Name   string
	Bounds []TypeRef
}

// DeclaringTypeOf returns the type that owns an element, or the type itself.
func DeclaringTypeOf(e Element) (Type, bool) {
	switch v := e.(type) {
	case Type:
		return v, true
	case Method:
		return v.DeclaringType(), v.DeclaringType() != nil
	case Field:
		return v.DeclaringType(), v.DeclaringType() != nil
	case Parameter:
		if m := v.DeclaringMethod(); m != nil {
			return m.DeclaringType(), m.DeclaringType() != nil
		}
	}
	return nil, false
}

// SimpleNameOf strips the package and enclosing type prefix of a qualified name
func SimpleNameOf(qualifiedName string) string {
	for i := len(qualifiedName) - 1; i >= 0; i-- {
		if qualifiedName[i] == '.' || qualifiedName[i] == '$' {
			return qualifiedName[i+1:]
		}
	}
	return qualifiedName
}
