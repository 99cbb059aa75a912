package model

import (
	"maps"

	"github.com/google/uuid"
)

// TypeDecl is the in-memory implementation of Type.
// Declarations are built once and then only read.
type TypeDecl struct {
	id              string
	qualifiedName   string
	flags           Flags
	declaringType   *TypeDecl
	superclass      Type
	superinterfaces []Type
	typeParameters  []TypeParameter
	fields          []Field
	methods         []Method
	innerTypes      []Type
	annotations     []Annotation
}

// NewType creates a top-level type declaration
func NewType(qualifiedName string, flags Flags) *TypeDecl {
	return &TypeDecl{
		id:            uuid.NewString(),
		qualifiedName: qualifiedName,
		flags:         flags,
	}
}

func (t *TypeDecl) Kind() Kind                      { return KindType }
func (t *TypeDecl) ID() string                      { return t.id }
func (t *TypeDecl) Name() string                    { return SimpleNameOf(t.qualifiedName) }
func (t *TypeDecl) QualifiedName() string           { return t.qualifiedName }
func (t *TypeDecl) Flags() Flags                    { return t.flags }
func (t *TypeDecl) Annotations() []Annotation       { return t.annotations }
func (t *TypeDecl) Superinterfaces() []Type         { return t.superinterfaces }
func (t *TypeDecl) TypeParameters() []TypeParameter { return t.typeParameters }
func (t *TypeDecl) Fields() []Field                 { return t.fields }
func (t *TypeDecl) Methods() []Method               { return t.methods }
func (t *TypeDecl) InnerTypes() []Type              { return t.innerTypes }

// DeclaringType returns the enclosing type of an inner type
func (t *TypeDecl) DeclaringType() (Type, bool) {
	if t.declaringType == nil {
		return nil, false
	}
	return t.declaringType, true
}

// Superclass returns the direct superclass, if any
func (t *TypeDecl) Superclass() (Type, bool) {
	if t.superclass == nil {
		return nil, false
	}
	return t.superclass, true
}

// String returns the qualified name
func (t *TypeDecl) String() string {
	return t.qualifiedName
}

// SetSuperclass sets the direct superclass
func (t *TypeDecl) SetSuperclass(super Type) *TypeDecl {
	t.superclass = super
	return t
}

// AddSuperinterface appends a directly implemented or extended interface
func (t *TypeDecl) AddSuperinterface(ifaces ...Type) *TypeDecl {
	t.superinterfaces = append(t.superinterfaces, ifaces...)
	return t
}

// AddTypeParameter declares a type variable on the type
func (t *TypeDecl) AddTypeParameter(name string, bounds ...TypeRef) *TypeDecl {
	t.typeParameters = append(t.typeParameters, TypeParameter{Name: name, Bounds: bounds})
	return t
}

// Annotate attaches an annotation to the type
func (t *TypeDecl) Annotate(qualifiedName string) *AnnotationDecl {
	a := newAnnotation(qualifiedName, t)
	t.annotations = append(t.annotations, a)
	return a
}

// AddField declares a field on the type
func (t *TypeDecl) AddField(name string, fieldType TypeRef, flags Flags) *FieldDecl {
	f := &FieldDecl{name: name, fieldType: fieldType, flags: flags, declaringType: t}
	t.fields = append(t.fields, f)
	return f
}

// AddMethod declares a method on the type. The method takes ownership of params.
func (t *TypeDecl) AddMethod(name string, flags Flags, params ...*ParameterDecl) *MethodDecl {
	m := &MethodDecl{name: name, flags: flags, declaringType: t, returnType: TypeRef{Name: "void"}}
	for i, p := range params {
		p.method = m
		p.index = i
		m.parameters = append(m.parameters, p)
	}
	if n := len(params); n > 0 && params[n-1].paramType.Varargs {
		m.flags |= FlagVarargs
	}
	t.methods = append(t.methods, m)
	return m
}

// AddInnerType declares a member type; its qualified name is derived from the owner
func (t *TypeDecl) AddInnerType(simpleName string, flags Flags) *TypeDecl {
	inner := NewType(t.qualifiedName+"."+simpleName, flags)
	inner.declaringType = t
	t.innerTypes = append(t.innerTypes, inner)
	return inner
}

// MethodDecl is the in-memory implementation of Method
type MethodDecl struct {
	name           string
	flags          Flags
	declaringType  *TypeDecl
	returnType     TypeRef
	parameters     []Parameter
	typeParameters []TypeParameter
	annotations    []Annotation
}

func (m *MethodDecl) Kind() Kind                      { return KindMethod }
func (m *MethodDecl) Name() string                    { return m.name }
func (m *MethodDecl) Flags() Flags                    { return m.flags }
func (m *MethodDecl) Annotations() []Annotation       { return m.annotations }
func (m *MethodDecl) ReturnType() TypeRef             { return m.returnType }
func (m *MethodDecl) Parameters() []Parameter         { return m.parameters }
func (m *MethodDecl) TypeParameters() []TypeParameter { return m.typeParameters }
func (m *MethodDecl) Identifier(erase bool) string    { return MethodIdentifier(m, erase) }
func (m *MethodDecl) String() string                  { return m.declaringType.qualifiedName + "#" + m.Identifier(false) }

// DeclaringType returns the owning type
func (m *MethodDecl) DeclaringType() Type {
	return m.declaringType
}

// ParameterTypes returns the declared parameter types in order
func (m *MethodDecl) ParameterTypes() []TypeRef {
	types := make([]TypeRef, len(m.parameters))
	for i, p := range m.parameters {
		types[i] = p.ParameterType()
	}
	return types
}

// Returns sets the declared return type
func (m *MethodDecl) Returns(ref TypeRef) *MethodDecl {
	m.returnType = ref
	return m
}

// AddTypeParameter declares a method-level type variable
func (m *MethodDecl) AddTypeParameter(name string, bounds ...TypeRef) *MethodDecl {
	m.typeParameters = append(m.typeParameters, TypeParameter{Name: name, Bounds: bounds})
	return m
}

// Annotate attaches an annotation to the method
func (m *MethodDecl) Annotate(qualifiedName string) *AnnotationDecl {
	a := newAnnotation(qualifiedName, m)
	m.annotations = append(m.annotations, a)
	return a
}

// Param returns the parameter declaration at index i
func (m *MethodDecl) Param(i int) *ParameterDecl {
	return m.parameters[i].(*ParameterDecl)
}

// FieldDecl is the in-memory implementation of Field
type FieldDecl struct {
	name          string
	flags         Flags
	fieldType     TypeRef
	declaringType *TypeDecl
	annotations   []Annotation
}

func (f *FieldDecl) Kind() Kind                { return KindField }
func (f *FieldDecl) Name() string              { return f.name }
func (f *FieldDecl) Flags() Flags              { return f.flags }
func (f *FieldDecl) Annotations() []Annotation { return f.annotations }
func (f *FieldDecl) FieldType() TypeRef        { return f.fieldType }
func (f *FieldDecl) DeclaringType() Type       { return f.declaringType }
func (f *FieldDecl) String() string            { return f.declaringType.qualifiedName + "#" + f.name }

// Annotate attaches an annotation to the field
func (f *FieldDecl) Annotate(qualifiedName string) *AnnotationDecl {
	a := newAnnotation(qualifiedName, f)
	f.annotations = append(f.annotations, a)
	return a
}

// ParameterDecl is the in-memory implementation of Parameter
type ParameterDecl struct {
	name        string
	flags       Flags
	paramType   TypeRef
	index       int
	method      *MethodDecl
	annotations []Annotation
}

// NewParameter creates a parameter to be passed to TypeDecl.AddMethod
func NewParameter(name string, paramType TypeRef) *ParameterDecl {
	return &ParameterDecl{name: name, paramType: paramType}
}

// Param is NewParameter with a type literal that must parse
func Param(name, paramType string) *ParameterDecl {
	return NewParameter(name, MustParseTypeRef(paramType))
}

func (p *ParameterDecl) Kind() Kind                { return KindParameter }
func (p *ParameterDecl) Name() string              { return p.name }
func (p *ParameterDecl) Flags() Flags              { return p.flags }
func (p *ParameterDecl) Annotations() []Annotation { return p.annotations }
func (p *ParameterDecl) Index() int                { return p.index }
func (p *ParameterDecl) ParameterType() TypeRef    { return p.paramType }

// DeclaringMethod returns the owning method, nil until the parameter is added to one
func (p *ParameterDecl) DeclaringMethod() Method {
	if p.method == nil {
		return nil
	}
	return p.method
}

// WithFlags sets parameter modifiers such as final
func (p *ParameterDecl) WithFlags(flags Flags) *ParameterDecl {
	p.flags = flags
	return p
}

// Annotate attaches an annotation to the parameter
func (p *ParameterDecl) Annotate(qualifiedName string) *AnnotationDecl {
	a := newAnnotation(qualifiedName, p)
	p.annotations = append(p.annotations, a)
	return a
}

// AnnotationDecl is the in-memory implementation of Annotation
type AnnotationDecl struct {
	qualifiedName string
	owner         Element
	values        map[string]string
}

func newAnnotation(qualifiedName string, owner Element) *AnnotationDecl {
	return &AnnotationDecl{qualifiedName: qualifiedName, owner: owner}
}

func (a *AnnotationDecl) QualifiedName() string { return a.qualifiedName }
func (a *AnnotationDecl) SimpleName() string    { return SimpleNameOf(a.qualifiedName) }
func (a *AnnotationDecl) Owner() Element        { return a.owner }
func (a *AnnotationDecl) String() string        { return "@" + a.qualifiedName }

// Value returns a single element value
func (a *AnnotationDecl) Value(name string) (string, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Values returns a copy of all element values
func (a *AnnotationDecl) Values() map[string]string {
	return maps.Clone(a.values)
}

// Set stores an element value
func (a *AnnotationDecl) Set(name, value string) *AnnotationDecl {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	a.values[name] = value
	return a
}
