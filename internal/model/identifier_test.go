package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethodIdentifier(t *testing.T) {
	owner := NewType("com.acme.Service", FlagPublic)
	owner.AddTypeParameter("T")

	tests := []struct {
		name   string
		method *MethodDecl
		erased string
		raw    string
	}{
		{
			name:   "no parameters",
			method: owner.AddMethod("run", FlagPublic),
			erased: "run()",
			raw:    "run()",
		},
		{
			name:   "plain",
			method: owner.AddMethod("run", FlagPublic, Param("a", "String"), Param("b", "int")),
			erased: "run(String,int)",
			raw:    "run(String,int)",
		},
		{
			name:   "generic argument",
			method: owner.AddMethod("all", FlagPublic, Param("items", "java.util.List<String>")),
			erased: "all(java.util.List)",
			raw:    "all(java.util.List<String>)",
		},
		{
			name:   "class type variable",
			method: owner.AddMethod("put", FlagPublic, Param("value", "T")),
			erased: "put(java.lang.Object)",
			raw:    "put(T)",
		},
		{
			name: "bounded method type variable",
			method: owner.AddMethod("sum", FlagPublic, Param("value", "N")).
				AddTypeParameter("N", MustParseTypeRef("Number")),
			erased: "sum(Number)",
			raw:    "sum(N)",
		},
		{
			name:   "varargs",
			method: owner.AddMethod("log", FlagPublic, Param("format", "String"), Param("args", "Object...")),
			erased: "log(String,Object[])",
			raw:    "log(String,Object[])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.erased, tt.method.Identifier(true))
			assert.Equal(t, tt.raw, tt.method.Identifier(false))
		})
	}
}

func TestMethodIdentifier_Stability(t *testing.T) {
	a := NewType("p.A", 0)
	b := NewType("p.B", 0)

	fooString := a.AddMethod("foo", 0, Param("s", "String"))
	fooInt := a.AddMethod("foo", 0, Param("i", "int"))
	assert.NotEqual(t, fooString.Identifier(true), fooInt.Identifier(true))

	returnsInt := b.AddMethod("foo", FlagStatic, Param("other", "String")).Returns(MustParseTypeRef("int"))
	assert.Equal(t, fooString.Identifier(true), returnsInt.Identifier(true), "return type, flags and parameter names are not part of the identity")

	varargs := b.AddMethod("bar", 0, Param("x", "String..."))
	array := a.AddMethod("bar", 0, Param("x", "String[]"))
	assert.Equal(t, varargs.Identifier(true), array.Identifier(true))
	assert.True(t, varargs.Flags().Has(FlagVarargs))
	assert.False(t, array.Flags().Has(FlagVarargs))
}

func TestTypeVariables_EnclosingTypes(t *testing.T) {
	outer := NewType("p.Outer", 0)
	outer.AddTypeParameter("K", MustParseTypeRef("CharSequence"))
	inner := outer.AddInnerType("Inner", 0)
	m := inner.AddMethod("get", 0, Param("key", "K"))

	bounds, ok := TypeVariables(m)("K")
	assert.True(t, ok)
	assert.Equal(t, "CharSequence", bounds[0].String())
	assert.Equal(t, "get(CharSequence)", m.Identifier(true))

	_, ok = TypeVariables(m)("V")
	assert.False(t, ok)
}

func TestIdentifierName(t *testing.T) {
	assert.Equal(t, "run", IdentifierName("run(String,int)"))
	assert.Equal(t, "run", IdentifierName("run"))
}

func TestOverrideEquivalent(t *testing.T) {
	generic := NewType("p.Handler", FlagInterface)
	generic.AddTypeParameter("T")
	handleT := generic.AddMethod("handle", FlagAbstract, Param("value", "T"), Param("count", "int"))

	impl := NewType("p.Impl", 0)
	handleString := impl.AddMethod("handle", 0, Param("value", "String"), Param("count", "int"))
	handleLong := impl.AddMethod("handle", 0, Param("value", "String"), Param("count", "long"))
	handleOne := impl.AddMethod("handle", 0, Param("value", "String"))
	other := impl.AddMethod("other", 0, Param("value", "String"), Param("count", "int"))

	assert.True(t, OverrideEquivalent(handleString, handleT))
	assert.True(t, OverrideEquivalent(handleT, handleString))
	assert.False(t, OverrideEquivalent(handleLong, handleT))
	assert.False(t, OverrideEquivalent(handleOne, handleT))
	assert.False(t, OverrideEquivalent(other, handleT))
	assert.False(t, OverrideEquivalent(nil, handleT))
}

func TestSameParameterType(t *testing.T) {
	generic := NewType("p.Handler", FlagInterface)
	generic.AddTypeParameter("T")
	handleT := generic.AddMethod("handle", FlagAbstract, Param("value", "T"))

	impl := NewType("p.Impl", 0)
	run := impl.AddMethod("run", 0, Param("s", "java.util.List<String>"), Param("n", "int"))
	runRaw := impl.AddMethod("run", 0, Param("s", "java.util.List"))
	runInt := impl.AddMethod("run", 0, Param("n", "int"))

	assert.True(t, SameParameterType(run, runRaw, 0), "erasure drops type arguments")
	assert.False(t, SameParameterType(run, runInt, 0))
	assert.False(t, SameParameterType(run, runRaw, 1), "runRaw has no parameter 1")
	assert.False(t, SameParameterType(run, runRaw, -1))
	assert.True(t, SameParameterType(handleT, runInt, 0), "type variables match any type")
}
