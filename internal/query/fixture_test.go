package query

import (
	"github.com/toyz/hierq/internal/model"
)

const (
	annX     = "com.acme.X"
	annParam = "com.acme.NotNull"
	annField = "com.acme.Column"
	annType  = "com.acme.Entity"
)

// hierarchyFixture builds:
//
//	interface I                      { void describe(); }
//	interface A extends I            { }
//	interface B extends I            { void describe(); }
//	interface R                      { void method(String a); }
//	@Entity class Base implements R  { @Column String name; @X void method(@NotNull String a); class Inner {} }
//	class Child extends Base implements A, B {
//	    int count;
//	    void method(String a);
//	    void method(String a, int b);
//	    class Nested { class Deep extends Base.Inner {} }
//	}
type hierarchyFixture struct {
	object, i, a, b, r, base, child *model.TypeDecl

	baseMethod      *model.MethodDecl
	childMethod     *model.MethodDecl
	childOverload   *model.MethodDecl
	baseName        *model.FieldDecl
	childCount      *model.FieldDecl
	baseInner       *model.TypeDecl
	childNested     *model.TypeDecl
	childDeep       *model.TypeDecl
	interfaceMethod *model.MethodDecl
}

func newHierarchyFixture() *hierarchyFixture {
	f := &hierarchyFixture{}

	f.object = model.NewType("java.lang.Object", model.FlagPublic)

	f.i = model.NewType("com.acme.I", model.FlagPublic|model.FlagInterface|model.FlagAbstract)
	f.i.AddMethod("describe", model.FlagPublic|model.FlagAbstract)

	f.a = model.NewType("com.acme.A", model.FlagPublic|model.FlagInterface|model.FlagAbstract)
	f.a.AddSuperinterface(f.i)

	f.b = model.NewType("com.acme.B", model.FlagPublic|model.FlagInterface|model.FlagAbstract)
	f.b.AddSuperinterface(f.i)
	f.b.AddMethod("describe", model.FlagPublic|model.FlagAbstract)

	f.r = model.NewType("com.acme.R", model.FlagPublic|model.FlagInterface|model.FlagAbstract)
	f.interfaceMethod = f.r.AddMethod("method", model.FlagPublic|model.FlagAbstract, model.Param("a", "String"))

	f.base = model.NewType("com.acme.Base", model.FlagPublic)
	f.base.SetSuperclass(f.object).AddSuperinterface(f.r)
	f.base.Annotate(annType)
	f.baseName = f.base.AddField("name", model.MustParseTypeRef("String"), model.FlagPrivate)
	f.baseName.Annotate(annField).Set("value", "NAME")
	f.baseMethod = f.base.AddMethod("method", model.FlagPublic, model.Param("a", "String"))
	f.baseMethod.Annotate(annX)
	f.baseMethod.Param(0).Annotate(annParam)
	f.baseInner = f.base.AddInnerType("Inner", model.FlagPublic|model.FlagStatic)

	f.child = model.NewType("com.acme.Child", model.FlagPublic)
	f.child.SetSuperclass(f.base).AddSuperinterface(f.a, f.b)
	f.childCount = f.child.AddField("count", model.MustParseTypeRef("int"), model.FlagPrivate)
	f.childMethod = f.child.AddMethod("method", model.FlagPublic, model.Param("a", "String"))
	f.childOverload = f.child.AddMethod("method", model.FlagPublic, model.Param("a", "String"), model.Param("b", "int"))
	f.childNested = f.child.AddInnerType("Nested", model.FlagPublic)
	f.childDeep = f.childNested.AddInnerType("Deep", model.FlagPublic)
	f.childDeep.SetSuperclass(f.baseInner)

	return f
}

func qualifiedNames(types []model.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.QualifiedName()
	}
	return names
}

func declaringNames[M interface{ DeclaringType() model.Type }](members []M) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.DeclaringType().QualifiedName()
	}
	return names
}

// countingType counts how often the members of a level are read
type countingType struct {
	model.Type
	methodReads *int
}

func (c countingType) Methods() []model.Method {
	*c.methodReads++
	return c.Type.Methods()
}

// untouchable fails the test run if the query reads anything from it
type untouchable struct {
	model.Type
}
