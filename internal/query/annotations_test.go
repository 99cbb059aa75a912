package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hierrors "github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/model"
)

func annotationNames(q *AnnotationQuery) []string {
	var names []string
	for a := range q.Stream() {
		names = append(names, a.QualifiedName())
	}
	return names
}

func TestAnnotationQuery_MethodOwnerResolvedAtSuperclass(t *testing.T) {
	f := newHierarchyFixture()

	q, err := Annotations(f.childMethod)
	require.NoError(t, err)

	assert.Empty(t, annotationNames(q), "child override does not redeclare @X")

	q.WithSuperClasses(true)
	a, ok := q.First()
	require.True(t, ok)
	assert.Equal(t, annX, a.QualifiedName())
	assert.Same(t, f.baseMethod, a.Owner())
}

func TestAnnotationQuery_TypeOwner(t *testing.T) {
	f := newHierarchyFixture()

	q, err := Annotations(f.child)
	require.NoError(t, err)
	assert.Empty(t, annotationNames(q))

	q.WithSuperTypes(true)
	assert.Equal(t, []string{annType}, annotationNames(q))
}

func TestAnnotationQuery_FieldOwner(t *testing.T) {
	f := newHierarchyFixture()
	shadow := f.child.AddField("name", model.MustParseTypeRef("String"), model.FlagPrivate)
	shadow.Annotate(annField).Set("value", "CHILD_NAME")

	q, err := Annotations(shadow)
	require.NoError(t, err)
	q.WithSuperClasses(true).WithName(annField)

	var values []string
	for a := range q.Stream() {
		v, _ := a.Value("value")
		values = append(values, v)
	}
	assert.Equal(t, []string{"CHILD_NAME", "NAME"}, values, "union of all levels, most specific first")
}

func TestAnnotationQuery_FieldMissingAtLevel(t *testing.T) {
	f := newHierarchyFixture()

	q, err := Annotations(f.childCount)
	require.NoError(t, err)
	assert.Empty(t, annotationNames(q.WithSuperTypes(true)))
}

func TestAnnotationQuery_ParameterIndexSemantics(t *testing.T) {
	f := newHierarchyFixture()

	// Base declares method(@NotNull String a). Child overrides it and also
	// declares method(String a, int b). The parameter is found by position on
	// the method the level resolves to.
	overridden, err := Annotations(f.childMethod.Param(0))
	require.NoError(t, err)
	assert.Equal(t, []string{annParam}, annotationNames(overridden.WithSuperClasses(true)))

	wider, err := Annotations(f.childOverload.Param(0))
	require.NoError(t, err)
	assert.Equal(t, []string{annParam}, annotationNames(wider.WithSuperClasses(true)), "index 0 exists on Base.method(String)")

	beyond, err := Annotations(f.childOverload.Param(1))
	require.NoError(t, err)
	assert.Empty(t, annotationNames(beyond.WithSuperClasses(true)), "index 1 does not exist on Base.method(String)")

	selfOnly, err := Annotations(f.childOverload.Param(0))
	require.NoError(t, err)
	assert.Empty(t, annotationNames(selfOnly))

	// Base declares run(@Positive int n) before run(@NotNull String s); only the
	// overload with a String at position 0 stands for Child.run(String, int)
	base := model.NewType("p.Base", 0)
	base.AddMethod("run", 0, model.Param("n", "int")).Param(0).Annotate("p.Positive")
	base.AddMethod("run", 0, model.Param("s", "String")).Param(0).Annotate(annParam)
	child := model.NewType("p.Child", 0).SetSuperclass(base)
	run := child.AddMethod("run", 0, model.Param("s", "String"), model.Param("n", "int"))

	overloaded, err := Annotations(run.Param(0))
	require.NoError(t, err)
	assert.Equal(t, []string{annParam}, annotationNames(overloaded.WithSuperClasses(true)))

	second, err := Annotations(run.Param(1))
	require.NoError(t, err)
	assert.Empty(t, annotationNames(second.WithSuperClasses(true)), "no run on Base has an int at position 1")
}

func TestAnnotationQuery_ParameterOwnLevelFirst(t *testing.T) {
	base := model.NewType("p.Base", 0)
	baseRun := base.AddMethod("run", 0, model.Param("a", "String"))
	baseRun.Param(0).Annotate(annParam)

	child := model.NewType("p.Child", 0).SetSuperclass(base)
	childRun := child.AddMethod("run", 0, model.Param("a", "String"))
	childRun.Param(0).Annotate("p.Other")

	q, err := Annotations(childRun.Param(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"p.Other", annParam}, annotationNames(q.WithSuperTypes(true)))
}

func TestAnnotationQuery_Interfaces(t *testing.T) {
	f := newHierarchyFixture()
	f.interfaceMethod.Annotate("com.acme.Contract")

	q, err := Annotations(f.childMethod)
	require.NoError(t, err)

	assert.Equal(t, []string{annX}, annotationNames(q.WithSuperClasses(true)))
	assert.Equal(t, []string{annX, "com.acme.Contract"}, annotationNames(q.WithSuperInterfaces(true)))
	assert.Equal(t, []string{"com.acme.Contract"}, annotationNames(q.WithName("com.acme.Contract")))
}

type bogusElement struct{}

func (bogusElement) Kind() model.Kind                { return model.KindUnknown }
func (bogusElement) Name() string                    { return "bogus" }
func (bogusElement) Flags() model.Flags              { return 0 }
func (bogusElement) Annotations() []model.Annotation { return nil }

func TestAnnotationQuery_UnsupportedOwner(t *testing.T) {
	q, err := Annotations(bogusElement{})
	require.Error(t, err)
	assert.Nil(t, q)
	assert.True(t, errors.Is(err, hierrors.ErrUnsupportedOwner))

	q, err = Annotations(nil)
	require.Error(t, err)
	assert.Nil(t, q)
	assert.True(t, errors.Is(err, hierrors.ErrPrecondition))
}
