package query

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/hierq/internal/model"
)

func TestMethodQuery_SelfOnlyByDefault(t *testing.T) {
	f := newHierarchyFixture()

	methods := Methods(f.child).Collect()
	assert.Equal(t, []string{"com.acme.Child", "com.acme.Child"}, declaringNames(methods))
}

func TestMethodQuery_InheritedWithAnnotation(t *testing.T) {
	f := newHierarchyFixture()

	methods := Methods(f.child).WithSuperTypes(true).WithAnnotation(annX).Collect()
	require.Len(t, methods, 1)
	assert.Same(t, f.baseMethod, methods[0])
}

func TestMethodQuery_ByName(t *testing.T) {
	f := newHierarchyFixture()

	methods := Methods(f.child).WithSuperTypes(true).WithName("method").Collect()
	assert.Equal(t, []string{"com.acme.Child", "com.acme.Child", "com.acme.Base", "com.acme.R"}, declaringNames(methods))
}

func TestMethodQuery_NamePatternCombinesWithName(t *testing.T) {
	f := newHierarchyFixture()

	byPattern := Methods(f.child).WithSuperInterfaces(true).WithNamePattern(regexp.MustCompile(`^desc`)).Collect()
	assert.Equal(t, []string{"com.acme.I", "com.acme.B"}, declaringNames(byPattern))

	both := Methods(f.child).WithSuperInterfaces(true).
		WithNamePattern(regexp.MustCompile(`^desc`)).
		WithName("method").
		Collect()
	assert.Empty(t, both)
}

func TestMethodQuery_Flags(t *testing.T) {
	f := newHierarchyFixture()

	abstract := Methods(f.child).WithSuperTypes(true).WithFlags(model.FlagPublic | model.FlagAbstract).Collect()
	assert.Equal(t, []string{"com.acme.I", "com.acme.B", "com.acme.R"}, declaringNames(abstract))
}

func TestMethodQuery_Identifier(t *testing.T) {
	f := newHierarchyFixture()

	q := Methods(f.child).WithSuperTypes(true).WithMethodIdentifier("method(String)")
	methods := q.Collect()
	assert.Equal(t, []string{"com.acme.Child", "com.acme.Base", "com.acme.R"}, declaringNames(methods))

	overload, ok := Methods(f.child).WithMethodIdentifier("method(String,int)").First()
	require.True(t, ok)
	assert.Same(t, f.childOverload, overload)

	assert.False(t, Methods(f.child).WithSuperTypes(true).WithMethodIdentifier("method(int)").ExistsAny())
}

func TestMethodQuery_SuperClassesOnly(t *testing.T) {
	f := newHierarchyFixture()

	methods := Methods(f.child).WithSuperClasses(true).Collect()
	assert.Equal(t, []string{"com.acme.Child", "com.acme.Child", "com.acme.Base"}, declaringNames(methods))
}
