package inspect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hierrors "github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/loader"
)

const fixture = `
types:
  - name: com.acme.Named
    kind: interface
    methods:
      - name: name
        returns: String
        modifiers: [public, abstract]
  - name: com.acme.Base
    modifiers: [public, abstract]
    implements: com.acme.Named
    typeParameters:
      - name: T
    annotations:
      - name: hierq.Description
        values: {value: Base entity}
      - com.acme.Entity
    fields:
      - name: id
        type: long
        modifiers: private
    methods:
      - name: handle
        parameters:
          - name: value
            type: T
            annotations: [hierq.NotNull]
      - name: name
        returns: String
        modifiers: public
    innerTypes:
      - name: Builder
        modifiers: [public, static]
  - name: com.acme.Child
    extends: com.acme.Base
    fields:
      - name: label
        type: String
    methods:
      - name: handle
        parameters:
          - {name: value, type: String}
      - name: name
        returns: String
        modifiers: public
`

func newInspector(t *testing.T) *Inspector {
	t.Helper()
	result, err := loader.New(loader.Options{Strict: true}).LoadBytes("model.yaml", []byte(fixture))
	require.NoError(t, err)
	return New(result.Index, nil)
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func owners(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Owner
	}
	return out
}

func intPtr(n int) *int { return &n }

func TestInspector_Types(t *testing.T) {
	in := newInspector(t)

	rows, err := in.Types(Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Base", "com.acme.Base.Builder", "com.acme.Child", "com.acme.Named"}, names(rows))

	assert.Equal(t, Row{Kind: "class", Name: "com.acme.Base", Detail: "public abstract", Description: "Base entity"}, rows[0])
	assert.Equal(t, "com.acme.Base", rows[1].Owner)
	assert.Equal(t, Row{Kind: "interface", Name: "com.acme.Named"}, rows[3])

	tests := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{"pattern", Options{Pattern: "Child$"}, []string{"com.acme.Child"}},
		{"simple name", Options{SimpleName: "Builder"}, []string{"com.acme.Base.Builder"}},
		{"annotation", Options{Annotation: "com.acme.Entity"}, []string{"com.acme.Base"}},
		{"namespace annotation", Options{Annotation: "Description"}, []string{"com.acme.Base"}},
		{"instance of", Options{InstanceOf: "com.acme.Named"}, []string{"com.acme.Base", "com.acme.Child", "com.acme.Named"}},
		{"modifiers", Options{Modifiers: []string{"static"}}, []string{"com.acme.Base.Builder"}},
		{"limit", Options{Limit: 2}, []string{"com.acme.Base", "com.acme.Base.Builder"}},
		{"index", Options{Index: intPtr(2)}, []string{"com.acme.Child"}},
		{"index past end", Options{Index: intPtr(9)}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := in.Types(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(rows))
		})
	}
}

func TestInspector_Supertypes(t *testing.T) {
	in := newInspector(t)

	tests := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{"default", Options{}, []string{"com.acme.Child", "com.acme.Base", "com.acme.Named"}},
		{"exclude self", Options{ExcludeSelf: true}, []string{"com.acme.Base", "com.acme.Named"}},
		{"classes", Options{Scope: ScopeClasses}, []string{"com.acme.Child", "com.acme.Base"}},
		{"self", Options{Scope: ScopeSelf}, []string{"com.acme.Child"}},
		{"abstract", Options{Modifiers: []string{"abstract"}}, []string{"com.acme.Base", "com.acme.Named"}},
		{"first", Options{ExcludeSelf: true, Index: intPtr(0)}, []string{"com.acme.Base"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := in.Supertypes("com.acme.Child", tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(rows))
		})
	}
}

func TestInspector_Methods(t *testing.T) {
	in := newInspector(t)

	rows, err := in.Methods("com.acme.Child", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"handle(String)", "name()"}, names(rows))
	assert.Equal(t, "public String", rows[1].Detail)

	rows, err = in.Methods("com.acme.Child", Options{Scope: ScopeAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"handle(String)", "name()", "handle(T)", "name()", "name()"}, names(rows))
	assert.Equal(t, []string{"com.acme.Child", "com.acme.Child", "com.acme.Base", "com.acme.Base", "com.acme.Named"}, owners(rows))

	rows, err = in.Methods("com.acme.Child", Options{Scope: ScopeAll, Identifier: "name()"})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Child", "com.acme.Base", "com.acme.Named"}, owners(rows))

	rows, err = in.Methods("com.acme.Child", Options{Scope: ScopeClasses, Pattern: "^h"})
	require.NoError(t, err)
	assert.Equal(t, []string{"handle(String)", "handle(T)"}, names(rows))

	rows, err = in.Methods("com.acme.Child", Options{Scope: ScopeAll, Modifiers: []string{"abstract"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Named"}, owners(rows))
}

func TestInspector_Fields(t *testing.T) {
	in := newInspector(t)

	rows, err := in.Fields("com.acme.Child", Options{Scope: ScopeClasses})
	require.NoError(t, err)
	assert.Equal(t, []string{"label", "id"}, names(rows))
	assert.Equal(t, "private long", rows[1].Detail)

	rows, err = in.Fields("com.acme.Child", Options{Name: "id"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInspector_InnerTypes(t *testing.T) {
	in := newInspector(t)

	rows, err := in.InnerTypes("com.acme.Child", Options{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = in.InnerTypes("com.acme.Child", Options{Scope: ScopeClasses})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Base.Builder"}, names(rows))

	_, err = in.InnerTypes("com.acme.Child", Options{Scope: "up"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hierrors.ErrPrecondition))
}

func TestInspector_InnerTypesOfInterfaces(t *testing.T) {
	doc := `
types:
  - name: p.Keyed
    kind: interface
    innerTypes:
      - name: Key
        modifiers: [public, static]
  - name: p.Base
    implements: p.Keyed
    innerTypes:
      - name: Builder
  - name: p.Child
    extends: p.Base
`
	result, err := loader.New(loader.Options{Strict: true}).LoadBytes("model.yaml", []byte(doc))
	require.NoError(t, err)
	in := New(result.Index, nil)

	tests := []struct {
		name     string
		typeName string
		scope    string
		expected []string
	}{
		{"interfaces of the type", "p.Base", ScopeInterfaces, []string{"p.Keyed.Key"}},
		{"interfaces of superclasses need classes", "p.Child", ScopeInterfaces, []string{}},
		{"all", "p.Child", ScopeAll, []string{"p.Base.Builder", "p.Keyed.Key"}},
		{"all with self", "p.Base", ScopeAll, []string{"p.Base.Builder", "p.Keyed.Key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := in.InnerTypes(tt.typeName, Options{Scope: tt.scope})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(rows))
		})
	}
}

func TestInspector_Annotations(t *testing.T) {
	in := newInspector(t)

	rows, err := in.Annotations("com.acme.Child#handle(String)@0", Options{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = in.Annotations("com.acme.Child#handle(String)@0", Options{Scope: ScopeClasses})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{Kind: "annotation", Name: "@hierq.NotNull", Owner: "com.acme.Base#handle(T)@0"}, rows[0])

	rows, err = in.Annotations("com.acme.Child#handle(String)@0", Options{Scope: ScopeClasses, Annotation: "Other"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = in.Annotations("com.acme.Child", Options{Scope: ScopeAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"@hierq.Description", "@com.acme.Entity"}, names(rows))
	assert.Equal(t, "value=Base entity", rows[0].Detail)

	_, err = in.Annotations("com.acme.Missing", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hierrors.ErrNotFound))
}

func TestInspector_Overrides(t *testing.T) {
	in := newInspector(t)

	rows, err := in.Overrides("com.acme.Child#name()", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Child", "com.acme.Base", "com.acme.Named"}, owners(rows))

	rows, err = in.Overrides("com.acme.Child#name()", Options{ExcludeSelf: true, Scope: ScopeClasses})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Base"}, owners(rows))

	rows, err = in.Overrides("com.acme.Base#name()", Options{ExcludeSelf: true, Scope: ScopeInterfaces})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Named"}, owners(rows))

	rows, err = in.Overrides("com.acme.Child#handle(String)", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Child"}, owners(rows), "erased identifiers differ")

	rows, err = in.Overrides("com.acme.Child#handle(String)", Options{Equivalence: EquivalenceOverride})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Child", "com.acme.Base"}, owners(rows))

	_, err = in.Overrides("com.acme.Child#label", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hierrors.ErrPrecondition))

	_, err = in.Overrides("com.acme.Child#name()", Options{Equivalence: "fuzzy"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hierrors.ErrPrecondition))
}

func TestInspector_Describe(t *testing.T) {
	in := newInspector(t)

	text, err := in.Describe("com.acme.Child")
	require.NoError(t, err)
	assert.Equal(t, "Base entity", text, "inherited from the superclass")

	text, err = in.Describe("com.acme.Named")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestInspector_Errors(t *testing.T) {
	in := newInspector(t)

	_, err := in.Methods("Child", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hierrors.ErrNotFound))
	var herr hierrors.HierqError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, []string{"did you mean com.acme.Child?"}, herr.Suggestions())

	_, err = in.Methods("com.acme.Child", Options{Scope: "everything"})
	assert.True(t, errors.Is(err, hierrors.ErrPrecondition))

	_, err = in.Methods("com.acme.Child", Options{Pattern: "("})
	assert.True(t, errors.Is(err, hierrors.ErrSyntax))

	_, err = in.Fields("com.acme.Child", Options{Modifiers: []string{"sealed"}})
	assert.True(t, errors.Is(err, hierrors.ErrSyntax))

	_, err = in.Supertypes("com.acme.Child", Options{Index: intPtr(-1)})
	assert.True(t, errors.Is(err, hierrors.ErrPrecondition))

	_, err = in.Types(Options{Index: intPtr(-1)})
	assert.True(t, errors.Is(err, hierrors.ErrPrecondition))
}
