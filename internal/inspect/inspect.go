// Package inspect answers the questions the CLI and the HTTP server ask about a
// loaded model. Each operation resolves its subject in the index, configures the
// matching query from Options and returns flat Rows ready for rendering.
package inspect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/toyz/hierq/internal/config"
	"github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/model"
	"github.com/toyz/hierq/internal/query"
)

// Scope names accepted by Options.Scope
const (
	ScopeSelf       = "self"
	ScopeClasses    = "classes"
	ScopeInterfaces = "interfaces"
	ScopeAll        = "all"
)

// Equivalence names accepted by Options.Equivalence
const (
	EquivalenceIdentifier = "identifier"
	EquivalenceOverride   = "override"
)

// Row is one query result
type Row struct {
	Kind        string `json:"kind" yaml:"kind"`
	Name        string `json:"name" yaml:"name"`
	Owner       string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Detail      string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Options narrows an inspection. Zero values mean no restriction.
type Options struct {
	Name        string   // exact member or qualified type name
	Pattern     string   // regular expression on the name
	SimpleName  string   // simple type name
	Modifiers   []string // required modifiers, e.g. public, abstract
	Annotation  string   // required annotation; bare names are qualified with the namespace
	Identifier  string   // method identifier, e.g. run(java.lang.String,int)
	InstanceOf  string   // inner types assignable to this type
	Scope       string   // self, classes, interfaces or all; empty uses the operation default
	Recursive   bool     // inner types of inner types
	ExcludeSelf bool     // supertypes and overrides without the subject
	Equivalence string   // identifier or override
	Limit       int      // maximum rows; 0 is unlimited
	Index       *int     // return only the n-th result
}

// DescriptionAnnotation is the managed view of the namespace's Description
// annotation, shown next to types.
type DescriptionAnnotation struct {
	Text string
}

// Inspector runs inspections against one model
type Inspector struct {
	index       *model.Index
	cfg         *config.Config
	description query.ManagedWrapper[DescriptionAnnotation]
}

// New creates an inspector; a nil cfg uses config.Default()
func New(index *model.Index, cfg *config.Config) *Inspector {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Inspector{
		index: index,
		cfg:   cfg,
		description: query.NewManagedWrapper(cfg.Namespace, func(a model.Annotation) DescriptionAnnotation {
			text, _ := a.Value("value")
			return DescriptionAnnotation{Text: text}
		}),
	}
}

// Types lists the model's types in name order
func (in *Inspector) Types(opts Options) ([]Row, error) {
	pattern, err := compilePattern(opts.Pattern)
	if err != nil {
		return nil, err
	}
	flags, err := model.ParseFlags(opts.Modifiers...)
	if err != nil {
		return nil, err
	}
	annotation := in.cfg.QualifyAnnotation(opts.Annotation)

	var rows []Row
	for _, t := range in.index.Types() {
		if pattern != nil && !pattern.MatchString(t.QualifiedName()) {
			continue
		}
		if opts.SimpleName != "" && t.Name() != opts.SimpleName {
			continue
		}
		if !t.Flags().Has(flags) {
			continue
		}
		if annotation != "" && !in.hasAnnotation(t, annotation) {
			continue
		}
		if opts.InstanceOf != "" && !query.Supertypes(t).WithName(opts.InstanceOf).ExistsAny() {
			continue
		}
		rows = append(rows, in.typeRow(t))
	}
	return limit(rows, opts)
}

// Supertypes lists the type named name and its ancestors in walk order
func (in *Inspector) Supertypes(name string, opts Options) ([]Row, error) {
	t, err := in.lookupType(name)
	if err != nil {
		return nil, err
	}
	flags, err := model.ParseFlags(opts.Modifiers...)
	if err != nil {
		return nil, err
	}
	scope, err := parseScope(opts.Scope, query.Scope{Superclasses: true, Superinterfaces: true})
	if err != nil {
		return nil, err
	}

	q := query.Supertypes(t).
		WithSelf(!opts.ExcludeSelf).
		WithSuperClasses(scope.Superclasses).
		WithSuperInterfaces(scope.Superinterfaces).
		WithName(opts.Name).
		WithSimpleName(opts.SimpleName).
		WithFlags(flags)
	return collect(&q.Query, opts, in.typeRow)
}

// Methods lists the methods of the type named name
func (in *Inspector) Methods(name string, opts Options) ([]Row, error) {
	t, err := in.lookupType(name)
	if err != nil {
		return nil, err
	}
	flags, err := model.ParseFlags(opts.Modifiers...)
	if err != nil {
		return nil, err
	}
	pattern, err := compilePattern(opts.Pattern)
	if err != nil {
		return nil, err
	}
	scope, err := parseScope(opts.Scope, query.Scope{})
	if err != nil {
		return nil, err
	}

	q := query.Methods(t).
		WithSuperClasses(scope.Superclasses).
		WithSuperInterfaces(scope.Superinterfaces).
		WithName(opts.Name).
		WithNamePattern(pattern).
		WithFlags(flags).
		WithAnnotation(in.cfg.QualifyAnnotation(opts.Annotation)).
		WithMethodIdentifier(opts.Identifier)
	return collect(&q.Query, opts, methodRow)
}

// Fields lists the fields of the type named name
func (in *Inspector) Fields(name string, opts Options) ([]Row, error) {
	t, err := in.lookupType(name)
	if err != nil {
		return nil, err
	}
	flags, err := model.ParseFlags(opts.Modifiers...)
	if err != nil {
		return nil, err
	}
	scope, err := parseScope(opts.Scope, query.Scope{})
	if err != nil {
		return nil, err
	}

	q := query.Fields(t).
		WithSuperClasses(scope.Superclasses).
		WithSuperInterfaces(scope.Superinterfaces).
		WithName(opts.Name).
		WithFlags(flags).
		WithAnnotation(in.cfg.QualifyAnnotation(opts.Annotation))
	return collect(&q.Query, opts, fieldRow)
}

// InnerTypes lists the inner types of the type named name. With the classes
// scope, an inner type name is resolved to the nearest superclass declaring it.
func (in *Inspector) InnerTypes(name string, opts Options) ([]Row, error) {
	t, err := in.lookupType(name)
	if err != nil {
		return nil, err
	}
	flags, err := model.ParseFlags(opts.Modifiers...)
	if err != nil {
		return nil, err
	}
	scope, err := parseScope(opts.Scope, query.Scope{})
	if err != nil {
		return nil, err
	}
	if !scope.Superclasses && !scope.Superinterfaces {
		q := query.InnerTypes(t).
			WithName(opts.Name).
			WithSimpleName(opts.SimpleName).
			WithFlags(flags).
			WithInstanceOf(opts.InstanceOf).
			WithRecursive(opts.Recursive)
		return collect(&q.Query, opts, in.typeRow)
	}

	q := query.HierarchyInnerTypes(t).
		WithSuperClasses(scope.Superclasses).
		WithSuperInterfaces(scope.Superinterfaces).
		WithName(opts.Name).
		WithSimpleName(opts.SimpleName).
		WithFlags(flags).
		WithInstanceOf(opts.InstanceOf).
		WithRecursive(opts.Recursive)
	return collect(&q.Query, opts, in.typeRow)
}

// Annotations lists the annotations of the element addressed by selector
func (in *Inspector) Annotations(selector string, opts Options) ([]Row, error) {
	element, err := in.index.Resolve(selector)
	if err != nil {
		return nil, err
	}
	scope, err := parseScope(opts.Scope, query.Scope{})
	if err != nil {
		return nil, err
	}

	q, err := query.Annotations(element)
	if err != nil {
		return nil, err
	}
	q.WithSuperClasses(scope.Superclasses).
		WithSuperInterfaces(scope.Superinterfaces).
		WithName(in.cfg.QualifyAnnotation(opts.Annotation))
	return collect(&q.Query, opts, annotationRow)
}

// Overrides lists the method addressed by selector and the methods it overrides
func (in *Inspector) Overrides(selector string, opts Options) ([]Row, error) {
	element, err := in.index.Resolve(selector)
	if err != nil {
		return nil, err
	}
	m, ok := element.(model.Method)
	if !ok {
		return nil, errors.NewPreconditionError("overrides", "selector does not address a method").
			WithContext("selector", selector).
			WithContext("kind", element.Kind().String())
	}
	flags, err := model.ParseFlags(opts.Modifiers...)
	if err != nil {
		return nil, err
	}
	scope, err := parseScope(opts.Scope, query.Scope{Superclasses: true, Superinterfaces: true})
	if err != nil {
		return nil, err
	}

	q := query.SuperMethods(m).
		WithSelf(!opts.ExcludeSelf).
		WithSuperClasses(scope.Superclasses).
		WithSuperInterfaces(scope.Superinterfaces).
		WithFlags(flags).
		WithAnnotation(in.cfg.QualifyAnnotation(opts.Annotation))

	switch strings.ToLower(opts.Equivalence) {
	case "", EquivalenceIdentifier:
	case EquivalenceOverride:
		q.WithMatcher(query.OverrideEquivalence)
	default:
		return nil, errors.Newf(errors.PreconditionErrorCode, "unknown equivalence '%s'", opts.Equivalence).
			WithSuggestion("use identifier or override")
	}
	return collect(&q.Query, opts, methodRow)
}

// Describe returns the Description annotation text of the type named name,
// searching its superclasses when the type has none.
func (in *Inspector) Describe(name string) (string, error) {
	t, err := in.lookupType(name)
	if err != nil {
		return "", err
	}
	return in.describe(t, true), nil
}

func (in *Inspector) describe(t model.Type, inherited bool) string {
	q, err := query.Annotations(t)
	if err != nil {
		return ""
	}
	d, ok := query.Managed(q.WithSuperClasses(inherited), in.description).First()
	if !ok {
		return ""
	}
	return d.Text
}

func (in *Inspector) hasAnnotation(t model.Type, qualifiedName string) bool {
	q, err := query.Annotations(t)
	if err != nil {
		return false
	}
	return q.WithName(qualifiedName).ExistsAny()
}

func (in *Inspector) lookupType(name string) (model.Type, error) {
	if t, ok := in.index.Lookup(name); ok {
		return t, nil
	}
	err := errors.NewNotFoundError("type", name)
	if similar := in.similarTypes(name); len(similar) > 0 {
		err.WithSuggestion("did you mean " + strings.Join(similar, ", ") + "?")
	}
	return nil, err
}

// similarTypes returns qualified names sharing the simple name of name
func (in *Inspector) similarTypes(name string) []string {
	simple := model.SimpleNameOf(name)
	var names []string
	for _, t := range in.index.Types() {
		if strings.EqualFold(t.Name(), simple) {
			names = append(names, t.QualifiedName())
		}
	}
	return names
}

func (in *Inspector) typeRow(t model.Type) Row {
	row := Row{Kind: typeKind(t.Flags()), Name: t.QualifiedName(), Detail: modifiers(t.Flags())}
	if outer, ok := t.DeclaringType(); ok {
		row.Owner = outer.QualifiedName()
	}
	row.Description = in.describe(t, false)
	return row
}

func methodRow(m model.Method) Row {
	detail := modifiers(m.Flags())
	if ret := m.ReturnType(); !ret.IsZero() {
		detail = strings.TrimSpace(detail + " " + ret.String())
	}
	return Row{
		Kind:   model.KindMethod.String(),
		Name:   m.Identifier(false),
		Owner:  m.DeclaringType().QualifiedName(),
		Detail: detail,
	}
}

func fieldRow(f model.Field) Row {
	return Row{
		Kind:   model.KindField.String(),
		Name:   f.Name(),
		Owner:  f.DeclaringType().QualifiedName(),
		Detail: strings.TrimSpace(modifiers(f.Flags()) + " " + f.FieldType().String()),
	}
}

func annotationRow(a model.Annotation) Row {
	values := a.Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + values[k]
	}
	return Row{
		Kind:   "annotation",
		Name:   "@" + a.QualifiedName(),
		Owner:  model.SelectorOf(a.Owner()),
		Detail: strings.Join(pairs, ", "),
	}
}

// typeKind names the declaration keyword of a type
func typeKind(f model.Flags) string {
	switch {
	case f.Has(model.FlagAnnotation):
		return "annotation"
	case f.Has(model.FlagInterface):
		return "interface"
	case f.Has(model.FlagEnum):
		return "enum"
	default:
		return "class"
	}
}

// modifiers renders flags without the ones already implied by the kind
func modifiers(f model.Flags) string {
	if f.Has(model.FlagInterface) {
		f &^= model.FlagInterface | model.FlagAbstract | model.FlagAnnotation
	}
	return (f &^ model.FlagEnum).String()
}

func parseScope(name string, fallback query.Scope) (query.Scope, error) {
	switch strings.ToLower(name) {
	case "":
		return fallback, nil
	case ScopeSelf:
		return query.Scope{}, nil
	case ScopeClasses:
		return query.Scope{Superclasses: true}, nil
	case ScopeInterfaces:
		return query.Scope{Superinterfaces: true}, nil
	case ScopeAll:
		return query.Scope{Superclasses: true, Superinterfaces: true}, nil
	}
	return query.Scope{}, errors.Newf(errors.PreconditionErrorCode, "unknown scope '%s'", name).
		WithSuggestion("use self, classes, interfaces or all")
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.WrapParseError(fmt.Sprintf("pattern '%s'", pattern), err)
	}
	return re, nil
}

// collect runs q and converts its results. With Options.Index set only that
// result is returned; otherwise Options.Limit caps the rows.
func collect[T any](q *query.Query[T], opts Options, toRow func(T) Row) ([]Row, error) {
	if opts.Index != nil {
		item, ok, err := q.Item(*opts.Index)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []Row{}, nil
		}
		return []Row{toRow(item)}, nil
	}

	rows := []Row{}
	for item := range q.Stream() {
		if opts.Limit > 0 && len(rows) == opts.Limit {
			break
		}
		rows = append(rows, toRow(item))
	}
	return rows, nil
}

func limit(rows []Row, opts Options) ([]Row, error) {
	if rows == nil {
		rows = []Row{}
	}
	if opts.Index != nil {
		n := *opts.Index
		if n < 0 {
			return nil, errors.NewPreconditionError("item", "index must not be negative").
				WithContext("index", n)
		}
		if n >= len(rows) {
			return []Row{}, nil
		}
		return rows[n : n+1], nil
	}
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	return rows, nil
}
