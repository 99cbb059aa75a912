// Package loader builds a type model from YAML documents.
//
// Loading runs in two phases. The declare phase creates every type, member and
// annotation of every document and indexes the types by qualified name. The link
// phase then resolves extends and implements references against the complete
// index, so documents may refer to each other in any order.
package loader

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/model"
	"github.com/toyz/hierq/internal/utils"
)

// Options configures a Loader
type Options struct {
	// Strict fails on supertype references that no document declares. Otherwise
	// such references become empty placeholder types.
	Strict bool

	// Diagnostics receives progress and placeholder warnings; nil is quiet
	Diagnostics *utils.DiagnosticSystem

	// Reader is shared between loads to skip re-reading unchanged files
	Reader *utils.FileReader
}

// Result is a loaded model
type Result struct {
	Index        *model.Index
	Files        []string
	Placeholders []string
	// Bytes is the total size of the documents read
	Bytes int64
}

// Loader reads model documents into an index
type Loader struct {
	opts   Options
	reader *utils.FileReader
	diag   *utils.DiagnosticSystem
}

// New creates a loader
func New(opts Options) *Loader {
	reader := opts.Reader
	if reader == nil {
		reader = utils.NewFileReader()
	}
	diag := opts.Diagnostics
	if diag == nil {
		diag = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return &Loader{opts: opts, reader: reader, diag: diag}
}

// Load reads every document matched by patterns (files, directories or dir/...)
func Load(patterns []string, opts Options) (*Result, error) {
	return New(opts).LoadFiles(patterns...)
}

// LoadFiles expands patterns and loads the matched documents as one model
func (l *Loader) LoadFiles(patterns ...string) (*Result, error) {
	files, err := utils.ExpandModelPaths(patterns)
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to find model documents", err)
	}
	if len(files) == 0 {
		return nil, errors.New(errors.LoadErrorCode, "no model documents found").
			WithContext("patterns", patterns).
			WithSuggestion("model documents are .yaml or .yml files; use dir/... to include subdirectories")
	}

	sources := make([]source, 0, len(files))
	var size int64
	for _, file := range files {
		data, err := l.reader.ReadFile(file)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", file, err)
		}
		sources = append(sources, source{name: file, data: data})
		size += int64(len(data))
	}

	result, err := l.load(sources)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.Bytes = size
	return result, nil
}

// LoadBytes loads a single in-memory document set; name is used in error locations
func (l *Loader) LoadBytes(name string, data []byte) (*Result, error) {
	result, err := l.load([]source{{name: name, data: data}})
	if err != nil {
		return nil, err
	}
	result.Bytes = int64(len(data))
	return result, nil
}

type source struct {
	name string
	data []byte
}

// pending remembers the supertype references of a declared type for the link phase
type pending struct {
	decl *model.TypeDecl
	doc  *typeDoc
	file string
}

type loadState struct {
	*Loader
	index   *model.Index
	pending []pending
	errs    *errors.MultipleErrors
	result  *Result
}

func (l *Loader) load(sources []source) (*Result, error) {
	st := &loadState{
		Loader: l,
		index:  model.NewIndex(),
		errs:   errors.NewMultipleErrors(),
		result: &Result{},
	}

	for _, src := range sources {
		st.declareSource(src)
	}
	if !st.errs.IsEmpty() {
		return nil, st.errs
	}

	for _, p := range st.pending {
		st.link(p)
	}
	if !st.errs.IsEmpty() {
		return nil, st.errs
	}
	st.checkCycles()
	if !st.errs.IsEmpty() {
		return nil, st.errs
	}

	st.result.Index = st.index
	l.diag.Verbose("loaded %d types from %d documents", st.index.Len(), len(sources))
	return st.result, nil
}

func (st *loadState) declareSource(src source) {
	st.diag.Debug("reading %s", src.name)

	dec := yaml.NewDecoder(bytes.NewReader(src.data))
	for {
		var doc document
		err := dec.Decode(&doc)
		if stderrors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			st.fail(src.name, 0, errors.WrapParseError("model document", err))
			return
		}
		for _, td := range doc.Types {
			st.declareType(src.name, td, nil)
		}
	}
}

func (st *loadState) declareType(file string, doc *typeDoc, outer *model.TypeDecl) {
	if doc == nil {
		return
	}
	if strings.TrimSpace(doc.Name) == "" {
		st.fail(file, doc.line, errors.New(errors.SyntaxErrorCode, "type without a name"))
		return
	}

	flags, err := typeFlags(doc)
	if err != nil {
		st.fail(file, doc.line, err)
		return
	}

	var decl *model.TypeDecl
	if outer == nil {
		decl = model.NewType(doc.Name, flags)
	} else {
		decl = outer.AddInnerType(model.SimpleNameOf(doc.Name), flags)
	}
	// indexed before its inner types are declared; each of those indexes itself
	if err := st.index.Add(decl); err != nil {
		st.fail(file, doc.line, err)
		return
	}

	for _, tp := range doc.TypeParameters {
		bounds, err := parseRefs(tp.Bounds)
		if err != nil {
			st.fail(file, doc.line, err)
			continue
		}
		decl.AddTypeParameter(tp.Name, bounds...)
	}
	for _, a := range doc.Annotations {
		annotate(decl.Annotate, a)
	}
	for _, fd := range doc.Fields {
		st.declareField(file, decl, fd)
	}
	for _, md := range doc.Methods {
		st.declareMethod(file, decl, md)
	}
	for _, inner := range doc.InnerTypes {
		st.declareType(file, inner, decl)
	}

	st.pending = append(st.pending, pending{decl: decl, doc: doc, file: file})
}

func (st *loadState) declareField(file string, owner *model.TypeDecl, doc fieldDoc) {
	ref, err := model.ParseTypeRef(doc.Type)
	if err != nil {
		st.fail(file, doc.line, err)
		return
	}
	flags, err := model.ParseFlags(doc.Modifiers...)
	if err != nil {
		st.fail(file, doc.line, err)
		return
	}
	f := owner.AddField(doc.Name, ref, flags)
	for _, a := range doc.Annotations {
		annotate(f.Annotate, a)
	}
}

func (st *loadState) declareMethod(file string, owner *model.TypeDecl, doc methodDoc) {
	flags, err := model.ParseFlags(doc.Modifiers...)
	if err != nil {
		st.fail(file, doc.line, err)
		return
	}

	params := make([]*model.ParameterDecl, 0, len(doc.Parameters))
	for _, pd := range doc.Parameters {
		ref, err := model.ParseTypeRef(pd.Type)
		if err != nil {
			st.fail(file, doc.line, err)
			return
		}
		pflags, err := model.ParseFlags(pd.Modifiers...)
		if err != nil {
			st.fail(file, doc.line, err)
			return
		}
		p := model.NewParameter(pd.Name, ref).WithFlags(pflags)
		for _, a := range pd.Annotations {
			annotate(p.Annotate, a)
		}
		params = append(params, p)
	}

	m := owner.AddMethod(doc.Name, flags, params...)
	if doc.Returns != "" {
		ref, err := model.ParseTypeRef(doc.Returns)
		if err != nil {
			st.fail(file, doc.line, err)
			return
		}
		m.Returns(ref)
	}
	for _, tp := range doc.TypeParameters {
		bounds, err := parseRefs(tp.Bounds)
		if err != nil {
			st.fail(file, doc.line, err)
			return
		}
		m.AddTypeParameter(tp.Name, bounds...)
	}
	for _, a := range doc.Annotations {
		annotate(m.Annotate, a)
	}
}

// link resolves the supertype references of one declared type. For interfaces
// extends names superinterfaces; for everything else it names the superclass.
func (st *loadState) link(p pending) {
	isInterface := p.decl.Flags().Has(model.FlagInterface)

	if !isInterface && len(p.doc.Extends) > 1 {
		st.fail(p.file, p.doc.line, errors.Newf(errors.ResolutionErrorCode,
			"class %s extends %d types", p.decl.QualifiedName(), len(p.doc.Extends)).
			WithSuggestion("list additional supertypes under implements"))
		return
	}

	for _, name := range p.doc.Extends {
		super, ok := st.resolve(p, name, isInterface)
		if !ok {
			continue
		}
		if isInterface {
			p.decl.AddSuperinterface(super)
		} else {
			p.decl.SetSuperclass(super)
		}
	}
	for _, name := range p.doc.Implements {
		if super, ok := st.resolve(p, name, true); ok {
			p.decl.AddSuperinterface(super)
		}
	}
}

// checkCycles reports every superclass chain that returns to its start. A cycle is
// reported once, at the first of its members in declaration order.
func (st *loadState) checkCycles() {
	reported := make(map[string]bool)
	for _, p := range st.pending {
		if reported[p.decl.ID()] {
			continue
		}
		chain := []string{p.decl.QualifiedName()}
		members := []string{p.decl.ID()}
		seen := map[string]bool{p.decl.ID(): true}
		var t model.Type = p.decl
		for {
			super, ok := t.Superclass()
			if !ok || super == nil {
				break
			}
			if super.ID() == p.decl.ID() {
				chain = append(chain, super.QualifiedName())
				for _, id := range members {
					reported[id] = true
				}
				st.fail(p.file, p.doc.line, errors.Newf(errors.ResolutionErrorCode,
					"superclass cycle %s", strings.Join(chain, " -> ")).
					WithContext("type", p.decl.QualifiedName()).
					WithSuggestion("remove one of the extends references in the cycle"))
				break
			}
			// a chain running into a cycle it is not part of is reported by a member
			if seen[super.ID()] {
				break
			}
			seen[super.ID()] = true
			chain = append(chain, super.QualifiedName())
			members = append(members, super.ID())
			t = super
		}
	}
}

func (st *loadState) resolve(p pending, name string, asInterface bool) (model.Type, bool) {
	if t, ok := st.index.Lookup(name); ok {
		return t, true
	}

	if st.opts.Strict {
		st.fail(p.file, p.doc.line, errors.NewNotFoundError("supertype", name).
			WithContext("type", p.decl.QualifiedName()).
			WithSuggestion("declare "+name+" in a model document or disable strict loading"))
		return nil, false
	}

	flags := model.FlagNone
	if asInterface {
		flags = model.FlagInterface | model.FlagAbstract
	}
	placeholder := model.NewType(name, flags)
	if err := st.index.Add(placeholder); err != nil {
		st.fail(p.file, p.doc.line, err)
		return nil, false
	}
	st.result.Placeholders = append(st.result.Placeholders, name)
	st.diag.Warn("%s: %s references undeclared type %s, using a placeholder", location(p.file, p.doc.line), p.decl.QualifiedName(), name)
	return placeholder, true
}

func (st *loadState) fail(file string, line int, cause error) {
	st.errs.Add(errors.WrapLoadError(file, cause).
		WithLocation(errors.SourceLocation{File: file, Line: line}))
}

func typeFlags(doc *typeDoc) (model.Flags, error) {
	flags, err := model.ParseFlags(doc.Modifiers...)
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(doc.Kind) {
	case "", "class":
	case "interface":
		flags |= model.FlagInterface | model.FlagAbstract
	case "annotation":
		flags |= model.FlagAnnotation | model.FlagInterface | model.FlagAbstract
	case "enum":
		flags |= model.FlagEnum
	default:
		return 0, errors.Newf(errors.SyntaxErrorCode, "unknown type kind '%s'", doc.Kind).
			WithSuggestion("use class, interface, annotation or enum")
	}
	return flags, nil
}

func parseRefs(literals []string) ([]model.TypeRef, error) {
	refs := make([]model.TypeRef, 0, len(literals))
	for _, lit := range literals {
		ref, err := model.ParseTypeRef(lit)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func annotate(add func(string) *model.AnnotationDecl, doc annotationDoc) {
	a := add(doc.Name)
	for name, value := range doc.Values {
		a.Set(name, value)
	}
}

func location(file string, line int) string {
	if line == 0 {
		return file
	}
	return fmt.Sprintf("%s:%d", file, line)
}
