package model

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/toyz/hierq/internal/errors"
)

// WildcardKind distinguishes ?, ? extends X and ? super X
type WildcardKind int

const (
	NoWildcard WildcardKind = iota
	WildcardUnbounded
	WildcardExtends
	WildcardSuper
)

const objectTypeName = "java.lang.Object"

// TypeRef is a parsed reference to a type as written in a signature,
// e.g. java.util.Map<K, ? extends V>[] or String...
type TypeRef struct {
	Name     string // dotted name, empty for wildcards
	Args     []TypeRef
	Dims     int
	Varargs  bool
	Wildcard WildcardKind
	Bound    *TypeRef // bound of a bounded wildcard
}

// IsZero reports whether the reference is unset
func (r TypeRef) IsZero() bool {
	return r.Name == "" && r.Wildcard == NoWildcard
}

// SimpleName returns the last segment of the name
func (r TypeRef) SimpleName() string {
	return SimpleNameOf(r.Name)
}

// String renders the reference in source form
func (r TypeRef) String() string {
	var b strings.Builder
	r.write(&b, true)
	return b.String()
}

func (r TypeRef) write(b *strings.Builder, withArgs bool) {
	switch r.Wildcard {
	case WildcardUnbounded:
		b.WriteString("?")
		return
	case WildcardExtends, WildcardSuper:
		if r.Wildcard == WildcardExtends {
			b.WriteString("? extends ")
		} else {
			b.WriteString("? super ")
		}
		if r.Bound != nil {
			r.Bound.write(b, withArgs)
		}
		return
	}

	b.WriteString(r.Name)
	if withArgs && len(r.Args) > 0 {
		b.WriteByte('<')
		for i, arg := range r.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			arg.write(b, true)
		}
		b.WriteByte('>')
	}
	for i := 0; i < r.Dims; i++ {
		b.WriteString("[]")
	}
	if r.Varargs {
		b.WriteString("...")
	}
}

// TypeVariableLookup returns the declared bounds of a type variable in scope
type TypeVariableLookup func(name string) ([]TypeRef, bool)

// maxErasureDepth stops erasure of type variables bounded by each other
const maxErasureDepth = 8

// Erasure returns the reference with type arguments removed, type variables
// replaced by the erasure of their first bound and varargs folded into an
// array dimension.
func (r TypeRef) Erasure(lookup TypeVariableLookup) TypeRef {
	return r.erase(lookup, 0)
}

func (r TypeRef) erase(lookup TypeVariableLookup, depth int) TypeRef {
	dims := r.Dims
	if r.Varargs {
		dims++
	}

	if r.Wildcard != NoWildcard {
		if r.Wildcard == WildcardExtends && r.Bound != nil {
			return r.Bound.erase(lookup, depth+1)
		}
		return TypeRef{Name: objectTypeName}
	}

	if lookup != nil && depth < maxErasureDepth && !strings.Contains(r.Name, ".") {
		if bounds, ok := lookup(r.Name); ok {
			erased := TypeRef{Name: objectTypeName}
			if len(bounds) > 0 {
				erased = bounds[0].erase(lookup, depth+1)
			}
			erased.Dims += dims
			return erased
		}
	}

	return TypeRef{Name: r.Name, Dims: dims}
}

var (
	typeRefLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ellipsis", Pattern: `\.\.\.`},
		{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
		{Name: "Int", Pattern: `[0-9]+`},
		{Name: "Punct", Pattern: `[.,<>?\[\]()#@]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	typeRefParser = participle.MustBuild[typeExpr](
		participle.Lexer(typeRefLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	typeRefCache, _ = lru.New[string, TypeRef](4096)
)

// typeExpr is the grammar of a single type reference
type typeExpr struct {
	Wildcard *wildcardExpr `parser:"  @@"`
	Class    *classExpr    `parser:"| @@"`
}

type wildcardExpr struct {
	Mark  string         `parser:"@'?'"`
	Bound *wildcardBound `parser:"@@?"`
}

type wildcardBound struct {
	Kind string    `parser:"@( 'extends' | 'super' )"`
	Type *typeExpr `parser:"@@"`
}

type classExpr struct {
	Name    []string    `parser:"@Ident ( '.' @Ident )*"`
	Args    []*typeExpr `parser:"( '<' ( @@ ( ',' @@ )* )? '>' )?"`
	Dims    []string    `parser:"( @'[' ']' )*"`
	Varargs bool        `parser:"@Ellipsis?"`
}

func (e *typeExpr) toRef() TypeRef {
	if e.Wildcard != nil {
		if e.Wildcard.Bound == nil {
			return TypeRef{Wildcard: WildcardUnbounded}
		}
		bound := e.Wildcard.Bound.Type.toRef()
		kind := WildcardExtends
		if e.Wildcard.Bound.Kind == "super" {
			kind = WildcardSuper
		}
		return TypeRef{Wildcard: kind, Bound: &bound}
	}

	ref := TypeRef{
		Name:    strings.Join(e.Class.Name, "."),
		Dims:    len(e.Class.Dims),
		Varargs: e.Class.Varargs,
	}
	for _, arg := range e.Class.Args {
		ref.Args = append(ref.Args, arg.toRef())
	}
	return ref
}

// ParseTypeRef parses a type reference such as java.util.List<? extends T>[]
func ParseTypeRef(s string) (TypeRef, error) {
	s = strings.TrimSpace(s)
	if ref, ok := typeRefCache.Get(s); ok {
		return ref, nil
	}
	if s == "" {
		return TypeRef{}, errors.New(errors.SyntaxErrorCode, "empty type reference")
	}

	expr, err := typeRefParser.ParseString("", s)
	if err != nil {
		return TypeRef{}, errors.WrapParseError("type reference '"+s+"'", err)
	}

	ref := expr.toRef()
	typeRefCache.Add(s, ref)
	return ref, nil
}

// MustParseTypeRef is ParseTypeRef for literals known to be valid; it panics otherwise
func MustParseTypeRef(s string) TypeRef {
	ref, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}
