package model

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/toyz/hierq/internal/errors"
)

// Selector addresses an element of the model:
//
//	com.acme.Base                      a type
//	com.acme.Base#name                 a field (or the only method with that name)
//	com.acme.Base#run(String,int)      a method
//	com.acme.Base#run(String,int)@1    a method parameter
type Selector struct {
	Type       string
	Member     string
	Params     []TypeRef
	IsMethod   bool
	ParamIndex int // -1 when no parameter is addressed
}

type selectorExpr struct {
	Type   []string    `parser:"@Ident ( '.' @Ident )*"`
	Member *memberExpr `parser:"( '#' @@ )?"`
}

type memberExpr struct {
	Name   string      `parser:"@Ident"`
	Params *paramsExpr `parser:"@@?"`
	Index  *int        `parser:"( '@' @Int )?"`
}

type paramsExpr struct {
	Open  string      `parser:"@'('"`
	Types []*typeExpr `parser:"( @@ ( ',' @@ )* )? ')'"`
}

var selectorParser = participle.MustBuild[selectorExpr](
	participle.Lexer(typeRefLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseSelector parses the textual element address
func ParseSelector(s string) (Selector, error) {
	expr, err := selectorParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return Selector{}, errors.WrapParseError("selector '"+s+"'", err).
			WithSuggestion("use Type, Type#field, Type#method(T1,T2) or Type#method(T1)@0")
	}

	sel := Selector{Type: strings.Join(expr.Type, "."), ParamIndex: -1}
	if m := expr.Member; m != nil {
		sel.Member = m.Name
		if m.Params != nil {
			sel.IsMethod = true
			for _, p := range m.Params.Types {
				sel.Params = append(sel.Params, p.toRef())
			}
		}
		if m.Index != nil {
			if !sel.IsMethod {
				return Selector{}, errors.Newf(errors.SyntaxErrorCode, "selector '%s' addresses a parameter without a parameter list", s)
			}
			sel.ParamIndex = *m.Index
		}
	}
	return sel, nil
}

// String renders the selector back into its textual form
func (s Selector) String() string {
	var b strings.Builder
	b.WriteString(s.Type)
	if s.Member == "" {
		return b.String()
	}
	b.WriteByte('#')
	b.WriteString(s.Member)
	if s.IsMethod {
		b.WriteByte('(')
		for i, p := range s.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.String())
		}
		b.WriteByte(')')
	}
	if s.ParamIndex >= 0 {
		fmt.Fprintf(&b, "@%d", s.ParamIndex)
	}
	return b.String()
}

// SelectorOf builds the selector that resolves back to e. Members not yet added
// to a type have no selector.
func SelectorOf(e Element) string {
	t, ok := DeclaringTypeOf(e)
	if !ok {
		return ""
	}
	switch v := e.(type) {
	case Type:
		return t.QualifiedName()
	case Method:
		return t.QualifiedName() + "#" + v.Identifier(false)
	case Field:
		return t.QualifiedName() + "#" + v.Name()
	case Parameter:
		return fmt.Sprintf("%s@%d", SelectorOf(v.DeclaringMethod()), v.Index())
	}
	return ""
}

// Resolve parses a selector and looks the element up in the index
func (x *Index) Resolve(selector string) (Element, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return x.ResolveSelector(sel)
}

// ResolveSelector looks a parsed selector up in the index
func (x *Index) ResolveSelector(sel Selector) (Element, error) {
	t, ok := x.Lookup(sel.Type)
	if !ok {
		return nil, errors.NewNotFoundError("type", sel.Type)
	}
	if sel.Member == "" {
		return t, nil
	}

	if !sel.IsMethod {
		for _, f := range t.Fields() {
			if f.Name() == sel.Member {
				return f, nil
			}
		}
		var found []Method
		for _, m := range t.Methods() {
			if m.Name() == sel.Member {
				found = append(found, m)
			}
		}
		switch len(found) {
		case 0:
			return nil, errors.NewNotFoundError("member", sel.String())
		case 1:
			return found[0], nil
		default:
			return nil, errors.Newf(errors.ResolutionErrorCode, "'%s' is overloaded %d times", sel.String(), len(found)).
				WithSuggestion("add the parameter list, e.g. " + SelectorOf(found[0]))
		}
	}

	for _, m := range t.Methods() {
		if !selectorMatches(sel, m) {
			continue
		}
		if sel.ParamIndex < 0 {
			return m, nil
		}
		params := m.Parameters()
		if sel.ParamIndex >= len(params) {
			return nil, errors.NewNotFoundError("parameter", sel.String())
		}
		return params[sel.ParamIndex], nil
	}
	return nil, errors.NewNotFoundError("method", sel.String())
}

func selectorMatches(sel Selector, m Method) bool {
	if m.Name() != sel.Member || len(m.ParameterTypes()) != len(sel.Params) {
		return false
	}
	declared := m.ParameterTypes()
	lookup := TypeVariables(m)
	for i, p := range sel.Params {
		d := declared[i]
		if sameWritten(p, d) || p.Erasure(lookup).String() == d.Erasure(lookup).String() {
			continue
		}
		return false
	}
	return true
}

func sameWritten(a, b TypeRef) bool {
	if a.Varargs {
		a.Varargs, a.Dims = false, a.Dims+1
	}
	if b.Varargs {
		b.Varargs, b.Dims = false, b.Dims+1
	}
	return a.String() == b.String()
}
