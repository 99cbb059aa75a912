package model

import (
	"strings"

	"github.com/toyz/hierq/internal/errors"
)

// Flags is the modifier bitmask of an element
type Flags uint32

const (
	FlagPublic Flags = 1 << iota
	FlagPrivate
	FlagProtected
	FlagStatic
	FlagFinal
	FlagAbstract
	FlagInterface
	FlagAnnotation
	FlagEnum
	FlagVarargs
	FlagDefault
	FlagDeprecated
	FlagSynthetic
)

// None means no flag requirement
const FlagNone Flags = 0

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagPublic, "public"},
	{FlagPrivate, "private"},
	{FlagProtected, "protected"},
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagAbstract, "abstract"},
	{FlagInterface, "interface"},
	{FlagAnnotation, "annotation"},
	{FlagEnum, "enum"},
	{FlagVarargs, "varargs"},
	{FlagDefault, "default"},
	{FlagDeprecated, "deprecated"},
	{FlagSynthetic, "synthetic"},
}

// Has reports whether every bit of required is set
func (f Flags) Has(required Flags) bool {
	return f&required == required
}

// String lists the set flags in declaration order, space separated
func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, " ")
}

// ParseFlags converts modifier names into a bitmask
func ParseFlags(names ...string) (Flags, error) {
	var result Flags
	for _, raw := range names {
		for _, name := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' || r == '|' }) {
			f, ok := lookupFlag(strings.ToLower(name))
			if !ok {
				return 0, errors.Newf(errors.SyntaxErrorCode, "unknown modifier '%s'", name).
					WithSuggestion("valid modifiers: " + FlagNames())
			}
			result |= f
		}
	}
	return result, nil
}

// FlagNames returns all known modifier names
func FlagNames() string {
	names := make([]string, len(flagNames))
	for i, fn := range flagNames {
		names[i] = fn.name
	}
	return strings.Join(names, ", ")
}

func lookupFlag(name string) (Flags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}
