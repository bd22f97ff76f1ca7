package rust

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/broady/ts2rs/rsgen/dts"
)

const (
	// Placeholder is the opaque dynamic value type used whenever a TypeScript type
	// cannot be mapped precisely.
	Placeholder = "JsValue"

	// UnitType is the mapping of `void`.
	UnitType = "()"
)

// Types that already represent an absent value and are never wrapped in Option.
var promiseLike = map[string]bool{
	"Promise":     true,
	"PromiseLike": true,
	"Thenable":    true,
}

// Mapper maps TypeScript type annotations to Rust type names.
// The zero value is ready to use.
type Mapper struct {
	// TypeMappings overrides the mapping of referenced types, keyed by the dotted
	// TypeScript name (e.g. "monaco.Thenable"). Values are emitted verbatim.
	TypeMappings map[string]string

	// Generics holds the type parameter names declared by the enclosing declaration.
	Generics map[string]bool

	// Warn receives soft-degradation notices. It may be nil.
	Warn func(node dts.Node, code, message string)
}

// WithGenerics returns a copy of m with additional type parameters in scope.
func (m *Mapper) WithGenerics(names []string) *Mapper {
	if len(names) == 0 {
		return m
	}
	generics := make(map[string]bool, len(m.Generics)+len(names))
	for name := range m.Generics {
		generics[name] = true
	}
	for _, name := range names {
		generics[name] = true
	}
	c := *m
	c.Generics = generics
	return &c
}

// TypeName maps t and applies the enum-literal and generic-parameter fixes.
func (m *Mapper) TypeName(t dts.TypeNode) string {
	return m.fix(m.mapType(t))
}

// TypeAnnName unwraps an annotation and maps it, wrapping the result in Option when
// optional is set. ok is false when there is no annotation.
// The Option wrap runs after the name fixes, so an optional `T` stays JsValue.
func (m *Mapper) TypeAnnName(ann *dts.TypeAnn, optional bool) (name string, ok bool) {
	if ann == nil || ann.Type == nil {
		return "", false
	}
	return Optional(m.TypeName(ann.Type), optional), true
}

// Optional wraps name in Option unless it already represents absence.
func Optional(name string, optional bool) string {
	if !optional || name == Placeholder || promiseLike[lastSegment(name)] {
		return name
	}
	return "Option<" + name + ">"
}

func (m *Mapper) mapType(t dts.TypeNode) string {
	switch t := t.(type) {
	case *dts.KeywordType:
		switch t.Keyword {
		case dts.KeywordBoolean:
			return "bool"
		case dts.KeywordString:
			return "String"
		case dts.KeywordNumber:
			return "f64"
		case dts.KeywordVoid:
			return UnitType
		case dts.KeywordAny:
			return Placeholder
		}
		m.warn(t, fmt.Sprintf("type keyword %q is not mapped, using %s", t.Keyword, Placeholder))
		return Placeholder
	case *dts.ArrayType:
		return "Array"
	case *dts.TypeLiteral:
		return "Object"
	case *dts.TypeRef:
		if len(t.Name) == 0 {
			break
		}
		if mapped, ok := m.TypeMappings[strings.Join(t.Name, ".")]; ok {
			return mapped
		}
		return qualify(t.Name)
	case *dts.OtherType:
		m.warn(t, fmt.Sprintf("%s `%s` is not mapped, using %s", t.Kind, t.Text, Placeholder))
		return Placeholder
	}
	m.warn(t, fmt.Sprintf("type %T is not mapped, using %s", t, Placeholder))
	return Placeholder
}

func (m *Mapper) warn(node dts.Node, message string) {
	if m.Warn != nil {
		m.Warn(node, WarnUnsupportedType, message)
	}
}

// fix applies the post-processing heuristics to a mapped name.
func (m *Mapper) fix(name string) string {
	// An enum member used in type position: keep the enum.
	if i := strings.LastIndex(name, "::"); i > 0 && isValueLike(name[i+2:]) {
		name = name[:i]
	}
	if m.Generics[name] || isGenericParam(name) {
		return Placeholder
	}
	return name
}

// qualify joins a qualified TypeScript name into a Rust path, left to right.
func qualify(segments []string) string {
	var b strings.Builder
	for i, seg := range segments {
		if i == len(segments)-1 {
			b.WriteString(seg)
			break
		}
		b.WriteString(ModuleName(seg))
		b.WriteString("::")
	}
	return b.String()
}

// isValueLike reports whether s looks like an enum value: upper case letters,
// digits and underscores with at least one letter.
func isValueLike(s string) bool {
	letter := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			letter = true
		case r == '_' || unicode.IsDigit(r):
		default:
			return false
		}
	}
	return letter
}

func isGenericParam(name string) bool {
	return len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z'
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}
