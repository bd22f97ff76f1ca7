package rust

import (
	"strings"

	"github.com/ettle/strcase"
)

// Rust strict and reserved keywords (2024 edition).
var reservedWords = map[string]bool{
	"as":       true,
	"async":    true,
	"await":    true,
	"break":    true,
	"const":    true,
	"continue": true,
	"crate":    true,
	"dyn":      true,
	"else":     true,
	"enum":     true,
	"extern":   true,
	"false":    true,
	"fn":       true,
	"for":      true,
	"if":       true,
	"impl":     true,
	"in":       true,
	"let":      true,
	"loop":     true,
	"match":    true,
	"mod":      true,
	"move":     true,
	"mut":      true,
	"pub":      true,
	"ref":      true,
	"return":   true,
	"self":     true,
	"Self":     true,
	"static":   true,
	"struct":   true,
	"super":    true,
	"trait":    true,
	"true":     true,
	"type":     true,
	"unsafe":   true,
	"use":      true,
	"where":    true,
	"while":    true,
	"abstract": true,
	"become":   true,
	"box":      true,
	"do":       true,
	"final":    true,
	"gen":      true,
	"macro":    true,
	"override": true,
	"priv":     true,
	"try":      true,
	"typeof":   true,
	"unsized":  true,
	"virtual":  true,
	"yield":    true,
}

// Keywords that are not accepted as raw identifiers.
var noRawIdentifier = map[string]bool{
	"self":  true,
	"Self":  true,
	"super": true,
	"crate": true,
}

const rawPrefix = "r#"

// IsReserved reports whether name is a Rust keyword.
func IsReserved(name string) bool {
	return reservedWords[name]
}

// escapeReservedWord escapes a keyword as a raw identifier, or with a trailing
// underscore for the keywords raw identifiers cannot express.
func escapeReservedWord(name string) string {
	if noRawIdentifier[name] {
		return name + "_"
	}
	return rawPrefix + name
}

// Normalize maps a TypeScript identifier to a Rust function or parameter name.
// Keywords are escaped as they are; everything else becomes snake_case.
func Normalize(name string) string {
	return normalize(name, nil)
}

func normalize(name string, extra map[string]bool) string {
	if strings.HasPrefix(name, rawPrefix) {
		return name
	}
	if noRawIdentifier[name] {
		// `Self_` would snake-case to `self_` on a second pass.
		return escapeReservedWord(strcase.ToSnake(name))
	}
	if reservedWords[name] || extra[name] {
		return escapeReservedWord(name)
	}
	// `$` is legal in TypeScript identifiers but not in Rust ones.
	snake := strcase.ToSnake(strings.ReplaceAll(name, "$", "Dollar_"))
	if snake == "" {
		return "unnamed"
	}
	if reservedWords[snake] || extra[snake] {
		return escapeReservedWord(snake)
	}
	return snake
}

// ModuleName maps a namespace segment to a Rust module name. Case is kept so
// that qualified type references (`a.B.C` -> `a::B::C`) resolve unchanged.
func ModuleName(name string) string {
	if reservedWords[name] {
		return escapeReservedWord(name)
	}
	return name
}
