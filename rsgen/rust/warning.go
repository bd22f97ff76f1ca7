package rust

import "fmt"

// Source represents a source code location.
type Source struct {
	Line   int
	Column int
}

// String formats the location as line:column.
func (s Source) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Warning represents a non-fatal issue encountered during generation.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Source is the location that triggered the warning, if known.
	Source *Source

	// TypeName is the declaration being generated when the warning was raised.
	TypeName string
}

// Skip records an input shape that was deliberately not translated.
type Skip struct {
	// Kind is the kind of syntax that was skipped, e.g. "index signature".
	Kind string

	// TypeName is the enclosing declaration, empty at namespace level. For a
	// string-named module it is the module specifier.
	TypeName string

	// Text is the source text of the skipped node, possibly truncated.
	Text string

	Source *Source
}

const (
	// WarnUnsupportedType is raised when a type annotation falls back to JsValue.
	WarnUnsupportedType = "unsupported_type"
)
