// Package rust translates TypeScript declarations into Rust wasm-bindgen bindings.
//
// A Translator walks a dts.Module once, top-down. Namespaces become nested
// ModuleContexts; classes and interfaces become extern type blocks with method,
// accessor and constructor bindings; enums become Rust enums and type aliases
// become `pub type` renames. Text is written into the ModuleContext tree as it is
// produced and the caller flushes the root when the walk is done.
package rust

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/broady/ts2rs/rsgen/dts"
)

// Options configures a Translator.
type Options struct {
	// EmitComments copies leading source comments onto the generated items.
	EmitComments bool

	// TypeMappings overrides the mapping of referenced types, keyed by dotted
	// TypeScript name. See Mapper.TypeMappings.
	TypeMappings map[string]string

	// ReservedWords are escaped like Rust keywords when used as function or
	// parameter names.
	ReservedWords []string

	// Logger receives warnings (warn level) and skipped shapes (debug level).
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Translator converts one parsed declaration file.
type Translator struct {
	opts     Options
	src      []byte
	comments *dts.CommentStore
	lines    *dts.LineIndex
	reserved map[string]bool
	logger   *slog.Logger

	warnings []Warning
	skipped  []Skip
}

// NewTranslator creates a Translator for a file with contents src whose comments
// are indexed by comments (which may be nil).
func NewTranslator(src []byte, comments *dts.CommentStore, opts Options) *Translator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reserved := make(map[string]bool, len(opts.ReservedWords))
	for _, w := range opts.ReservedWords {
		reserved[w] = true
	}
	return &Translator{
		opts:     opts,
		src:      src,
		comments: comments,
		lines:    dts.NewLineIndex(src),
		reserved: reserved,
		logger:   logger,
	}
}

// Warnings returns the soft-degradation warnings raised so far.
func (t *Translator) Warnings() []Warning {
	return t.warnings
}

// Skipped returns the input shapes that were not translated.
func (t *Translator) Skipped() []Skip {
	return t.skipped
}

// Translate walks mod and writes its bindings into root. Top-level declarations
// are written into root itself and namespaces into child contexts.
func (t *Translator) Translate(mod *dts.Module, root *ModuleContext) error {
	if err := t.visitNamespaces(mod.Items, root); err != nil {
		return err
	}
	return t.visitDecls(mod.Items, root)
}

// visitNamespaces recurses into the namespace declarations among items. A dotted
// namespace pushes one context per segment. Reopened namespaces reuse the same
// context through ModuleContext.Push.
func (t *Translator) visitNamespaces(items []dts.Item, ctx *ModuleContext) error {
	for _, item := range items {
		ns, ok := item.(*dts.NamespaceDecl)
		if !ok {
			continue
		}
		if len(ns.Name) == 0 {
			if ns.Global {
				t.skip(ns, "global augmentation", "")
			} else {
				t.skip(ns, "string-named module", ns.Literal)
			}
			continue
		}

		child := ctx
		for _, seg := range ns.Name {
			child = child.Push(seg)
		}
		if err := t.visitNamespaces(ns.Body, child); err != nil {
			return err
		}
		if err := t.visitDecls(ns.Body, child); err != nil {
			return err
		}
	}
	return nil
}

// visitDecls dispatches the non-namespace declarations among items.
func (t *Translator) visitDecls(items []dts.Item, ctx *ModuleContext) error {
	for _, item := range items {
		var err error
		switch d := item.(type) {
		case *dts.NamespaceDecl:
			// Owned by visitNamespaces.
		case *dts.TypeAliasDecl:
			t.visitTypeAlias(d, ctx)
		case *dts.EnumDecl:
			err = t.visitEnum(d, ctx)
		case *dts.ClassDecl:
			err = t.visitClass(d, ctx)
		case *dts.InterfaceDecl:
			t.visitInterface(d, ctx)
		case *dts.FunctionDecl:
			t.visitFunction(d, ctx)
		case *dts.OtherDecl:
			t.skip(d, d.Kind, "")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// mapper returns a type mapper for a declaration with the given type parameters.
func (t *Translator) mapper(typeName string, generics []string) *Mapper {
	m := &Mapper{
		TypeMappings: t.opts.TypeMappings,
		Warn: func(node dts.Node, code, message string) {
			t.warn(node, code, message, typeName)
		},
	}
	return m.WithGenerics(generics)
}

func (t *Translator) normalize(name string) string {
	return normalize(name, t.reserved)
}

// writeComments writes the leading comments of node, each line prefixed by indent.
func (t *Translator) writeComments(buf *bytes.Buffer, node dts.Node, indent string) {
	if !t.opts.EmitComments || node == nil {
		return
	}
	comments := t.comments.Leading(node.Pos().Start)
	if len(comments) == 0 {
		return
	}
	var tmp bytes.Buffer
	_ = InsertComments(&tmp, comments) // bytes.Buffer writes do not fail
	for _, line := range strings.SplitAfter(tmp.String(), "\n") {
		if line == "" {
			continue
		}
		buf.WriteString(indent)
		buf.WriteString(line)
	}
}

func (t *Translator) source(node dts.Node) *Source {
	if node == nil {
		return nil
	}
	line, col := t.lines.Position(node.Pos().Start)
	return &Source{Line: line, Column: col}
}

// text returns the first line of node's source text, shortened for messages.
func (t *Translator) text(node dts.Node) string {
	if node == nil {
		return ""
	}
	span := node.Pos()
	if span.Start < 0 || span.End > len(t.src) || span.Start >= span.End {
		return ""
	}
	s := string(t.src[span.Start:span.End])
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}
	const maxLen = 80
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return strings.TrimSpace(s)
}

func (t *Translator) warn(node dts.Node, code, message, typeName string) {
	w := Warning{
		Code:     code,
		Message:  message,
		Source:   t.source(node),
		TypeName: typeName,
	}
	t.warnings = append(t.warnings, w)

	attrs := []any{slog.String("code", code)}
	if typeName != "" {
		attrs = append(attrs, slog.String("type", typeName))
	}
	if w.Source != nil {
		attrs = append(attrs, slog.String("at", w.Source.String()))
	}
	t.logger.Warn(message, attrs...)
}

func (t *Translator) skip(node dts.Node, kind, typeName string) {
	s := Skip{
		Kind:     kind,
		TypeName: typeName,
		Text:     t.text(node),
		Source:   t.source(node),
	}
	t.skipped = append(t.skipped, s)

	attrs := []any{slog.String("kind", kind), slog.String("text", s.Text)}
	if typeName != "" {
		attrs = append(attrs, slog.String("type", typeName))
	}
	if s.Source != nil {
		attrs = append(attrs, slog.String("at", s.Source.String()))
	}
	t.logger.Debug("skipped", attrs...)
}

// position formats the location of node for error messages.
func (t *Translator) position(node dts.Node) string {
	if src := t.source(node); src != nil {
		return src.String()
	}
	return "?"
}

// jsNamespace renders the js_namespace attribute argument for a module path.
func jsNamespace(path []string) string {
	quoted := make([]string, len(path))
	for i, seg := range path {
		quoted[i] = fmt.Sprintf("%q", seg)
	}
	return "js_namespace = [" + strings.Join(quoted, ", ") + "]"
}
