// Package parser builds the dts model of a TypeScript declaration file using the
// tree-sitter TypeScript grammar.
//
// The concrete syntax tree is walked once. Declarations the generator understands
// become typed dts nodes; every other statement, member or type is kept as a
// catch-all node carrying its source text. Comments are collected separately into
// a dts.CommentStore.
package parser

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/broady/ts2rs/rsgen/dts"
)

// ErrInvalidSource is returned for input that cannot be parsed at all.
var ErrInvalidSource = errors.New("invalid declaration source")

// Result is a parsed declaration file.
type Result struct {
	Module   *dts.Module
	Comments *dts.CommentStore

	// Errors holds the spans the grammar could not parse. The affected statements
	// are still present in Module as catch-all nodes.
	Errors []dts.Span
}

// Parse parses the TypeScript declaration source src.
func Parse(ctx context.Context, src []byte) (*Result, error) {
	if !utf8.Valid(src) {
		return nil, errors.Mark(errors.New("source is not valid UTF-8"), ErrInvalidSource)
	}

	// A parser is not safe for concurrent use, so each call gets its own.
	p := sitter.NewParser()
	p.SetLanguage(typescript.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrap(err, "tree-sitter parse")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.Mark(errors.New("tree-sitter returned no root node"), ErrInvalidSource)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &converter{src: src}
	c.scan(root)
	mod := &dts.Module{Span: c.span(root), Items: c.statements(root)}
	return &Result{
		Module:   mod,
		Comments: dts.NewCommentStore(src, c.comments),
		Errors:   c.errors,
	}, nil
}

type converter struct {
	src      []byte
	comments []dts.Comment
	errors   []dts.Span
}

// scan collects comments and syntax errors from the whole tree.
func (c *converter) scan(n *sitter.Node) {
	switch {
	case n.Type() == "comment":
		c.comments = append(c.comments, c.comment(n))
		return
	case n.IsMissing() || n.Type() == "ERROR":
		c.errors = append(c.errors, c.span(n))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c.scan(n.Child(i))
	}
}

func (c *converter) comment(n *sitter.Node) dts.Comment {
	text := c.text(n)
	cm := dts.Comment{Pos: int(n.StartByte()), End: int(n.EndByte())}
	if strings.HasPrefix(text, "//") {
		cm.Kind = dts.LineComment
		cm.Text = text[2:]
		return cm
	}
	cm.Kind = dts.BlockComment
	text = strings.TrimPrefix(text, "/*")
	cm.Text = strings.TrimSuffix(text, "*/")
	return cm
}

func (c *converter) span(n *sitter.Node) dts.Span {
	return dts.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.src)
}

// fieldText returns the text of n's child in field name, empty if absent.
func (c *converter) fieldText(n *sitter.Node, name string) string {
	return c.text(n.ChildByFieldName(name))
}

// named returns the named children of n, comments excluded.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func first(n *sitter.Node) *sitter.Node {
	if children := named(n); len(children) > 0 {
		return children[0]
	}
	return nil
}

// hasToken reports whether n has a direct anonymous child of type token.
func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

// kindName turns a grammar node type into a readable kind.
func kindName(nodeType string) string {
	if nodeType == "ERROR" {
		return "syntax error"
	}
	return strings.ReplaceAll(nodeType, "_", " ")
}

func (c *converter) statements(n *sitter.Node) []dts.Item {
	var items []dts.Item
	for _, child := range named(n) {
		items = append(items, c.statement(child, child))
	}
	return items
}

// statement converts a statement. outer is the outermost wrapping statement
// (`export`, `declare`) and defines the span of the result, so that leading
// comments are found before the modifiers.
func (c *converter) statement(n, outer *sitter.Node) dts.Item {
	switch n.Type() {
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return c.statement(decl, outer)
		}
	case "ambient_declaration":
		if hasToken(n, "global") {
			var body []dts.Item
			for _, child := range named(n) {
				if child.Type() == "statement_block" {
					body = c.statements(child)
				}
			}
			return &dts.NamespaceDecl{Span: c.span(outer), Global: true, Body: body}
		}
		if decl := first(n); decl != nil {
			return c.statement(decl, outer)
		}
	case "expression_statement":
		if expr := first(n); expr != nil && expr.Type() == "internal_module" {
			return c.statement(expr, outer)
		}
	case "internal_module", "module":
		return c.namespace(n, outer)
	case "class_declaration", "abstract_class_declaration":
		return c.class(n, outer)
	case "interface_declaration":
		return c.iface(n, outer)
	case "enum_declaration":
		return c.enum(n, outer)
	case "type_alias_declaration":
		return &dts.TypeAliasDecl{
			Span:       c.span(outer),
			Name:       c.fieldText(n, "name"),
			TypeParams: c.typeParams(n.ChildByFieldName("type_parameters")),
			Type:       c.typeNode(n.ChildByFieldName("value")),
		}
	case "function_signature", "function_declaration":
		return &dts.FunctionDecl{
			Span:       c.span(outer),
			Name:       c.fieldText(n, "name"),
			TypeParams: c.typeParams(n.ChildByFieldName("type_parameters")),
			Params:     c.params(n.ChildByFieldName("parameters")),
			Return:     c.typeAnn(n.ChildByFieldName("return_type")),
		}
	}
	return &dts.OtherDecl{Span: c.span(outer), Kind: kindName(n.Type()), Text: c.text(outer)}
}

func (c *converter) namespace(n, outer *sitter.Node) dts.Item {
	ns := &dts.NamespaceDecl{Span: c.span(outer)}
	if name := n.ChildByFieldName("name"); name != nil {
		if name.Type() == "string" {
			ns.Literal = c.stringValue(name)
		} else {
			ns.Name = splitPath(c.text(name))
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		ns.Body = c.statements(body)
	}
	return ns
}

func (c *converter) class(n, outer *sitter.Node) dts.Item {
	d := &dts.ClassDecl{
		Span:       c.span(outer),
		Name:       c.fieldText(n, "name"),
		Abstract:   n.Type() == "abstract_class_declaration",
		TypeParams: c.typeParams(n.ChildByFieldName("type_parameters")),
	}
	for _, child := range named(n) {
		if child.Type() != "class_heritage" {
			continue
		}
		for _, clause := range named(child) {
			switch clause.Type() {
			case "extends_clause":
				value := clause.ChildByFieldName("value")
				if value == nil {
					value = first(clause)
				}
				if value != nil {
					d.Super = c.expr(value)
				}
			case "implements_clause":
				for _, t := range named(clause) {
					d.Implements = append(d.Implements, c.typeNode(t))
				}
			}
		}
	}
	d.Members = c.members(n.ChildByFieldName("body"))
	return d
}

func (c *converter) iface(n, outer *sitter.Node) dts.Item {
	d := &dts.InterfaceDecl{
		Span:       c.span(outer),
		Name:       c.fieldText(n, "name"),
		TypeParams: c.typeParams(n.ChildByFieldName("type_parameters")),
	}
	for _, child := range named(n) {
		if child.Type() != "extends_type_clause" && child.Type() != "extends_clause" {
			continue
		}
		for _, t := range named(child) {
			d.Extends = append(d.Extends, c.typeNode(t))
		}
	}
	d.Members = c.members(n.ChildByFieldName("body"))
	return d
}

func (c *converter) enum(n, outer *sitter.Node) dts.Item {
	d := &dts.EnumDecl{
		Span:  c.span(outer),
		Name:  c.fieldText(n, "name"),
		Const: hasToken(n, "const"),
	}
	for _, child := range named(n.ChildByFieldName("body")) {
		key, init := child, (*sitter.Node)(nil)
		if child.Type() == "enum_assignment" {
			key = first(child)
			init = child.ChildByFieldName("value")
			if init == nil {
				if children := named(child); len(children) > 1 {
					init = children[len(children)-1]
				}
			}
		}
		m := dts.EnumMember{Span: c.span(child)}
		if name, ok := c.key(key); ok {
			m.Name = name
		} else {
			m.Name, m.Computed = c.text(key), true
		}
		if init != nil {
			m.Init = c.expr(init)
		}
		d.Members = append(d.Members, m)
	}
	return d
}

// key returns the identifier named by a property or enum member key. ok is false
// for computed keys and string keys that are not identifiers.
func (c *converter) key(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "identifier", "private_property_identifier":
		return c.text(n), true
	case "string":
		if s := c.stringValue(n); isIdentifier(s) {
			return s, true
		}
	}
	return "", false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// stringValue returns the text between the quotes of a string literal, escapes
// included.
func (c *converter) stringValue(n *sitter.Node) string {
	s := c.text(n)
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

func splitPath(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, ".") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func (c *converter) typeParams(n *sitter.Node) []string {
	var out []string
	for _, child := range named(n) {
		if child.Type() != "type_parameter" {
			continue
		}
		name := child.ChildByFieldName("name")
		if name == nil {
			name = first(child)
		}
		if name != nil {
			out = append(out, c.text(name))
		}
	}
	return out
}

// modifiers holds the keyword modifiers of a member.
type modifiers struct {
	access   dts.Accessibility
	kind     dts.MethodKind
	static   bool
	readonly bool
	optional bool
}

func (c *converter) modifiers(n *sitter.Node) modifiers {
	var m modifiers
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "accessibility_modifier" {
			switch c.text(child) {
			case "private":
				m.access = dts.Private
			case "protected":
				m.access = dts.Protected
			}
			continue
		}
		if child.IsNamed() {
			continue
		}
		switch child.Type() {
		case "static":
			m.static = true
		case "readonly":
			m.readonly = true
		case "?":
			m.optional = true
		case "get":
			m.kind = dts.MethodGetter
		case "set":
			m.kind = dts.MethodSetter
		}
	}
	return m
}

func (c *converter) members(body *sitter.Node) []dts.Member {
	var out []dts.Member
	for _, child := range named(body) {
		switch child.Type() {
		case "decorator":
			continue
		case "method_signature", "method_definition", "abstract_method_signature":
			out = append(out, c.method(child))
		case "public_field_definition", "property_signature":
			out = append(out, c.property(child))
		case "construct_signature":
			out = append(out, &dts.Constructor{
				Span:   c.span(child),
				Params: c.params(child.ChildByFieldName("parameters")),
			})
		default:
			out = append(out, c.unsupported(child, kindName(child.Type())))
		}
	}
	return out
}

func (c *converter) unsupported(n *sitter.Node, kind string) dts.Member {
	return &dts.UnsupportedMember{Span: c.span(n), Kind: kind, Text: c.text(n)}
}

func (c *converter) method(n *sitter.Node) dts.Member {
	keyNode := n.ChildByFieldName("name")
	name, ok := c.key(keyNode)
	if !ok {
		return c.unsupported(n, "computed member")
	}
	mods := c.modifiers(n)
	if keyNode.Type() == "private_property_identifier" {
		mods.access = dts.Private
	}
	params := c.params(n.ChildByFieldName("parameters"))

	if name == "constructor" && !mods.static {
		return &dts.Constructor{Span: c.span(n), Accessibility: mods.access, Params: params}
	}
	return &dts.Method{
		Span:          c.span(n),
		Name:          name,
		Kind:          mods.kind,
		Static:        mods.static,
		Optional:      mods.optional,
		Accessibility: mods.access,
		TypeParams:    c.typeParams(n.ChildByFieldName("type_parameters")),
		Params:        params,
		Return:        c.typeAnn(n.ChildByFieldName("return_type")),
	}
}

func (c *converter) property(n *sitter.Node) dts.Member {
	keyNode := n.ChildByFieldName("name")
	name, ok := c.key(keyNode)
	if !ok {
		return c.unsupported(n, "computed member")
	}
	mods := c.modifiers(n)
	if keyNode.Type() == "private_property_identifier" {
		mods.access = dts.Private
	}
	return &dts.Property{
		Span:          c.span(n),
		Name:          name,
		Static:        mods.static,
		Readonly:      mods.readonly,
		Optional:      mods.optional,
		Accessibility: mods.access,
		Type:          c.typeAnn(n.ChildByFieldName("type")),
	}
}

func (c *converter) params(n *sitter.Node) []dts.Param {
	var out []dts.Param
	for _, child := range named(n) {
		if child.Type() != "required_parameter" && child.Type() != "optional_parameter" {
			continue
		}
		p := dts.Param{
			Span:     c.span(child),
			Optional: child.Type() == "optional_parameter",
			Type:     c.typeAnn(child.ChildByFieldName("type")),
		}
		pattern := child.ChildByFieldName("pattern")
		switch {
		case pattern == nil:
			p.Pattern = dts.PatternDestructure
		case pattern.Type() == "identifier":
			p.Name = c.text(pattern)
		case pattern.Type() == "rest_pattern":
			p.Pattern = dts.PatternRest
		case pattern.Type() == "this":
			p.Pattern = dts.PatternThis
		default:
			p.Pattern = dts.PatternDestructure
		}
		out = append(out, p)
	}
	return out
}

// typeAnn converts a type_annotation (or return-type annotation) node.
func (c *converter) typeAnn(n *sitter.Node) *dts.TypeAnn {
	if n == nil {
		return nil
	}
	inner := first(n)
	if inner == nil {
		return nil
	}
	return &dts.TypeAnn{Span: c.span(n), Type: c.typeNode(inner)}
}

func (c *converter) typeNode(n *sitter.Node) dts.TypeNode {
	if n == nil {
		return nil
	}
	span := c.span(n)
	switch n.Type() {
	case "predefined_type":
		return &dts.KeywordType{Span: span, Keyword: dts.Keyword(c.text(n))}
	case "literal_type":
		switch inner := first(n); {
		case inner == nil:
		case inner.Type() == "undefined":
			return &dts.KeywordType{Span: span, Keyword: dts.KeywordUndefined}
		case inner.Type() == "null":
			return &dts.KeywordType{Span: span, Keyword: dts.KeywordNull}
		}
	case "type_predicate", "type_predicate_annotation":
		return &dts.KeywordType{Span: span, Keyword: dts.KeywordBoolean}
	case "asserts", "asserts_annotation":
		return &dts.KeywordType{Span: span, Keyword: dts.KeywordVoid}
	case "type_identifier", "identifier", "nested_type_identifier", "nested_identifier":
		return &dts.TypeRef{Span: span, Name: splitPath(c.text(n))}
	case "generic_type":
		name := n.ChildByFieldName("name")
		if name == nil {
			name = first(n)
		}
		ref := &dts.TypeRef{Span: span, Name: splitPath(c.text(name))}
		for _, child := range named(n) {
			if child.Type() != "type_arguments" {
				continue
			}
			for _, arg := range named(child) {
				ref.Args = append(ref.Args, c.typeNode(arg))
			}
		}
		return ref
	case "array_type":
		return &dts.ArrayType{Span: span, Elem: c.typeNode(first(n))}
	case "readonly_type", "parenthesized_type":
		return c.typeNode(first(n))
	case "object_type":
		return &dts.TypeLiteral{Span: span}
	}
	return &dts.OtherType{Span: span, Kind: kindName(n.Type()), Text: c.text(n)}
}

func (c *converter) expr(n *sitter.Node) dts.Expr {
	span := c.span(n)
	switch n.Type() {
	case "number":
		return &dts.NumberLit{Span: span, Raw: c.text(n)}
	case "string":
		return &dts.StringLit{Span: span, Value: c.stringValue(n)}
	case "unary_expression":
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		if op != nil && arg != nil {
			return &dts.UnaryExpr{Span: span, Op: c.text(op), Operand: c.expr(arg)}
		}
	case "identifier", "type_identifier", "property_identifier":
		return &dts.Ident{Span: span, Name: c.text(n)}
	case "member_expression":
		obj := n.ChildByFieldName("object")
		prop := n.ChildByFieldName("property")
		if obj != nil && prop != nil {
			return &dts.MemberExpr{Span: span, Object: c.expr(obj), Property: c.text(prop)}
		}
	case "nested_type_identifier", "nested_identifier":
		if segs := splitPath(c.text(n)); len(segs) > 0 {
			var e dts.Expr = &dts.Ident{Span: span, Name: segs[0]}
			for _, seg := range segs[1:] {
				e = &dts.MemberExpr{Span: span, Object: e, Property: seg}
			}
			return e
		}
	case "generic_type":
		// Type arguments of a superclass are dropped.
		if name := n.ChildByFieldName("name"); name != nil {
			return c.expr(name)
		}
	case "parenthesized_expression":
		if inner := first(n); inner != nil {
			return c.expr(inner)
		}
	}
	return &dts.OtherExpr{Span: span, Kind: kindName(n.Type()), Text: c.text(n)}
}
