// Package dts defines the syntax model of a TypeScript declaration file as consumed by the
// Rust binding generator. Nodes are produced by a parser and never mutated afterwards.
//
// The model is deliberately small: it names the shapes the generator knows how to
// translate and records everything else in catch-all nodes (OtherDecl, UnsupportedMember,
// OtherType, OtherExpr) so that skipped input stays auditable.
//
// Some fields record source facts the generator does not read: ClassDecl.Abstract,
// ClassDecl.Implements, EnumDecl.Const, ArrayType.Elem, TypeRef.Args and Method.Optional.
package dts

// Span is a half-open byte range [Start, End) in the source file.
type Span struct {
	Start int
	End   int
}

// Pos returns the span itself so that embedding types satisfy Node.
func (s Span) Pos() Span { return s }

// Node is implemented by every syntax node.
type Node interface {
	Pos() Span
}

// Module is the root of a parsed declaration file.
type Module struct {
	Span
	Items []Item
}

// Item is a top-level or namespace-level statement.
type Item interface {
	Node
	item()
}

// NamespaceDecl is a `namespace` or `module` declaration.
type NamespaceDecl struct {
	Span

	// Name holds the dotted name segments (`namespace a.b.c` -> ["a", "b", "c"]).
	// Empty when the declaration has no identifier name, see Literal and Global.
	Name []string

	// Literal is the module specifier of `declare module "name"`.
	Literal string

	// Global is true for `declare global { ... }`.
	Global bool

	Body []Item
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	Span
	Name       string
	Abstract   bool
	TypeParams []string

	// Super is the expression after `extends`, nil if absent.
	Super Expr

	Implements []TypeNode
	Members    []Member
}

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	Span
	Name       string
	TypeParams []string
	Extends    []TypeNode
	Members    []Member
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	Span
	Name    string
	Const   bool
	Members []EnumMember
}

// EnumMember is one enum entry. Init is nil when no initializer is present.
type EnumMember struct {
	Span
	Name string

	// Computed is true when the member key is not a plain identifier
	// (string literal or computed key). Name then holds the raw key text.
	Computed bool

	Init Expr
}

// TypeAliasDecl is a `type Name = T` declaration.
type TypeAliasDecl struct {
	Span
	Name       string
	TypeParams []string
	Type       TypeNode
}

// FunctionDecl is a `function` declaration (body, if any, is ignored).
type FunctionDecl struct {
	Span
	Name       string
	TypeParams []string
	Params     []Param
	Return     *TypeAnn
}

// OtherDecl records a statement the model does not describe
// (variables, imports, export assignments, ...).
type OtherDecl struct {
	Span
	Kind string
	Text string
}

func (*NamespaceDecl) item() {}
func (*ClassDecl) item()     {}
func (*InterfaceDecl) item() {}
func (*EnumDecl) item()      {}
func (*TypeAliasDecl) item() {}
func (*FunctionDecl) item()  {}
func (*OtherDecl) item()     {}

// Member is a class or interface member signature.
type Member interface {
	Node
	member()
}

// MethodKind distinguishes plain methods from accessors.
type MethodKind int

const (
	MethodPlain MethodKind = iota
	MethodGetter
	MethodSetter
)

// String returns a readable name for the method kind.
func (k MethodKind) String() string {
	switch k {
	case MethodGetter:
		return "getter"
	case MethodSetter:
		return "setter"
	default:
		return "method"
	}
}

// Accessibility is the TypeScript member visibility modifier.
type Accessibility int

const (
	Public Accessibility = iota
	Protected
	Private
)

// Method is a method signature or accessor.
type Method struct {
	Span
	Name          string
	Kind          MethodKind
	Static        bool
	Optional      bool
	Accessibility Accessibility
	TypeParams    []string
	Params        []Param
	Return        *TypeAnn
}

// Property is a property signature or field declaration.
type Property struct {
	Span
	Name          string
	Static        bool
	Readonly      bool
	Optional      bool
	Accessibility Accessibility
	Type          *TypeAnn
}

// Constructor is a class constructor or an interface construct signature.
type Constructor struct {
	Span
	Accessibility Accessibility
	Params        []Param
}

// UnsupportedMember records a member whose shape the generator does not translate
// (index signatures, call signatures, computed keys, ...).
type UnsupportedMember struct {
	Span
	Kind string
	Text string
}

func (*Method) member()            {}
func (*Property) member()          {}
func (*Constructor) member()       {}
func (*UnsupportedMember) member() {}

// PatternKind describes the binding form of a parameter.
type PatternKind int

const (
	PatternIdent PatternKind = iota
	PatternRest
	PatternDestructure
	PatternThis
)

// String returns a readable name for the pattern kind.
func (k PatternKind) String() string {
	switch k {
	case PatternRest:
		return "rest parameter"
	case PatternDestructure:
		return "destructuring parameter"
	case PatternThis:
		return "this parameter"
	default:
		return "identifier"
	}
}

// Param is one formal parameter.
type Param struct {
	Span
	Name     string
	Pattern  PatternKind
	Optional bool
	Type     *TypeAnn
}

// TypeAnn wraps the type following a `:` annotation.
type TypeAnn struct {
	Span
	Type TypeNode
}

// TypeNode is a type expression.
type TypeNode interface {
	Node
	typeNode()
}

// Keyword is a predefined TypeScript type keyword.
type Keyword string

const (
	KeywordAny       Keyword = "any"
	KeywordUnknown   Keyword = "unknown"
	KeywordNumber    Keyword = "number"
	KeywordBigInt    Keyword = "bigint"
	KeywordBoolean   Keyword = "boolean"
	KeywordString    Keyword = "string"
	KeywordSymbol    Keyword = "symbol"
	KeywordVoid      Keyword = "void"
	KeywordUndefined Keyword = "undefined"
	KeywordNull      Keyword = "null"
	KeywordNever     Keyword = "never"
	KeywordObject    Keyword = "object"
)

// KeywordType is a predefined type such as `string` or `void`.
type KeywordType struct {
	Span
	Keyword Keyword
}

// ArrayType is `T[]` (also `readonly T[]`).
type ArrayType struct {
	Span
	Elem TypeNode
}

// TypeLiteral is an object type literal `{ ... }`.
type TypeLiteral struct {
	Span
}

// TypeRef is a reference to a named, possibly qualified, type.
type TypeRef struct {
	Span

	// Name holds the qualified name segments (`a.B` -> ["a", "B"]).
	Name []string

	Args []TypeNode
}

// OtherType records a type expression outside the modelled subset
// (unions, functions, tuples, literal types, ...).
type OtherType struct {
	Span
	Kind string
	Text string
}

func (*KeywordType) typeNode() {}
func (*ArrayType) typeNode()   {}
func (*TypeLiteral) typeNode() {}
func (*TypeRef) typeNode()     {}
func (*OtherType) typeNode()   {}

// Expr is an expression (enum initializers and class heritage).
type Expr interface {
	Node
	expr()
}

// NumberLit is a numeric literal; Raw is the source text.
type NumberLit struct {
	Span
	Raw string
}

// StringLit is a string literal; Value has the quotes removed.
type StringLit struct {
	Span
	Value string
}

// UnaryExpr is a prefix unary expression.
type UnaryExpr struct {
	Span
	Op      string
	Operand Expr
}

// Ident is a bare identifier reference.
type Ident struct {
	Span
	Name string
}

// MemberExpr is `Object.Property`.
type MemberExpr struct {
	Span
	Object   Expr
	Property string
}

// OtherExpr records an expression outside the modelled subset.
type OtherExpr struct {
	Span
	Kind string
	Text string
}

func (*NumberLit) expr()  {}
func (*StringLit) expr()  {}
func (*UnaryExpr) expr()  {}
func (*Ident) expr()      {}
func (*MemberExpr) expr() {}
func (*OtherExpr) expr()  {}
