package rust

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/ts2rs/rsgen/dts"
)

// ErrUnsupportedConstExpr is returned for expressions outside the constant subset.
var ErrUnsupportedConstExpr = errors.New("unsupported constant expression")

// EvalConst renders a constant expression as Rust source text.
//
// Supported, in order: numeric literals (integers in any radix are rendered in
// decimal), string literals, unary minus applied to a numeric literal, and bare
// identifiers. Anything else yields an error wrapping ErrUnsupportedConstExpr.
func EvalConst(expr dts.Expr) (string, error) {
	switch e := expr.(type) {
	case *dts.NumberLit:
		return decimal(e.Raw), nil
	case *dts.StringLit:
		return `"` + e.Value + `"`, nil
	case *dts.UnaryExpr:
		if n, ok := e.Operand.(*dts.NumberLit); ok && e.Op == "-" {
			return "-" + decimal(n.Raw), nil
		}
	case *dts.Ident:
		return e.Name, nil
	}
	return "", unsupportedConst(expr)
}

// EvalPath renders an identifier or a chain of property accesses (`a.b.C`)
// as a Rust path (`a::b::C`).
func EvalPath(expr dts.Expr) (string, error) {
	switch e := expr.(type) {
	case *dts.Ident:
		return e.Name, nil
	case *dts.MemberExpr:
		obj, err := EvalPath(e.Object)
		if err != nil {
			return "", err
		}
		return obj + "::" + e.Property, nil
	}
	return "", unsupportedConst(expr)
}

func decimal(raw string) string {
	if v, err := strconv.ParseInt(strings.ReplaceAll(raw, "_", ""), 0, 64); err == nil {
		return strconv.FormatInt(v, 10)
	}
	return raw
}

func unsupportedConst(expr dts.Expr) error {
	kind, text := describeExpr(expr)
	err := errors.Wrapf(ErrUnsupportedConstExpr, "%s %q at offset %d", kind, text, exprStart(expr))
	return errors.WithHint(err, "only numeric and string literals, negated numbers and identifiers can be evaluated")
}

func describeExpr(expr dts.Expr) (kind, text string) {
	switch e := expr.(type) {
	case nil:
		return "missing expression", ""
	case *dts.OtherExpr:
		return e.Kind, e.Text
	case *dts.UnaryExpr:
		_, inner := describeExpr(e.Operand)
		return "unary expression", e.Op + inner
	case *dts.MemberExpr:
		_, inner := describeExpr(e.Object)
		return "member expression", inner + "." + e.Property
	case *dts.NumberLit:
		return "number", e.Raw
	case *dts.StringLit:
		return "string", e.Value
	case *dts.Ident:
		return "identifier", e.Name
	default:
		return "expression", ""
	}
}

func exprStart(expr dts.Expr) int {
	if expr == nil {
		return -1
	}
	return expr.Pos().Start
}
