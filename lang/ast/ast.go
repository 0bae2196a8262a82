// Package ast defines the owl abstract syntax tree: a tagged-variant
// Expr for expressions, plus the top-level Function and Module records
// (spec.md §3 "Expression", "Function", "Module"). The parser produces one
// Module value per successful top-level parse; the compiler consumes it
// once and discards it (spec.md §3 "Lifecycles").
//
// This mirrors the shape of the teacher's lang/ast package (one struct per
// node kind implementing a common Node interface) scaled down to owl's much
// smaller grammar: there is no statement/expression split, no class or loop
// machinery, just the thirteen Expr variants spec.md names.
package ast

import "github.com/mna/owlc/lang/token"

// Node is implemented by every AST node and reports its source span.
type Node interface {
	Span() (start, end token.Pos)
}

// Expr is the tagged union of owl expression forms. The concrete types are
// IntExpr, StrExpr, TrueExpr, FalseExpr, NilExpr, IdentExpr, ApplyExpr,
// IfExpr, LetExpr, TupleExpr, ListExpr, CaptureExpr and AnonFnExpr.
type Expr interface {
	Node
	exprNode()
}

// Argument is a single formal parameter of a Function or AnonFnExpr.
type Argument struct {
	Name string
	Pos  token.Pos
}

// Function is a top-level named function: `fn name(args) { body }`.
type Function struct {
	Name string
	Args []Argument
	Body []Expr

	Pos token.Pos // position of the "fn" keyword
	End token.Pos
}

// Arity returns len(Args); spec.md bounds this to 255.
func (f *Function) Arity() int { return len(f.Args) }

func (f *Function) Span() (start, end token.Pos) { return f.Pos, f.End }

// Module is `module Name { function* }`; Name prefixes every function's
// exported name as "<module>.<func>" (spec.md §3 "Module").
type Module struct {
	Name      string
	Functions []*Function

	Pos token.Pos
	End token.Pos
}

func (m *Module) Span() (start, end token.Pos) { return m.Pos, m.End }
