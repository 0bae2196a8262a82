package ast

import "github.com/mna/owlc/lang/token"

type (
	// IntExpr is an integer literal; Text is the raw digit sequence as
	// written (spec.md §3 "Int(text)"), parsed to a value during lowering.
	IntExpr struct {
		Text string
		Pos  token.Pos
	}

	// StrExpr is a double-quoted string literal with escapes already decoded
	// by the scanner.
	StrExpr struct {
		Text string
		Pos  token.Pos
	}

	// TrueExpr is the `true` literal.
	TrueExpr struct{ Pos token.Pos }

	// FalseExpr is the `false` literal.
	FalseExpr struct{ Pos token.Pos }

	// NilExpr is the `nil` literal.
	NilExpr struct{ Pos token.Pos }

	// IdentExpr is a bare identifier reference.
	IdentExpr struct {
		Name string
		Pos  token.Pos
	}

	// ApplyExpr is a function call `(module.)?name(args)`, also the desugared
	// form of every infix and unary operator (spec.md §4.1: "All infix and
	// unary forms desugar to Apply(None, op, args)").
	ApplyExpr struct {
		Module string // empty if no module prefix was written
		Name   string
		Args   []Expr
		Pos    token.Pos
		End    token.Pos
	}

	// Arity returns len(Args); spec.md bounds this to 255.
	// (method declared below, outside the type block)

	// IfExpr is `if cond { then } (else { else })?`.
	IfExpr struct {
		Cond     Expr
		Then     []Expr
		Else     []Expr
		Pos      token.Pos
		End      token.Pos
	}

	// LetExpr is `let name = value`; spec.md §4.2 forbids rebinding/shadowing.
	LetExpr struct {
		Name  string
		Value Expr
		Pos   token.Pos
	}

	// TupleExpr is `(e1, e2, ...)`.
	TupleExpr struct {
		Elems []Expr
		Pos   token.Pos
		End   token.Pos
	}

	// ListExpr is `[e1, e2, ...]`.
	ListExpr struct {
		Elems []Expr
		Pos   token.Pos
		End   token.Pos
	}

	// CaptureExpr is `(module.)?name\arity`, a first-class reference to a
	// named function usable with CallLocal (spec.md GLOSSARY "Capture").
	CaptureExpr struct {
		Module string
		Name   string
		Arity  int
		Pos    token.Pos
	}

	// AnonFnExpr is `(args) => { body }`, an inline closure literal.
	AnonFnExpr struct {
		Args []Argument
		Body []Expr
		Pos  token.Pos
		End  token.Pos
	}
)

func (e *IntExpr) exprNode()     {}
func (e *StrExpr) exprNode()     {}
func (e *TrueExpr) exprNode()    {}
func (e *FalseExpr) exprNode()   {}
func (e *NilExpr) exprNode()     {}
func (e *IdentExpr) exprNode()   {}
func (e *ApplyExpr) exprNode()   {}
func (e *IfExpr) exprNode()      {}
func (e *LetExpr) exprNode()     {}
func (e *TupleExpr) exprNode()   {}
func (e *ListExpr) exprNode()    {}
func (e *CaptureExpr) exprNode() {}
func (e *AnonFnExpr) exprNode()  {}

func (e *IntExpr) Span() (token.Pos, token.Pos)   { return e.Pos, e.Pos + token.Pos(len(e.Text)) }
func (e *StrExpr) Span() (token.Pos, token.Pos)   { return e.Pos, e.Pos }
func (e *TrueExpr) Span() (token.Pos, token.Pos)  { return e.Pos, e.Pos + 4 }
func (e *FalseExpr) Span() (token.Pos, token.Pos) { return e.Pos, e.Pos + 5 }
func (e *NilExpr) Span() (token.Pos, token.Pos)   { return e.Pos, e.Pos + 3 }
func (e *IdentExpr) Span() (token.Pos, token.Pos) { return e.Pos, e.Pos + token.Pos(len(e.Name)) }
func (e *ApplyExpr) Span() (token.Pos, token.Pos) { return e.Pos, e.End }
func (e *IfExpr) Span() (token.Pos, token.Pos)    { return e.Pos, e.End }
func (e *LetExpr) Span() (token.Pos, token.Pos) {
	_, end := e.Value.Span()
	return e.Pos, end
}
func (e *TupleExpr) Span() (token.Pos, token.Pos)   { return e.Pos, e.End }
func (e *ListExpr) Span() (token.Pos, token.Pos)    { return e.Pos, e.End }
func (e *CaptureExpr) Span() (token.Pos, token.Pos) { return e.Pos, e.Pos }
func (e *AnonFnExpr) Span() (token.Pos, token.Pos)  { return e.Pos, e.End }

// Arity returns the argument count of an ApplyExpr.
func (e *ApplyExpr) Arity() int { return len(e.Args) }
