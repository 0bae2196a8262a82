// Package parser implements owl's recursive-descent parser (spec.md §4.1):
// a streaming, single-token-lookahead descent over the scanner's token
// stream that yields one *ast.Module per successful top-level parse. It
// follows the teacher's lang/parser/parser.go shape — a parser struct
// holding the current lookahead token, an internal panic/recover("bail")
// control flow for error propagation instead of threading errors through
// every recursive call, and an expect/advance pair — scaled to owl's much
// smaller, non-backtracking grammar (no block stack, no comment
// association).
package parser

import (
	"github.com/mna/owlc/internal/owlerr"
	"github.com/mna/owlc/lang/ast"
	"github.com/mna/owlc/lang/scanner"
	"github.com/mna/owlc/lang/token"
)

// infixKinds is the set of token kinds that may continue an infix
// expression after a parsed atom (spec.md §4.1: "lhs ∈
// {str,int,nil,bool,apply,ident}"). unary (!) is excluded: it is a prefix
// form, not an infix continuation.
var infixKinds = map[token.Kind]bool{
	token.PLUSPLUS: true,
	token.PLUS:     true,
	token.MINUS:    true,
	token.EQEQ:     true,
	token.NEQ:      true,
	token.GE:       true,
	token.GT:       true,
	token.LE:       true,
	token.LT:       true,
	token.ANDAND:   true,
	token.OROR:     true,
}

// bail is the sentinel panic value used to unwind out of a parse attempt
// once a fatal error (spec.md §4.1: "hard abort on any mismatch") has been
// recorded; it is always recovered at ParseModule's top level.
type bail struct{ err error }

// Parser consumes a token stream and builds the owl AST.
type Parser struct {
	file *token.File
	sc   *scanner.Scanner
	tok  scanner.Token
}

// New creates a Parser over file's source, primed with the first token.
func New(file *token.File) (*Parser, error) {
	p := &Parser{file: file, sc: scanner.New(file)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.sc.Next()
	if err != nil {
		if serr, ok := err.(*scanner.Error); ok {
			return owlerr.New(serr.Pos, owlerr.Syntax, "%s", serr.Msg)
		}
		return err
	}
	p.tok = tok
	return nil
}

// mustAdvance is advance's panicking counterpart, used inside parse
// functions that always run under ParseModule's recover.
func (p *Parser) mustAdvance() {
	if err := p.advance(); err != nil {
		panic(bail{err})
	}
}

func (p *Parser) errorf(format string, args ...any) {
	panic(bail{owlerr.New(p.tok.Pos, owlerr.Syntax, format, args...)})
}

// expect asserts the current token has kind k, consumes it, and returns it.
func (p *Parser) expect(k token.Kind) scanner.Token {
	if p.tok.Kind != k {
		p.errorf("expected %s, found %s", k, p.tok.Kind)
	}
	tok := p.tok
	p.mustAdvance()
	return tok
}

// AtEOF reports whether the parser has consumed every token in the file.
func (p *Parser) AtEOF() bool { return p.tok.Kind == token.EOF }

// ParseModule parses a single `module NAME { function* }` declaration. Call
// it repeatedly (checking AtEOF between calls) to consume a file containing
// more than one module; spec.md §4.1 describes the parser as "yielding a
// sequence of Module values" with "end-of-input between modules
// terminat[ing] successfully".
func (p *Parser) ParseModule() (mod *ast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bail)
			if !ok {
				panic(r)
			}
			mod, err = nil, b.err
		}
	}()
	return p.parseModule(), nil
}

// ParseModules parses every module declaration in file, in order.
func ParseModules(file *token.File) ([]*ast.Module, error) {
	p, err := New(file)
	if err != nil {
		return nil, err
	}
	var mods []*ast.Module
	for !p.AtEOF() {
		mod, err := p.ParseModule()
		if err != nil {
			return nil, err
		}
		mods = append(mods, mod)
	}
	return mods, nil
}

func (p *Parser) parseModule() *ast.Module {
	start := p.expect(token.MODULE).Pos
	name := p.expect(token.IDENT).Lit
	p.expect(token.LBRACE)

	var fns []*ast.Function
	for p.tok.Kind != token.RBRACE {
		fns = append(fns, p.parseFunction())
	}
	end := p.tok.Pos + 1
	p.mustAdvance() // consume '}'

	return &ast.Module{Name: name, Functions: fns, Pos: start, End: end}
}

func (p *Parser) parseFunction() *ast.Function {
	start := p.expect(token.FN).Pos
	name := p.expect(token.IDENT).Lit
	p.expect(token.LPAREN)
	args := p.parseArgs()
	p.expect(token.RPAREN)
	if len(args) > 255 {
		p.errorf("function %q has arity %d, exceeds 255", name, len(args))
	}
	body, end := p.parseBlock()
	return &ast.Function{Name: name, Args: args, Body: body, Pos: start, End: end}
}

// parseArgs parses a comma-separated identifier list up to (not consuming)
// the closing ')', used by both function declarations and anon_fn.
func (p *Parser) parseArgs() []ast.Argument {
	var args []ast.Argument
	if p.tok.Kind == token.RPAREN {
		return args
	}
	for {
		tok := p.expect(token.IDENT)
		args = append(args, ast.Argument{Name: tok.Lit, Pos: tok.Pos})
		if p.tok.Kind != token.COMMA {
			break
		}
		p.mustAdvance()
	}
	return args
}

// parseBlock parses `'{' expr* '}'` and returns the body along with the
// position just past the closing brace.
func (p *Parser) parseBlock() ([]ast.Expr, token.Pos) {
	p.expect(token.LBRACE)
	var body []ast.Expr
	for p.tok.Kind != token.RBRACE {
		body = append(body, p.parseExpr())
	}
	end := p.tok.Pos + 1
	p.mustAdvance() // consume '}'
	return body, end
}

// parseExpr parses one expr production (spec.md §4.1). `if` and `let` are
// handled up front since they are not valid infix left operands; every
// other form is parsed as an atom and then, if that atom is a literal,
// identifier or call and an infix operator token follows, rebuilt as the
// desugared Apply(None, op, [lhs, rhs]) with a right-associative recursive
// call for rhs (spec.md §4.1: "no precedence climb is performed — infix is
// right-associative by construction").
func (p *Parser) parseExpr() ast.Expr {
	switch p.tok.Kind {
	case token.IF:
		return p.parseIf()
	case token.LET:
		return p.parseLet()
	}

	lhs := p.parseAtom()
	switch lhs.(type) {
	case *ast.StrExpr, *ast.IntExpr, *ast.NilExpr, *ast.TrueExpr, *ast.FalseExpr, *ast.ApplyExpr, *ast.IdentExpr:
	default:
		return lhs
	}
	if infixKinds[p.tok.Kind] {
		op := p.tok.Kind.String()
		opPos := p.tok.Pos
		p.mustAdvance()
		rhs := p.parseExpr()
		_, end := rhs.Span()
		return &ast.ApplyExpr{Name: op, Args: []ast.Expr{lhs, rhs}, Pos: opPos, End: end}
	}
	return lhs
}

// parseAtom parses the non-infix, non-if, non-let forms: literals, ident,
// apply, capture, unary, tuple, list and anon_fn.
func (p *Parser) parseAtom() ast.Expr {
	switch p.tok.Kind {
	case token.INT:
		tok := p.tok
		p.mustAdvance()
		return &ast.IntExpr{Text: tok.Lit, Pos: tok.Pos}
	case token.STRING:
		tok := p.tok
		p.mustAdvance()
		return &ast.StrExpr{Text: tok.Lit, Pos: tok.Pos}
	case token.TRUE:
		pos := p.tok.Pos
		p.mustAdvance()
		return &ast.TrueExpr{Pos: pos}
	case token.FALSE:
		pos := p.tok.Pos
		p.mustAdvance()
		return &ast.FalseExpr{Pos: pos}
	case token.NIL:
		pos := p.tok.Pos
		p.mustAdvance()
		return &ast.NilExpr{Pos: pos}
	case token.BANG:
		pos := p.tok.Pos
		p.mustAdvance()
		operand := p.parseAtom()
		_, end := operand.Span()
		return &ast.ApplyExpr{Name: "!", Args: []ast.Expr{operand}, Pos: pos, End: end}
	case token.LBRACK:
		return p.parseList()
	case token.LPAREN:
		return p.parseParenOrAnonFn()
	case token.IDENT:
		return p.parseIdentLed()
	default:
		p.errorf("unexpected token %s", p.tok.Kind)
		panic("unreachable")
	}
}

func (p *Parser) parseIf() ast.Expr {
	start := p.expect(token.IF).Pos
	cond := p.parseExpr()
	then, end := p.parseBlock()
	var els []ast.Expr
	if p.tok.Kind == token.ELSE {
		p.mustAdvance()
		els, end = p.parseBlock()
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: els, Pos: start, End: end}
}

func (p *Parser) parseLet() ast.Expr {
	start := p.expect(token.LET).Pos
	name := p.expect(token.IDENT).Lit
	p.expect(token.EQ)
	value := p.parseExpr()
	return &ast.LetExpr{Name: name, Value: value, Pos: start}
}

// parseIdentLed parses every form that begins with an identifier: a bare
// variable reference, an optional `.` module prefix, and then either a call
// `(...)`, a capture `\N`, or nothing (a plain Ident).
func (p *Parser) parseIdentLed() ast.Expr {
	first := p.expect(token.IDENT)
	module, name := "", first.Lit

	if p.tok.Kind == token.DOT {
		p.mustAdvance()
		module = name
		name = p.expect(token.IDENT).Lit
	}

	switch p.tok.Kind {
	case token.LPAREN:
		p.mustAdvance()
		args := p.parseExprList(token.RPAREN)
		end := p.tok.Pos + 1
		p.expect(token.RPAREN)
		if len(args) > 255 {
			p.errorf("call to %q has %d arguments, exceeds 255", name, len(args))
		}
		return &ast.ApplyExpr{Module: module, Name: name, Args: args, Pos: first.Pos, End: end}
	case token.BSLASH:
		p.mustAdvance()
		arityTok := p.expect(token.INT)
		if len(arityTok.Lit) > 18 || atoi(arityTok.Lit) > 255 {
			p.errorf("capture of %q has arity %s, exceeds 255", name, arityTok.Lit)
		}
		arity := atoi(arityTok.Lit)
		return &ast.CaptureExpr{Module: module, Name: name, Arity: arity, Pos: first.Pos}
	}

	if module != "" {
		p.errorf("expected '(' or '\\' after module prefix %q.%q", module, name)
	}
	return &ast.IdentExpr{Name: name, Pos: first.Pos}
}

// parseExprList parses a comma-separated expr list up to (not consuming)
// end.
func (p *Parser) parseExprList(end token.Kind) []ast.Expr {
	var exprs []ast.Expr
	if p.tok.Kind == end {
		return exprs
	}
	for {
		exprs = append(exprs, p.parseExpr())
		if p.tok.Kind != token.COMMA {
			break
		}
		p.mustAdvance()
	}
	return exprs
}

// parseParenOrAnonFn disambiguates `tuple` from `anon_fn` by parsing the
// parenthesized, comma-separated element list generically and then peeking
// for a following `=>`: if present, every element must be a bare
// identifier and the form is an AnonFn; otherwise it is a Tuple. This
// single-token lookahead keeps the grammar's listed alternation order
// (tuple before anon_fn) from making the anon_fn production unreachable for
// literal cases like `() => { ... }`.
func (p *Parser) parseParenOrAnonFn() ast.Expr {
	start := p.tok.Pos
	p.mustAdvance() // consume '('
	elems := p.parseExprList(token.RPAREN)
	closeParen := p.tok.Pos
	p.expect(token.RPAREN)

	if p.tok.Kind == token.ARROW {
		p.mustAdvance()
		args := make([]ast.Argument, len(elems))
		for i, e := range elems {
			ident, ok := e.(*ast.IdentExpr)
			if !ok {
				p.errorf("anonymous function parameter must be a plain identifier")
			}
			args[i] = ast.Argument{Name: ident.Name, Pos: ident.Pos}
		}
		body, end := p.parseBlock()
		return &ast.AnonFnExpr{Args: args, Body: body, Pos: start, End: end}
	}

	return &ast.TupleExpr{Elems: elems, Pos: start, End: closeParen + 1}
}

func (p *Parser) parseList() ast.Expr {
	start := p.tok.Pos
	p.mustAdvance() // consume '['
	elems := p.parseExprList(token.RBRACK)
	end := p.tok.Pos + 1
	p.expect(token.RBRACK)
	return &ast.ListExpr{Elems: elems, Pos: start, End: end}
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
