// Package compiler implements owl's bytecode generator (spec.md §4): the
// per-function register allocator, expression lowerer, short-circuit and
// branch-displacement patcher, and the binary/human-readable encoders. The
// core algorithm is ported from original_source's FnGenerator
// (compiler/src/bytecode/mod.rs), the Rust implementation this
// specification was distilled from, expressed in the teacher's idiom:
// explicit (Instr, error) returns in place of panics, and a single flexible
// Instr record in place of per-opcode structs (see instr.go).
package compiler

import (
	"fmt"

	"github.com/mna/owlc/internal/owlerr"
	"github.com/mna/owlc/lang/ast"
	"github.com/mna/owlc/lang/resolver"
	"github.com/mna/owlc/lang/token"
)

// generator is one function's lowering context (spec.md §3 "Function env
// (per-scope)" / §9 "Cyclic ownership"): a register high-water mark, the
// scope chain used for identifier resolution and upvalue lifting, and an
// optional parent for nested (anonymous) functions. A generator is created
// on entering a function, lives only long enough to produce its
// instruction list, and is discarded once the parent has embedded the
// result (spec.md §3 "Lifecycles").
type generator struct {
	varCount     int
	moduleName   string
	functionName string
	scope        *resolver.Scope
	parent       *generator
}

func newGenerator(moduleName, functionName string, args []ast.Argument, parent *generator) (*generator, error) {
	var parentScope *resolver.Scope
	if parent != nil {
		parentScope = parent.scope
	}
	g := &generator{
		moduleName:   moduleName,
		functionName: functionName,
		scope:        resolver.NewScope(parentScope),
		parent:       parent,
	}
	for _, a := range args {
		g.varCount++
		ref := resolver.VarRef{Kind: resolver.Register, Index: g.varCount}
		if err := g.scope.Define(a.Pos, a.Name, ref); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// push allocates the next register (spec.md §4.3 "push(): increment
// var_count, return Register(var_count)").
func (g *generator) push(pos token.Pos) (resolver.VarRef, error) {
	g.varCount++
	if g.varCount > resolver.MaxIndex {
		return resolver.VarRef{}, owlerr.New(pos, owlerr.Overflow, "register index %d exceeds %d", g.varCount, resolver.MaxIndex)
	}
	return resolver.VarRef{Kind: resolver.Register, Index: g.varCount}, nil
}

// pop releases the most recently pushed register (spec.md §4.3 "pop():
// return Register(var_count), then decrement").
func (g *generator) pop() resolver.VarRef {
	ref := resolver.VarRef{Kind: resolver.Register, Index: g.varCount}
	g.varCount--
	return ref
}

// GenerateModule lowers an *ast.Module into a Program: one generator per
// top-level function, each rooted (parent == nil) since owl has no nested
// module scopes.
func GenerateModule(mod *ast.Module) (*Program, error) {
	fns := make([]*Function, 0, len(mod.Functions))
	for _, f := range mod.Functions {
		fn, err := generateFunction(mod.Name, f, nil)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return &Program{Name: mod.Name, Functions: fns}, nil
}

func generateFunction(moduleName string, fn *ast.Function, parent *generator) (*Function, error) {
	g, err := newGenerator(moduleName, fn.Name, fn.Args, parent)
	if err != nil {
		return nil, err
	}
	code, err := g.generateCode(fn.Body)
	if err != nil {
		return nil, err
	}
	return &Function{
		Name:  moduleName + "." + fn.Name,
		Arity: len(fn.Args),
		Code:  code,
	}, nil
}

// generateCode lowers a function body into the register-0-out block,
// followed by the mandatory trailing Return (spec.md §4.4: "Every function
// body ends with an explicit Return").
func (g *generator) generateCode(body []ast.Expr) ([]Instr, error) {
	code, err := g.generateBlock(resolver.VarRef{Kind: resolver.Register, Index: 0}, body)
	if err != nil {
		return nil, err
	}
	return append(code, Instr{Op: Return}), nil
}

// generateBlock lowers a `{ expr* }` body. Each expression in the block is
// lowered to the same out register — the value of a non-final expression
// is simply overwritten by the next one, with no intermediate binding
// (spec.md §4.4). An empty block is `StoreNil(out)`.
func (g *generator) generateBlock(out resolver.VarRef, block []ast.Expr) ([]Instr, error) {
	if len(block) == 0 {
		return []Instr{{Op: StoreNil, A: out}}, nil
	}
	var code []Instr
	for _, e := range block {
		sub, err := g.generateExpr(out, e)
		if err != nil {
			return nil, err
		}
		code = append(code, sub...)
	}
	return code, nil
}

func (g *generator) generateExpr(out resolver.VarRef, expr ast.Expr) ([]Instr, error) {
	switch e := expr.(type) {
	case *ast.IntExpr:
		val, err := parseIntLiteral(e.Text, e.Pos)
		if err != nil {
			return nil, err
		}
		return []Instr{{Op: StoreInt, A: out, Imm: val}}, nil
	case *ast.StrExpr:
		return []Instr{{Op: LoadString, A: out, Name: e.Text}}, nil
	case *ast.TrueExpr:
		return []Instr{{Op: StoreTrue, A: out}}, nil
	case *ast.FalseExpr:
		return []Instr{{Op: StoreFalse, A: out}}, nil
	case *ast.NilExpr:
		return []Instr{{Op: StoreNil, A: out}}, nil
	case *ast.IdentExpr:
		ref, err := g.scope.Lookup(e.Pos, e.Name)
		if err != nil {
			return nil, err
		}
		return []Instr{{Op: Mov, A: out, B: ref}}, nil
	case *ast.ApplyExpr:
		return g.generateApply(out, e)
	case *ast.IfExpr:
		return g.generateIf(out, e)
	case *ast.LetExpr:
		return g.generateLet(e)
	case *ast.TupleExpr:
		return g.generateTupleOrList(out, Tuple, e.Pos, e.Elems)
	case *ast.ListExpr:
		return g.generateTupleOrList(out, List, e.Pos, e.Elems)
	case *ast.CaptureExpr:
		module := e.Module
		if module == "" {
			module = g.moduleName
		}
		return []Instr{{Op: Capture, A: out, Name: module + "." + e.Name, Arity: e.Arity}}, nil
	case *ast.AnonFnExpr:
		return g.generateAnonFn(out, e)
	default:
		return nil, fmt.Errorf("compiler: unhandled expression type %T", expr)
	}
}

// generateApply lowers a call/operator expression (spec.md §4.4 "Apply").
// `&&` and `||` are special-cased into the If pattern before builtin
// dispatch is even consulted, matching original_source's FnGenerator.
func (g *generator) generateApply(out resolver.VarRef, e *ast.ApplyExpr) ([]Instr, error) {
	if e.Module == "" && len(e.Args) == 2 {
		switch e.Name {
		case "&&":
			return g.generateAndAnd(out, e.Args[0], e.Args[1])
		case "||":
			return g.generateOrOr(out, e.Args[0], e.Args[1])
		}
	}

	var code []Instr
	argRegs := make([]resolver.VarRef, len(e.Args))
	for i, a := range e.Args {
		r, err := g.push(e.Pos)
		if err != nil {
			return nil, err
		}
		sub, err := g.generateExpr(r, a)
		if err != nil {
			return nil, err
		}
		code = append(code, sub...)
		argRegs[i] = r
	}
	for range e.Args {
		g.pop()
	}

	tail, err := g.applyOp(out, e, argRegs)
	if err != nil {
		return nil, err
	}
	return append(code, tail...), nil
}

// applyOp dispatches to a dedicated builtin opcode by name alone — the
// module prefix, if any, is not consulted for this check, matching
// original_source's apply_op — falling back to genericApply otherwise.
func (g *generator) applyOp(out resolver.VarRef, e *ast.ApplyExpr, args []resolver.VarRef) ([]Instr, error) {
	if op, ok := builtins[e.Name]; ok {
		return g.emitBuiltin(e.Pos, op, out, args)
	}
	return g.genericApply(out, e, args)
}

func (g *generator) emitBuiltin(pos token.Pos, op Op, out resolver.VarRef, args []resolver.VarRef) ([]Instr, error) {
	arityErr := func(want int) error {
		return owlerr.New(pos, owlerr.Syntax, "%s expects %d argument(s), got %d", op, want, len(args))
	}
	switch op {
	case Add, Sub, Concat, Eq, NotEq, GreaterThan, StringContains, TupleNth, ListNth:
		if len(args) != 2 {
			return nil, arityErr(2)
		}
		return []Instr{{Op: op, A: out, B: args[0], C: args[1]}}, nil
	case Not, ListCount, StringCount, CodeLoad, FunctionName, ToString:
		if len(args) != 1 {
			return nil, arityErr(1)
		}
		return []Instr{{Op: op, A: out, B: args[0]}}, nil
	case Exit, Print:
		if len(args) != 1 {
			return nil, arityErr(1)
		}
		return []Instr{{Op: op, A: args[0]}}, nil
	case FilePwd:
		if len(args) != 0 {
			return nil, arityErr(0)
		}
		return []Instr{{Op: FilePwd, A: out}}, nil
	case FileLs:
		if len(args) != 1 {
			return nil, arityErr(1)
		}
		return []Instr{{Op: FileLs, A: out, B: args[0]}}, nil
	case ListSlice, StringSlice:
		if len(args) != 3 {
			return nil, arityErr(3)
		}
		return []Instr{{Op: op, A: out, B: args[0], C: args[1], D: args[2]}}, nil
	default:
		return nil, fmt.Errorf("compiler: unhandled builtin opcode %s", op)
	}
}

// genericApply lowers a non-builtin call: CallLocal if the name resolves
// to an in-scope VarRef and no module prefix was supplied, otherwise Call
// against the fully-qualified "<module>.<name>" (spec.md §4.4).
func (g *generator) genericApply(out resolver.VarRef, e *ast.ApplyExpr, args []resolver.VarRef) ([]Instr, error) {
	if e.Module == "" {
		ref, ok, err := g.scope.TryLookup(e.Pos, e.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			return []Instr{{Op: CallLocal, A: out, B: ref, Regs: args}}, nil
		}
	}

	module := e.Module
	if module == "" {
		module = g.moduleName
	}
	return []Instr{{Op: Call, A: out, Name: module + "." + e.Name, Arity: len(e.Args), Regs: args}}, nil
}

// generateAndAnd lowers `a && b` to the If pattern with the right operand
// as the then-branch and an empty else-branch (spec.md §4.4).
func (g *generator) generateAndAnd(out resolver.VarRef, left, right ast.Expr) ([]Instr, error) {
	code, err := g.generateExpr(out, left)
	if err != nil {
		return nil, err
	}
	thenBr, err := g.generateExpr(out, right)
	if err != nil {
		return nil, err
	}
	return genBranchInto(code, out, thenBr, nil), nil
}

// generateOrOr lowers `a || b` to the If pattern with the right operand as
// the else-branch and an empty then-branch.
func (g *generator) generateOrOr(out resolver.VarRef, left, right ast.Expr) ([]Instr, error) {
	code, err := g.generateExpr(out, left)
	if err != nil {
		return nil, err
	}
	elseBr, err := g.generateExpr(out, right)
	if err != nil {
		return nil, err
	}
	return genBranchInto(code, out, nil, elseBr), nil
}

// genBranchInto implements the branch patcher (spec.md §4.4/§9): if the
// then-branch is non-empty, append a Jmp past it to the end of the
// else-branch (the "empty branch" optimization intentionally omits this
// Jmp when the then-branch is empty, which `||` relies on). Then emit
// Test(reg, len(else)+1) followed by else, then then.
func genBranchInto(code []Instr, reg resolver.VarRef, thenBr, elseBr []Instr) []Instr {
	thenSize := byteSizeSeq(thenBr)
	if thenSize > 0 {
		elseBr = append(elseBr, Instr{Op: Jmp, Jump: thenSize + 1})
	}
	elseSize := byteSizeSeq(elseBr)

	code = append(code, Instr{Op: Test, A: reg, Jump: elseSize + 1})
	code = append(code, elseBr...)
	code = append(code, thenBr...)
	return code
}

// generateIf lowers `if cond { then } (else { else })?` (spec.md §4.4).
// Notably the then/else bodies are lowered — and so claim their temporary
// registers — before the condition register is pushed, and the condition's
// register is never popped afterward: this mirrors original_source's
// FnGenerator exactly and is load-bearing for the exact register numbers
// in spec.md §8's worked examples, even though it means an If leaves
// var_count one higher than before it ran (the one documented exception,
// alongside Let, to the "lowering restores var_count" contract).
func (g *generator) generateIf(out resolver.VarRef, e *ast.IfExpr) ([]Instr, error) {
	thenBr, err := g.generateBlock(out, e.Then)
	if err != nil {
		return nil, err
	}
	elseBr, err := g.generateBlock(out, e.Else)
	if err != nil {
		return nil, err
	}

	condOut, err := g.push(e.Pos)
	if err != nil {
		return nil, err
	}
	condCode, err := g.generateExpr(condOut, e.Cond)
	if err != nil {
		return nil, err
	}

	return genBranchInto(condCode, condOut, thenBr, elseBr), nil
}

// generateLet lowers `let name = value` (spec.md §4.2): the value is
// lowered into a freshly pushed register before name is inserted into the
// scope, so a self-referential `let a = a` resolves against any outer `a`
// (or fails undefined) rather than the new binding. Define rejects the
// rebind/shadow case.
func (g *generator) generateLet(e *ast.LetExpr) ([]Instr, error) {
	r, err := g.push(e.Pos)
	if err != nil {
		return nil, err
	}
	code, err := g.generateExpr(r, e.Value)
	if err != nil {
		return nil, err
	}
	if err := g.scope.Define(e.Pos, e.Name, r); err != nil {
		return nil, err
	}
	return code, nil
}

// generateTupleOrList lowers Tuple/List construction: each element into its
// own freshly pushed register, then the registers are popped back off and
// passed to the Tuple/List instruction (spec.md §4.4).
func (g *generator) generateTupleOrList(out resolver.VarRef, op Op, pos token.Pos, elems []ast.Expr) ([]Instr, error) {
	if len(elems) > 255 {
		return nil, owlerr.New(pos, owlerr.Overflow, "%s has %d elements, exceeds 255", op, len(elems))
	}
	var code []Instr
	regs := make([]resolver.VarRef, len(elems))
	for i, el := range elems {
		r, err := g.push(pos)
		if err != nil {
			return nil, err
		}
		sub, err := g.generateExpr(r, el)
		if err != nil {
			return nil, err
		}
		code = append(code, sub...)
		regs[i] = r
	}
	for range elems {
		g.pop()
	}
	return append(code, Instr{Op: op, A: out, Regs: regs}), nil
}

// generateAnonFn lowers `(args) => { body }` (spec.md §4.4): a child
// generator parented on g lowers the body, the byte size of that embedded
// code becomes the AnonFn's skip displacement, and the child's frozen
// upvalue list becomes the AnonFn's capture list.
func (g *generator) generateAnonFn(out resolver.VarRef, e *ast.AnonFnExpr) ([]Instr, error) {
	if len(e.Args) > 255 {
		return nil, owlerr.New(e.Pos, owlerr.Overflow, "anonymous function has arity %d, exceeds 255", len(e.Args))
	}
	child, err := newGenerator(g.moduleName, "anon", e.Args, g)
	if err != nil {
		return nil, err
	}
	code, err := child.generateCode(e.Body)
	if err != nil {
		return nil, err
	}

	jmp := byteSizeSeq(code) + 1
	if jmp > 255 {
		return nil, owlerr.New(e.Pos, owlerr.Overflow, "anonymous function body displacement %d exceeds 255", jmp)
	}

	instr := Instr{Op: AnonFn, A: out, Jump: jmp, Arity: len(e.Args), Regs: child.scope.Upvals()}
	return append([]Instr{instr}, code...), nil
}

// parseIntLiteral parses a decimal digit string into the 0..62499 range a
// two-byte base-250 pair can represent (spec.md §3 "immediate integer
// literals encode as (val % 250, val / 250) ... range 0..62500"; 62499 is
// the largest value two base-250 digits can actually hold). A hand-rolled
// loop is used instead of strconv so overflow is caught digit-by-digit
// without a second range check.
func parseIntLiteral(text string, pos token.Pos) (int, error) {
	n := 0
	for _, c := range text {
		n = n*10 + int(c-'0')
		if n > 62499 {
			return 0, owlerr.New(pos, owlerr.Overflow, "integer literal %q exceeds 62499", text)
		}
	}
	return n, nil
}
