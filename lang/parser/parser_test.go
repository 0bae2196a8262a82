package parser_test

import (
	"strings"
	"testing"

	"github.com/mna/owlc/lang/ast"
	"github.com/mna/owlc/lang/parser"
	"github.com/mna/owlc/lang/token"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) *ast.Module {
	t.Helper()
	file := token.NewFile("test.owl", []byte(src))
	mods, err := parser.ParseModules(file)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	return mods[0]
}

func TestParseModule_SimpleAdd(t *testing.T) {
	mod := parseOne(t, `module U { fn main() { 1 + 2 } }`)
	require.Equal(t, "U", mod.Name)
	require.Len(t, mod.Functions, 1)

	fn := mod.Functions[0]
	require.Equal(t, "main", fn.Name)
	require.Empty(t, fn.Args)
	require.Len(t, fn.Body, 1)

	apply, ok := fn.Body[0].(*ast.ApplyExpr)
	require.True(t, ok)
	require.Equal(t, "+", apply.Name)
	require.Empty(t, apply.Module)
	require.Len(t, apply.Args, 2)
	require.IsType(t, &ast.IntExpr{}, apply.Args[0])
	require.IsType(t, &ast.IntExpr{}, apply.Args[1])
}

func TestParseModule_RightAssociativeInfix(t *testing.T) {
	// spec.md §9: "1 - 2 - 3" parses as "1 - (2 - 3)", not left-associative.
	mod := parseOne(t, `module U { fn main() { 1 - 2 - 3 } }`)
	outer := mod.Functions[0].Body[0].(*ast.ApplyExpr)
	require.Equal(t, "-", outer.Name)
	lhs, ok := outer.Args[0].(*ast.IntExpr)
	require.True(t, ok)
	require.Equal(t, "1", lhs.Text)

	inner, ok := outer.Args[1].(*ast.ApplyExpr)
	require.True(t, ok)
	require.Equal(t, "-", inner.Name)
}

func TestParseModule_IfElse(t *testing.T) {
	mod := parseOne(t, `module U { fn main() { if true { print(1) } else { print(2) } } }`)
	ifExpr, ok := mod.Functions[0].Body[0].(*ast.IfExpr)
	require.True(t, ok)
	require.IsType(t, &ast.TrueExpr{}, ifExpr.Cond)
	require.Len(t, ifExpr.Then, 1)
	require.Len(t, ifExpr.Else, 1)
}

func TestParseModule_AnonFnVsTuple(t *testing.T) {
	mod := parseOne(t, `module U { fn main(a) { let b = 1 () => { a + b } } }`)
	fn := mod.Functions[0]
	require.Len(t, fn.Body, 2)

	anon, ok := fn.Body[1].(*ast.AnonFnExpr)
	require.True(t, ok, "expected AnonFnExpr, got %T", fn.Body[1])
	require.Empty(t, anon.Args)
	require.Len(t, anon.Body, 1)
}

func TestParseModule_TupleStaysTuple(t *testing.T) {
	mod := parseOne(t, `module U { fn main() { (1, 2, 3) } }`)
	tup, ok := mod.Functions[0].Body[0].(*ast.TupleExpr)
	require.True(t, ok)
	require.Len(t, tup.Elems, 3)
}

func TestParseModule_AnonFnWithArgs(t *testing.T) {
	mod := parseOne(t, `module U { fn main() { (x, y) => { x + y } } }`)
	anon, ok := mod.Functions[0].Body[0].(*ast.AnonFnExpr)
	require.True(t, ok)
	require.Len(t, anon.Args, 2)
	require.Equal(t, "x", anon.Args[0].Name)
	require.Equal(t, "y", anon.Args[1].Name)
}

func TestParseModule_CrossModuleCall(t *testing.T) {
	mod := parseOne(t, `module M { fn main() { Other.wut() } }`)
	apply, ok := mod.Functions[0].Body[0].(*ast.ApplyExpr)
	require.True(t, ok)
	require.Equal(t, "Other", apply.Module)
	require.Equal(t, "wut", apply.Name)
	require.Empty(t, apply.Args)
}

func TestParseModule_Capture(t *testing.T) {
	mod := parseOne(t, `module M { fn main() { helper\2 } }`)
	cap, ok := mod.Functions[0].Body[0].(*ast.CaptureExpr)
	require.True(t, ok)
	require.Equal(t, "helper", cap.Name)
	require.Equal(t, 2, cap.Arity)
}

func TestParseModule_RebindingAllowedByParser(t *testing.T) {
	// spec.md §4.2: rebinding is the resolver's concern, not the parser's —
	// the grammar alone permits two Lets with the same name.
	mod := parseOne(t, `module U { fn main() { let a = 1 let a = 2 } }`)
	require.Len(t, mod.Functions[0].Body, 2)
}

func TestParseModule_UnexpectedByte(t *testing.T) {
	file := token.NewFile("test.owl", []byte(`module U { fn main() { @ } }`))
	_, err := parser.ParseModules(file)
	require.Error(t, err)
}

func TestParseModule_RoundTrip(t *testing.T) {
	srcs := []string{
		`module U { fn main() { 1 + 2 } }`,
		`module U { fn main() { if true { print(1) } else { print(2) } } }`,
		`module U { fn main() { let a = 1 } }`,
	}
	for _, src := range srcs {
		mod := parseOne(t, src)
		var b strings.Builder
		ast.FprintModule(&b, mod)

		reparsed := parseOne(t, b.String())
		require.Equal(t, mod.Name, reparsed.Name)
		require.Len(t, reparsed.Functions, len(mod.Functions))
	}
}
