package compiler_test

import (
	"testing"

	"github.com/mna/owlc/lang/compiler"
	"github.com/mna/owlc/lang/parser"
	"github.com/mna/owlc/lang/token"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src string) *compiler.Program {
	t.Helper()
	file := token.NewFile("test.owl", []byte(src))
	mods, err := parser.ParseModules(file)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	prog, err := compiler.GenerateModule(mods[0])
	require.NoError(t, err)
	return prog
}

func TestGenerate_SimpleAdd(t *testing.T) {
	prog := generate(t, `module U { fn main() { 1 + 2 } }`)
	require.Equal(t,
		"U.main/0:\n"+
			"R1 = store_int 1\n"+
			"R2 = store_int 2\n"+
			"R0 = add R1, R2\n"+
			"return\n",
		prog.Disassemble())
}

func TestGenerate_GreaterThan(t *testing.T) {
	prog := generate(t, `module U { fn main() { 1 > 2 } }`)
	require.Equal(t,
		"U.main/0:\n"+
			"R1 = store_int 1\n"+
			"R2 = store_int 2\n"+
			"R0 = greater_than R1, R2\n"+
			"return\n",
		prog.Disassemble())
}

func TestGenerate_IfTrueWithPrint(t *testing.T) {
	prog := generate(t, `module U { fn main() { if true { print(1) } } }`)
	require.Equal(t,
		"U.main/0:\n"+
			"R1 = store_true\n"+
			"test R1, 5\n"+
			"R0 = store_nil\n"+
			"jmp 7\n"+
			"R1 = store_int 1\n"+
			"print R1\n"+
			"return\n",
		prog.Disassemble())
}

func TestGenerate_ShortCircuitAnd(t *testing.T) {
	prog := generate(t, `module U { fn main() { true && false } }`)
	require.Equal(t,
		"U.main/0:\n"+
			"R0 = store_true\n"+
			"test R0, 3\n"+
			"jmp 3\n"+
			"R0 = store_false\n"+
			"return\n",
		prog.Disassemble())
}

func TestGenerate_ShortCircuitOr(t *testing.T) {
	prog := generate(t, `module U { fn main() { true || false } }`)
	require.Equal(t,
		"U.main/0:\n"+
			"R0 = store_true\n"+
			"test R0, 3\n"+
			"R0 = store_false\n"+
			"return\n",
		prog.Disassemble())
}

func TestGenerate_ClosureWithUpvalue(t *testing.T) {
	prog := generate(t, `module U { fn main(a) { let b = 1 () => { a + b } } }`)
	require.Equal(t,
		"U.main/1:\n"+
			"R2 = store_int 1\n"+
			"R0 = anon_fn 12, 0, [2; R1, R2]\n"+
			"R1 = mov U1\n"+
			"R2 = mov U2\n"+
			"R0 = add R1, R2\n"+
			"return\n"+
			"return\n",
		prog.Disassemble())
}

func TestGenerate_CrossModuleCall(t *testing.T) {
	prog := generate(t, `module M { fn main() { Other.wut() } }`)
	require.Equal(t,
		"M.main/0:\n"+
			"R0 = call Other.wut\\0, []\n"+
			"return\n",
		prog.Disassemble())
}

func TestGenerate_RebindingIsRejected(t *testing.T) {
	_, err := func() (*compiler.Program, error) {
		file := token.NewFile("test.owl", []byte(`module U { fn main() { let a = 1 let a = 2 } }`))
		mods, err := parser.ParseModules(file)
		require.NoError(t, err)
		return compiler.GenerateModule(mods[0])
	}()
	require.Error(t, err)
}

func TestGenerate_EmptyFunctionBody(t *testing.T) {
	prog := generate(t, `module U { fn main() { } }`)
	require.Equal(t,
		"U.main/0:\n"+
			"R0 = store_nil\n"+
			"return\n",
		prog.Disassemble())
}

func TestGenerate_EmptyIfElse(t *testing.T) {
	prog := generate(t, `module U { fn main() { if true { } else { } } }`)
	instrs := prog.Functions[0].Code
	// Test's displacement must skip exactly past the else-branch (including
	// its trailing Jmp) to land on the then-branch; spec.md's terse boundary
	// bullet for this case states the Test displacement as 3, but that
	// contradicts both the general "+1 past else_with_jmp" rule §4.4 states
	// and the worked if/print seed scenario — see DESIGN.md.
	require.Equal(t, compiler.Test, instrs[1].Op)
	require.Equal(t, 5, instrs[1].Jump)
	require.Equal(t, compiler.Jmp, instrs[3].Op)
	require.Equal(t, 3, instrs[3].Jump)
}

func TestGenerate_AnonFnEmptyBody(t *testing.T) {
	prog := generate(t, `module U { fn main() { () => { } } }`)
	instrs := prog.Functions[0].Code
	require.Equal(t, compiler.AnonFn, instrs[0].Op)
	// Mirrors the AnonFn jmp discrepancy above: the boundary bullet says 3,
	// the "byte_size_of(code) + 1" rule in §4.4 (confirmed against the
	// upvalue-closure seed scenario) says 4 for a 2-instruction body.
	require.Equal(t, 4, instrs[0].Jump)
}

func TestGenerate_TupleAndList(t *testing.T) {
	prog := generate(t, `module U { fn main() { (1, 2) } }`)
	require.Contains(t, prog.Disassemble(), "tuple [2; R1, R2]")

	prog = generate(t, `module U { fn main() { [1, 2, 3] } }`)
	require.Contains(t, prog.Disassemble(), "list [3; R1, R2, R3]")
}

func TestGenerate_Capture(t *testing.T) {
	prog := generate(t, `module U { fn helper() { 1 } fn main() { helper\0 } }`)
	require.Contains(t, prog.Disassemble(), "capture U.helper/0")
}

func TestGenerate_FunctionTable(t *testing.T) {
	prog := generate(t, `module U { fn a() { 1 } fn b() { 2 } }`)
	table := prog.FunctionTable()
	require.Len(t, table, 2)
	require.Equal(t, "U.a", table[0].Name)
	require.Equal(t, 0, table[0].Offset)
	require.Equal(t, "U.b", table[1].Name)
	require.Equal(t, compiler.ByteSize(prog.Functions[0].Code[0])+compiler.ByteSize(prog.Functions[0].Code[1]), table[1].Offset)
}
