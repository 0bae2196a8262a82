package compiler_test

import (
	"testing"

	"github.com/mna/owlc/lang/compiler"
	"github.com/mna/owlc/lang/parser"
	"github.com/mna/owlc/lang/token"
	"github.com/stretchr/testify/require"
)

func TestEncodeBinary_ByteSizeMatchesStream(t *testing.T) {
	prog := generate(t, `module U { fn main() { 1 + 2 } }`)
	b, err := compiler.EncodeBinary(prog)
	require.NoError(t, err)

	var want int
	for _, fn := range prog.Functions {
		for _, instr := range fn.Code {
			want += compiler.ByteSize(instr)
		}
	}
	require.Len(t, b, want)
}

func TestEncodeBinary_StoreIntBaseDigits(t *testing.T) {
	prog := generate(t, `module U { fn main() { 1000 } }`)
	b, err := compiler.EncodeBinary(prog)
	require.NoError(t, err)

	// op byte, reg byte, then (1000 % 250, 1000 / 250) = (0, 4)
	require.Equal(t, []byte{byte(compiler.StoreInt), 0, 0, 4}, b[:4])
}

func TestEncodeBinary_InternedNameLengthPrefixed(t *testing.T) {
	file := token.NewFile("test.owl", []byte(`module M { fn main() { Other.wut() } }`))
	mods, err := parser.ParseModules(file)
	require.NoError(t, err)
	prog, err := compiler.GenerateModule(mods[0])
	require.NoError(t, err)

	b, err := compiler.EncodeBinary(prog)
	require.NoError(t, err)

	name := "Other.wut"
	// op, out-reg, length byte (len+1 for NUL), name bytes, NUL, arity, argc
	require.Equal(t, byte(compiler.Call), b[0])
	require.Equal(t, byte(0), b[1])
	require.Equal(t, byte(len(name)+1), b[2])
	require.Equal(t, name, string(b[3:3+len(name)]))
	require.Equal(t, byte(0), b[3+len(name)]) // NUL terminator
}

func TestProgram_Disassemble_MultiFunction(t *testing.T) {
	prog := generate(t, `module U { fn a() { 1 } fn b() { 2 } }`)
	out := prog.Disassemble()
	require.Contains(t, out, "U.a/0:")
	require.Contains(t, out, "U.b/0:")
}
