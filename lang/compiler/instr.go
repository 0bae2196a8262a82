package compiler

import "github.com/mna/owlc/lang/resolver"

// Instr is a single bytecode instruction. Rather than one Go struct per
// opcode, owl's ~38-opcode set is represented as a single struct carrying
// every operand shape it might need (the teacher's lang/compiler instead
// favors per-opcode constructors over a flat []Operand stream, but its
// Opcode/insn pairing is the same "one tagged record per instruction" idea
// — this collapses it to the struct fields that shape actually requires
// rather than a separate type per variant, since owl's operand shapes
// reuse heavily across opcodes).
//
// Only the fields relevant to Op are meaningful; see ByteSize below and
// encodeInstr in encode.go for which fields a given Op reads.
type Instr struct {
	Op Op

	// A, B, C, D are the instruction's VarRef operands, in declared order
	// (e.g. Add's to/left/right are A/B/C).
	A, B, C, D resolver.VarRef

	// Imm is StoreInt's integer immediate (0..62499, spec.md §3).
	Imm int

	// Jump is Test/Jmp/AnonFn's byte displacement.
	Jump int

	// Arity is Call/Capture/AnonFn's argument count.
	Arity int

	// Name is Call/Capture/LoadString's interned name or string content.
	Name string

	// Regs is the variable-length register list: Tuple/List's elements,
	// Call/CallLocal's arguments, AnonFn's upvalue list.
	Regs []resolver.VarRef
}

// ByteSize returns the number of bytes i contributes to branch-displacement
// arithmetic (spec.md §4.5's "stable contract — used by branch patcher").
// Interned names (Call, Capture, LoadString) count as exactly one byte here
// even though their real on-disk encoding is longer — see EncodeBinary and
// spec.md §9 "String interning encoding".
func ByteSize(i Instr) int {
	switch i.Op {
	case Return:
		return 1
	case Exit, Print, FilePwd, Jmp, StoreTrue, StoreFalse, StoreNil:
		return 2
	case Mov, Test, FileLs, Not, ListCount, StringCount, CodeLoad, FunctionName, ToString, GetUpval, LoadString:
		return 3
	case Add, Sub, Concat, StoreInt, TupleNth, ListNth, Eq, NotEq, GreaterThan, StringContains, Capture:
		return 4
	case ListSlice, StringSlice:
		return 5
	case Tuple, List:
		return 3 + len(i.Regs)
	case Call, CallLocal:
		return 4 + len(i.Regs)
	case AnonFn:
		return 5 + len(i.Regs)
	default:
		panic("compiler: ByteSize: unhandled opcode " + i.Op.String())
	}
}

// byteSizeSeq sums ByteSize over a sub-sequence, the operation the branch
// patcher performs to fill in Test/Jmp displacements (spec.md §4.4/§4.5).
func byteSizeSeq(instrs []Instr) int {
	n := 0
	for _, i := range instrs {
		n += ByteSize(i)
	}
	return n
}
