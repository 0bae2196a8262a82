package compiler

import (
	"bytes"
	"fmt"
)

// EncodeBinary writes p's flat instruction stream (spec.md §4.5/§4.6):
// functions back-to-back in declaration order, no header, no function
// directory. Call/Capture/LoadString names are written length-prefixed
// (len(content)+1, to include the NUL terminator this package always
// appends) even though ByteSize treats them as a single byte for
// branch-displacement purposes — see instr.go's doc comment and spec.md §9
// "String interning encoding".
func EncodeBinary(p *Program) ([]byte, error) {
	var buf bytes.Buffer
	in := newInterner()
	for _, fn := range p.Functions {
		for _, instr := range fn.Code {
			if err := encodeInstr(&buf, instr, in); err != nil {
				return nil, fmt.Errorf("compiler: encoding %s: %w", fn.Name, err)
			}
		}
	}
	return buf.Bytes(), nil
}

func encodeInstr(buf *bytes.Buffer, i Instr, in *interner) error {
	buf.WriteByte(byte(i.Op))
	switch i.Op {
	case Exit, Print:
		buf.WriteByte(i.A.Byte())
	case FilePwd:
		buf.WriteByte(i.A.Byte())
	case Jmp:
		buf.WriteByte(byte(i.Jump))
	case StoreTrue, StoreFalse, StoreNil:
		buf.WriteByte(i.A.Byte())
	case Return:
		// opcode byte only
	case Mov, Not, ListCount, StringCount, CodeLoad, FunctionName, ToString, GetUpval:
		buf.WriteByte(i.A.Byte())
		buf.WriteByte(i.B.Byte())
	case Test:
		buf.WriteByte(i.A.Byte())
		buf.WriteByte(byte(i.Jump))
	case FileLs:
		buf.WriteByte(i.A.Byte())
		buf.WriteByte(i.B.Byte())
	case Add, Sub, Concat, TupleNth, ListNth, Eq, NotEq, GreaterThan, StringContains:
		buf.WriteByte(i.A.Byte())
		buf.WriteByte(i.B.Byte())
		buf.WriteByte(i.C.Byte())
	case StoreInt:
		buf.WriteByte(i.A.Byte())
		lo, hi := baseDigits(i.Imm)
		buf.WriteByte(lo)
		buf.WriteByte(hi)
	case ListSlice, StringSlice:
		buf.WriteByte(i.A.Byte())
		buf.WriteByte(i.B.Byte())
		buf.WriteByte(i.C.Byte())
		buf.WriteByte(i.D.Byte())
	case LoadString:
		buf.WriteByte(i.A.Byte())
		writeName(buf, i.Name, in)
	case Capture:
		buf.WriteByte(i.A.Byte())
		writeName(buf, i.Name, in)
		buf.WriteByte(byte(i.Arity))
	case Call:
		buf.WriteByte(i.A.Byte())
		writeName(buf, i.Name, in)
		buf.WriteByte(byte(i.Arity))
		buf.WriteByte(byte(len(i.Regs)))
		for _, r := range i.Regs {
			buf.WriteByte(r.Byte())
		}
	case CallLocal:
		buf.WriteByte(i.A.Byte())
		buf.WriteByte(i.B.Byte())
		buf.WriteByte(byte(len(i.Regs)))
		for _, r := range i.Regs {
			buf.WriteByte(r.Byte())
		}
	case Tuple, List:
		buf.WriteByte(i.A.Byte())
		buf.WriteByte(byte(len(i.Regs)))
		for _, r := range i.Regs {
			buf.WriteByte(r.Byte())
		}
	case AnonFn:
		buf.WriteByte(i.A.Byte())
		buf.WriteByte(byte(i.Jump))
		buf.WriteByte(byte(i.Arity))
		buf.WriteByte(byte(len(i.Regs)))
		for _, r := range i.Regs {
			buf.WriteByte(r.Byte())
		}
	default:
		return fmt.Errorf("unhandled opcode %s", i.Op)
	}
	return nil
}

// writeName emits a length-prefixed (len+1, counting the NUL terminator),
// NUL-terminated name or string payload (spec.md §4.5).
func writeName(buf *bytes.Buffer, name string, in *interner) {
	buf.WriteByte(byte(in.size(name) + 1))
	buf.WriteString(name)
	buf.WriteByte(0)
}

// baseDigits splits val into its base-250 (low, high) digit pair (spec.md
// §4.5 "(val % 250, val / 250)").
func baseDigits(val int) (lo, hi byte) {
	return byte(val % 250), byte(val / 250)
}
