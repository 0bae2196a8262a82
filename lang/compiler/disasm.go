package compiler

import (
	"fmt"
	"strings"

	"github.com/mna/owlc/lang/resolver"
)

// Disassemble renders p as pseudo-assembly, one line per instruction,
// functions separated by a blank line and a "name/arity:" header. The
// per-opcode line shapes follow original_source's emit_human_readable
// (SPEC_FULL.md §10's "pseudo-assembly round trip for tests").
func (p *Program) Disassemble() string {
	var sb strings.Builder
	for i, fn := range p.Functions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s:\n", fn)
		sb.WriteString(fn.Disassemble())
	}
	return sb.String()
}

// Disassemble renders fn's instruction stream alone, with no function
// header — the form cmd/owldis's repl prints for a single compiled
// fragment.
func (fn *Function) Disassemble() string {
	var sb strings.Builder
	for _, instr := range fn.Code {
		sb.WriteString(disasmInstr(instr))
	}
	return sb.String()
}

func disasmInstr(i Instr) string {
	switch i.Op {
	case Exit:
		return fmt.Sprintf("exit %s\n", i.A)
	case Print:
		return fmt.Sprintf("print %s\n", i.A)
	case Return:
		return "return\n"
	case FilePwd:
		return fmt.Sprintf("%s = file_pwd\n", i.A)
	case Jmp:
		return fmt.Sprintf("jmp %d\n", i.Jump)
	case StoreTrue:
		return fmt.Sprintf("%s = store_true\n", i.A)
	case StoreFalse:
		return fmt.Sprintf("%s = store_false\n", i.A)
	case StoreNil:
		return fmt.Sprintf("%s = store_nil\n", i.A)
	case Mov:
		return fmt.Sprintf("%s = mov %s\n", i.A, i.B)
	case GetUpval:
		return fmt.Sprintf("%s = get_upval %s\n", i.A, i.B)
	case Not:
		return fmt.Sprintf("%s = not %s\n", i.A, i.B)
	case ListCount:
		return fmt.Sprintf("%s = list_count %s\n", i.A, i.B)
	case StringCount:
		return fmt.Sprintf("%s = string_count %s\n", i.A, i.B)
	case CodeLoad:
		return fmt.Sprintf("%s = code_load %s\n", i.A, i.B)
	case FunctionName:
		return fmt.Sprintf("%s = function_name %s\n", i.A, i.B)
	case ToString:
		return fmt.Sprintf("%s = to_string %s\n", i.A, i.B)
	case FileLs:
		return fmt.Sprintf("%s = file_ls %s\n", i.A, i.B)
	case Test:
		return fmt.Sprintf("test %s, %d\n", i.A, i.Jump)
	case Add:
		return fmt.Sprintf("%s = add %s, %s\n", i.A, i.B, i.C)
	case Sub:
		return fmt.Sprintf("%s = sub %s, %s\n", i.A, i.B, i.C)
	case Concat:
		return fmt.Sprintf("%s = concat %s, %s\n", i.A, i.B, i.C)
	case TupleNth:
		return fmt.Sprintf("%s = tuple_nth %s, %s\n", i.A, i.B, i.C)
	case ListNth:
		return fmt.Sprintf("%s = list_nth %s, %s\n", i.A, i.B, i.C)
	case Eq:
		return fmt.Sprintf("%s = eq %s, %s\n", i.A, i.B, i.C)
	case NotEq:
		return fmt.Sprintf("%s = not_eq %s, %s\n", i.A, i.B, i.C)
	case GreaterThan:
		return fmt.Sprintf("%s = greater_than %s, %s\n", i.A, i.B, i.C)
	case StringContains:
		return fmt.Sprintf("%s = string_contains %s, %s\n", i.A, i.B, i.C)
	case StoreInt:
		return fmt.Sprintf("%s = store_int %d\n", i.A, i.Imm)
	case ListSlice:
		return fmt.Sprintf("%s = list_slice %s, %s, %s\n", i.A, i.B, i.C, i.D)
	case StringSlice:
		return fmt.Sprintf("%s = string_slice %s, %s, %s\n", i.A, i.B, i.C, i.D)
	case LoadString:
		return fmt.Sprintf("%s = load_string %q\n", i.A, i.Name)
	case Capture:
		return fmt.Sprintf("%s = capture %s/%d\n", i.A, i.Name, i.Arity)
	case Call:
		return fmt.Sprintf("%s = call %s\\%d, [%s]\n", i.A, i.Name, i.Arity, joinRegs(i.Regs))
	case CallLocal:
		return fmt.Sprintf("%s = call_local %s, [%s]\n", i.A, i.B, joinRegs(i.Regs))
	case Tuple:
		return fmt.Sprintf("%s = tuple [%d; %s]\n", i.A, len(i.Regs), joinRegs(i.Regs))
	case List:
		return fmt.Sprintf("%s = list [%d; %s]\n", i.A, len(i.Regs), joinRegs(i.Regs))
	case AnonFn:
		return fmt.Sprintf("%s = anon_fn %d, %d, [%d; %s]\n", i.A, i.Jump, i.Arity, len(i.Regs), joinRegs(i.Regs))
	default:
		return fmt.Sprintf("<unknown op %s>\n", i.Op)
	}
}

func joinRegs(regs []resolver.VarRef) string {
	parts := make([]string, len(regs))
	for i, r := range regs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
