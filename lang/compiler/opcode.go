package compiler

import "fmt"

// Op identifies an owl bytecode instruction. The numeric assignment is a
// compatibility contract with the external VM (spec.md §6) — never
// renumber an existing opcode; append new ones after GetUpval.
type Op uint8

//nolint:revive
const (
	Exit         Op = 0x00
	StoreInt     Op = 0x01
	Print        Op = 0x02
	Add          Op = 0x03
	Sub          Op = 0x04
	Call         Op = 0x05
	Return       Op = 0x06
	Mov          Op = 0x07
	Jmp          Op = 0x08
	Tuple        Op = 0x09
	TupleNth     Op = 0x0a
	List         Op = 0x0b
	StoreTrue    Op = 0x0d
	StoreFalse   Op = 0x0e
	Test         Op = 0x0f
	Eq           Op = 0x10
	NotEq        Op = 0x11
	Not          Op = 0x12
	StoreNil     Op = 0x13
	GreaterThan  Op = 0x14
	LoadString   Op = 0x15
	FilePwd      Op = 0x16
	Concat       Op = 0x17
	FileLs       Op = 0x18
	Capture      Op = 0x19
	CallLocal    Op = 0x1a
	ListNth      Op = 0x1b
	ListCount    Op = 0x1c
	ListSlice    Op = 0x1d
	StringSlice  Op = 0x1e
	CodeLoad     Op = 0x1f
	FunctionName Op = 0x20
	StringCount  Op = 0x21
	StringContains Op = 0x22
	ToString     Op = 0x23
	AnonFn       Op = 0x24
	GetUpval     Op = 0x25
)

var opNames = map[Op]string{
	Exit:           "exit",
	StoreInt:       "store_int",
	Print:          "print",
	Add:            "add",
	Sub:            "sub",
	Call:           "call",
	Return:         "return",
	Mov:            "mov",
	Jmp:            "jmp",
	Tuple:          "tuple",
	TupleNth:       "tuple_nth",
	List:           "list",
	StoreTrue:      "store_true",
	StoreFalse:     "store_false",
	Test:           "test",
	Eq:             "eq",
	NotEq:          "not_eq",
	Not:            "not",
	StoreNil:       "store_nil",
	GreaterThan:    "greater_than",
	LoadString:     "load_string",
	FilePwd:        "file_pwd",
	Concat:         "concat",
	FileLs:         "file_ls",
	Capture:        "capture",
	CallLocal:      "call_local",
	ListNth:        "list_nth",
	ListCount:      "list_count",
	ListSlice:      "list_slice",
	StringSlice:    "string_slice",
	CodeLoad:       "code_load",
	FunctionName:   "function_name",
	StringCount:    "string_count",
	StringContains: "string_contains",
	ToString:       "to_string",
	AnonFn:         "anon_fn",
	GetUpval:       "get_upval",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(0x%02x)", uint8(op))
}

// builtins maps an Apply's callee name to the dedicated opcode the
// generator emits instead of a Call/CallLocal dispatch (spec.md §4.4
// "Builtin dispatch table"). Names absent from this table fall through to
// generic call lowering — including, notably, `>=`, `<`, `<=`, `&&` and
// `||`, which spec.md's table genuinely omits; `&&`/`||` are special-cased
// by the generator before this table is ever consulted, but `<`, `<=` and
// `>=` have no dedicated opcode and are preserved as-is: an owl program
// using them as an Apply name resolves like any other unbound call (spec.md
// §9 lists this as a latent design limitation, not a defect to silently
// fix).
var builtins = map[string]Op{
	"+":               Add,
	"-":                Sub,
	"++":              Concat,
	"==":               Eq,
	"!=":               NotEq,
	"!":                Not,
	">":                GreaterThan,
	"exit":             Exit,
	"print":            Print,
	"file_pwd":         FilePwd,
	"file_ls":          FileLs,
	"tuple_nth":        TupleNth,
	"list_nth":         ListNth,
	"list_count":       ListCount,
	"list_slice":       ListSlice,
	"string_slice":     StringSlice,
	"string_count":     StringCount,
	"string_contains":  StringContains,
	"code_load":        CodeLoad,
	"function_name":    FunctionName,
	"term_to_string":   ToString,
}
