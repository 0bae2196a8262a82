// Package owlerr defines the compiler's single error type and its taxonomy
// (spec.md §7). Every stage of the pipeline — parser, resolver, generator,
// encoder — reports failure as an *Error rather than a panic, adapted from
// the teacher's scanner.Error/ErrorList shape in lang/scanner but collapsed
// to a single first-fault error, since spec.md §7 rules out multi-error
// reporting ("no recovery, no multi-error reporting").
package owlerr

import (
	"fmt"

	"github.com/mna/owlc/lang/token"
)

// Kind classifies the failure per spec.md §7's error taxonomy.
type Kind uint8

const (
	// Syntax is raised when the parser cannot match any rule at the current
	// position.
	Syntax Kind = iota
	// Undefined is raised when identifier resolution exhausts every parent
	// scope without finding a binding.
	Undefined
	// Rebind is raised by a Let naming an identifier already bound in the
	// current or an enclosing scope.
	Rebind
	// Overflow is raised when a register index, argument count, integer
	// literal or branch displacement exceeds its encodable range.
	Overflow
	// IO is raised when the source file cannot be read or the output file
	// cannot be written.
	IO
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case Undefined:
		return "undefined variable"
	case Rebind:
		return "rebinding"
	case Overflow:
		return "overflow"
	case IO:
		return "I/O error"
	default:
		return "error"
	}
}

// Error is the compiler's one error type: a Kind, a message, and the
// position it occurred at (token.NoPos when positionless, e.g. I/O errors).
type Error struct {
	Pos  token.Pos
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos == token.NoPos {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%d: %s: %s", e.Pos, e.Kind, e.Msg)
}

// New constructs an *Error. It is the one constructor every pipeline stage
// uses so the taxonomy stays exhaustive and centrally defined.
func New(pos token.Pos, kind Kind, format string, args ...any) *Error {
	return &Error{Pos: pos, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
