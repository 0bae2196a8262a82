package resolver

import (
	"golang.org/x/exp/slices"

	"github.com/mna/owlc/internal/owlerr"
	"github.com/mna/owlc/lang/token"
)

// Scope is one function-lowering context's environment (spec.md §3
// "Function env (per-scope)"): a name→VarRef mapping seeded from the
// function's positional arguments, a parent link to the enclosing
// function's Scope (nil for a top-level function), and the ordered list of
// parent VarRefs this function has had to lift into upvalues so far.
//
// Children only ever read their parent through Lookup; they never mutate
// the parent's env (spec.md §5: "no upward mutation of the parent's env
// occurs").
type Scope struct {
	parent *Scope
	env    map[string]VarRef
	upvals []VarRef
}

// NewScope creates a Scope chained to parent (nil for a top-level
// function).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, env: make(map[string]VarRef)}
}

// Define binds name to ref in s. It is a hard error (spec.md §4.2 "Let
// semantics") if name already resolves anywhere in s or any ancestor scope
// — owl has no shadowing and no rebinding.
func (s *Scope) Define(pos token.Pos, name string, ref VarRef) error {
	if s.resolvesAnywhere(name) {
		return owlerr.New(pos, owlerr.Rebind, "%q is already bound in this scope or an enclosing one", name)
	}
	if ref.Kind == Register && ref.Index > MaxIndex {
		return owlerr.New(pos, owlerr.Overflow, "register index %d exceeds %d", ref.Index, MaxIndex)
	}
	s.env[name] = ref
	return nil
}

// resolvesAnywhere reports whether name is bound in s or any ancestor,
// without mutating any upvalue list — used to enforce the no-rebind
// invariant without the side effect that a full Lookup would have.
func (s *Scope) resolvesAnywhere(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.env[name]; ok {
			return true
		}
	}
	return false
}

// Lookup resolves name to a VarRef (spec.md §4.2 "Lookup algorithm"). If
// name is bound in s directly, that binding is returned unchanged. If it is
// only found in an ancestor, every scope on the path from that ancestor
// down to s lifts it into its own upvals list (appending a new upvalue
// index on first lift, reusing the existing one on subsequent lookups of
// the same name) and returns an Upvalue VarRef local to s. If no scope in
// the chain defines name, Lookup fails with an "undefined variable" error.
func (s *Scope) Lookup(pos token.Pos, name string) (VarRef, error) {
	if ref, ok := s.env[name]; ok {
		return ref, nil
	}
	if s.parent == nil {
		return VarRef{}, owlerr.New(pos, owlerr.Undefined, "undefined variable %q", name)
	}

	parentRef, err := s.parent.Lookup(pos, name)
	if err != nil {
		return VarRef{}, err
	}

	// Upvalue indices are 1-based: the first lifted upvalue is U1, not U0.
	// This matches the worked closure example (spec.md §8 scenario 6, where
	// a two-upvalue closure is addressed as U1/U2) even though the position
	// within Upvals() — what AnonFn's operand list actually encodes — stays
	// 0-based array order.
	if i := slices.Index(s.upvals, parentRef); i >= 0 {
		return VarRef{Kind: Upvalue, Index: i + 1}, nil
	}
	idx := len(s.upvals) + 1
	if idx > MaxIndex {
		return VarRef{}, owlerr.New(pos, owlerr.Overflow, "upvalue index %d exceeds %d", idx, MaxIndex)
	}
	s.upvals = append(s.upvals, parentRef)
	return VarRef{Kind: Upvalue, Index: idx}, nil
}

// TryLookup is Lookup's non-fatal counterpart: an undefined name reports ok
// == false instead of an error, for call sites — the generic Apply
// dispatch, spec.md §4.4 — that only want to know whether a name happens to
// resolve locally before falling back to a global call. Any other failure
// (e.g. upvalue index overflow while lifting) still surfaces as an error.
func (s *Scope) TryLookup(pos token.Pos, name string) (VarRef, bool, error) {
	ref, err := s.Lookup(pos, name)
	if err != nil {
		if oerr, ok := err.(*owlerr.Error); ok && oerr.Kind == owlerr.Undefined {
			return VarRef{}, false, nil
		}
		return VarRef{}, false, err
	}
	return ref, true, nil
}

// Upvals returns the ordered list of parent VarRefs this scope has
// captured so far. The generator calls this once the function's body has
// been fully lowered, when it is ready to emit the AnonFn instruction
// (spec.md §3 "frozen when the AnonFn instruction is emitted").
func (s *Scope) Upvals() []VarRef {
	return slices.Clone(s.upvals)
}
