package compiler

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Function is one generated function: its fully-qualified "<module>.<name>"
// name, its arity, and its lowered instruction stream (spec.md §4.6: "each
// function consists of its instructions back-to-back").
type Function struct {
	Name  string
	Arity int
	Code  []Instr
}

// Program is a whole compiled module: an ordered list of Functions, written
// out by EncodeBinary in declaration order with no file header (spec.md
// §4.6, §6 "no file header, no function directory — the VM scans on
// load").
type Program struct {
	Name      string
	Functions []*Function
}

// FunctionTableEntry is one row of Program.FunctionTable() — name, arity,
// and the byte offset its instruction stream starts at within the encoded
// module. This is Go-level metadata only (SPEC_FULL.md §10): the on-disk
// format itself carries no such directory, so a consumer of a .owlc file
// produced by something other than this package cannot rely on it; within
// this repository only the package's tests read it, to locate a function
// without re-scanning the stream.
type FunctionTableEntry struct {
	Name   string
	Arity  int
	Offset int
}

// FunctionTable computes each function's byte offset by summing ByteSize
// over every instruction of every preceding function, in declaration
// order — the same order EncodeBinary writes them in.
func (p *Program) FunctionTable() []FunctionTableEntry {
	entries := make([]FunctionTableEntry, 0, len(p.Functions))
	offset := 0
	for _, fn := range p.Functions {
		entries = append(entries, FunctionTableEntry{Name: fn.Name, Arity: fn.Arity, Offset: offset})
		offset += byteSizeSeq(fn.Code)
	}
	return entries
}

// Lookup returns the function named name, or nil if the module has none by
// that name.
func (p *Program) Lookup(name string) *Function {
	for _, fn := range p.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// byName indexes p's functions by name. The map is built anew on every
// call; nothing is cached on p.
func (p *Program) byName() map[string]*Function {
	m := make(map[string]*Function, len(p.Functions))
	for _, fn := range p.Functions {
		m[fn.Name] = fn
	}
	return m
}

// FunctionNames returns every function name in p, sorted. The names are
// taken from the byName map, whose iteration order is not stable, so they
// are sorted before being returned; the result is therefore in name order,
// not declaration order.
func (p *Program) FunctionNames() []string {
	names := maps.Keys(p.byName())
	slices.Sort(names)
	return names
}

func (f *Function) String() string {
	return fmt.Sprintf("%s/%d", f.Name, f.Arity)
}
