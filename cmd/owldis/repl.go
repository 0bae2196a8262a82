package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"github.com/mna/owlc/lang/compiler"
	"github.com/mna/owlc/lang/parser"
	"github.com/mna/owlc/lang/token"
)

// replCmd is an interactive line-editing prompt (mirroring
// informatter-nilan's cmd_repl.go loop shape, but using readline for
// history/line-editing instead of a bare bufio.Scanner): each line is one
// expression, wrapped in a throwaway module/function so the existing
// parser and generator can be reused unchanged, and its disassembly is
// printed. There is no VM in this repository, so nothing is executed.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "interactively compile one expression at a time" }
func (*replCmd) Usage() string    { return "repl\n" }
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	rl, err := readline.New("owl> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		if line == "" {
			continue
		}
		disassembleLine(rl.Stdout(), line)
	}
	return subcommands.ExitSuccess
}

func disassembleLine(out io.Writer, line string) {
	src := "module Repl { fn line() { " + line + " } }"
	file := token.NewFile("<repl>", []byte(src))
	mods, err := parser.ParseModules(file)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	prog, err := compiler.GenerateModule(mods[0])
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	fmt.Fprint(out, prog.Functions[0].Disassemble())
}
