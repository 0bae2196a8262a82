package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/mna/owlc/lang/compiler"
	"github.com/mna/owlc/lang/parser"
	"github.com/mna/owlc/lang/token"
)

// emitCmd compiles a source file and either writes its disassembly to
// stdout or, with -o, its binary bytecode to disk (mirroring
// informatter-nilan's emitBytecodeCmd, whose -diassemble/-dumpBytecode
// flags select between the same two outputs).
type emitCmd struct {
	output string
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "compile a source file to bytecode or disassembly" }
func (*emitCmd) Usage() string    { return "emit [-o DIR] <file.owl>\n" }
func (c *emitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "write binary .owlc files to DIR instead of printing disassembly")
}

func (c *emitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "emit: exactly one file argument required")
		return subcommands.ExitUsageError
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	file := token.NewFile(args[0], src)
	mods, err := parser.ParseModules(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	for _, mod := range mods {
		prog, err := compiler.GenerateModule(mod)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}

		if c.output == "" {
			fmt.Print(prog.Disassemble())
			continue
		}
		b, err := compiler.EncodeBinary(prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		outPath := filepath.Join(c.output, mod.Name+".owlc")
		if err := os.WriteFile(outPath, b, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
