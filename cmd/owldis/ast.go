package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mna/owlc/lang/ast"
	"github.com/mna/owlc/lang/parser"
	"github.com/mna/owlc/lang/token"
)

type astCmd struct{}

func (*astCmd) Name() string     { return "ast" }
func (*astCmd) Synopsis() string { return "parse a source file and print its unparsed AST" }
func (*astCmd) Usage() string    { return "ast <file.owl>\n" }
func (*astCmd) SetFlags(f *flag.FlagSet) {}

func (*astCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "ast: exactly one file argument required")
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
		ast.FprintModule(os.Stdout, mod)
	}
	return subcommands.ExitSuccess
}
