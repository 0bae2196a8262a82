package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mna/owlc/lang/scanner"
	"github.com/mna/owlc/lang/token"
)

type tokensCmd struct{}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "print the token stream for a source file" }
func (*tokensCmd) Usage() string    { return "tokens <file.owl>\n" }
func (*tokensCmd) SetFlags(f *flag.FlagSet) {}

func (*tokensCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "tokens: exactly one file argument required")
		return subcommands.ExitUsageError
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	file := token.NewFile(args[0], src)
	sc := scanner.New(file)
	for {
		tok, err := sc.Next()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%s\t%s\t%q\n", file.Position(tok.Pos), tok.Kind, tok.Lit)
		if tok.Kind == token.EOF {
			break
		}
	}
	return subcommands.ExitSuccess
}
