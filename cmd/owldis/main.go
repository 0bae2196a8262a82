// Command owldis is a secondary inspection tool alongside cmd/owlc: it
// exposes each pipeline stage (tokens, AST, compiled bytecode) as its own
// subcommand, plus a repl for trying one-liners without a source file,
// dispatched through subcommands.Commander (SPEC_FULL.md DOMAIN STACK,
// mirroring informatter-nilan's cmd_emit_bytecode.go/cmd_repl.go shape).
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&tokensCmd{}, "")
	subcommands.Register(&astCmd{}, "")
	subcommands.Register(&emitCmd{}, "")
	subcommands.Register(&replCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
