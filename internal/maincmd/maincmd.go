// Package maincmd implements cmd/owlc's command-line driver: flag parsing,
// validation and the compile-and-write (or compile-and-print) loop over the
// file or directory given on the command line (spec.md §6 "CLI surface").
// Structured the way the teacher's own internal/maincmd.Cmd is (a
// flag-tagged struct driven by github.com/mna/mainer), trimmed to the
// single-command surface spec.md names instead of the teacher's
// parse/resolve/tokenize subcommand dispatch.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "owlc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [-o OUTPUT-DIR] [-p] <FILE-OR-DIR>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [-o OUTPUT-DIR] [-p] <FILE-OR-DIR>
       %[1]s -h|--help

Compiles owl source files to bytecode.

FILE-OR-DIR may be a single .owl file or a directory; directories are
walked non-recursively and every .owl file inside is compiled. Files with
other extensions are ignored.

Valid flag options are:
       -o, --output DIR          Output directory (default: current dir).
       -p, --print               Emit human-readable disassembly to
                                 stdout; do not write any files.
       -h, --help                Show this help and exit.
`, binName)
)

// Cmd is cmd/owlc's flag-parsed command, mirroring the teacher's
// internal/maincmd.Cmd shape.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help   bool   `flag:"h,help"`
	Output string `flag:"o,output"`
	Print  bool   `flag:"p,print"`

	args []string
}

func (c *Cmd) SetArgs(args []string)           { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

// Validate checks the parsed flags and positional arguments.
func (c *Cmd) Validate() error {
	if c.Help {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no FILE-OR-DIR specified")
	}
	if len(c.args) > 1 {
		return fmt.Errorf("expected exactly one FILE-OR-DIR, got %d", len(c.args))
	}
	if c.Output != "" && c.Print {
		return errors.New("-o and -p are mutually exclusive")
	}
	return nil
}

// Main is cmd/owlc's entry point.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := CompilePath(ctx, stdio, c.args[0], c.Output, c.Print); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}
	return mainer.Success
}
