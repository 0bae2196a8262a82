package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/mna/owlc/internal/logcfg"
	"github.com/mna/owlc/internal/owlerr"
	"github.com/mna/owlc/lang/compiler"
	"github.com/mna/owlc/lang/parser"
	"github.com/mna/owlc/lang/token"
)

// CompilePath compiles the .owl file(s) at path (a single file, or a
// directory walked non-recursively — spec.md §6) and either writes each
// module's bytecode to outDir (or the current directory, if empty) as
// "<outDir>/<ModuleName>.owlc", or, if print is true, writes disassembly to
// stdio.Stdout instead of any file.
func CompilePath(ctx context.Context, stdio mainer.Stdio, path, outDir string, print bool) error {
	cfg, err := logcfg.Parse()
	if err != nil {
		return fmt.Errorf("reading environment config: %w", err)
	}

	files, err := collectOwlFiles(path)
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := compileFile(stdio, f, outDir, print, cfg); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
	}
	return nil
}

func collectOwlFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	dents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, d := range dents {
		if d.IsDir() || filepath.Ext(d.Name()) != ".owl" {
			continue
		}
		files = append(files, filepath.Join(path, d.Name()))
	}
	return files, nil
}

func compileFile(stdio mainer.Stdio, path, outDir string, print bool, cfg logcfg.Config) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return owlerr.New(token.NoPos, owlerr.IO, "%v", err)
	}

	file := token.NewFile(path, src)
	mods, err := parser.ParseModules(file)
	if err != nil {
		return err
	}

	for _, mod := range mods {
		prog, err := compiler.GenerateModule(mod)
		if err != nil {
			return err
		}
		if cfg.Debug {
			fmt.Fprintf(stdio.Stderr, "debug: %s: module %s, %d function(s)\n", path, mod.Name, len(prog.Functions))
		}

		if print {
			fmt.Fprint(stdio.Stdout, prog.Disassemble())
			continue
		}

		b, err := compiler.EncodeBinary(prog)
		if err != nil {
			return err
		}
		dir := outDir
		if dir == "" {
			dir = "."
		}
		outPath := filepath.Join(dir, mod.Name+".owlc")
		if err := os.WriteFile(outPath, b, 0o644); err != nil {
			return owlerr.New(token.NoPos, owlerr.IO, "%v", err)
		}
	}
	return nil
}
