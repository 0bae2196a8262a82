// Package logcfg holds the ambient, env-driven configuration for the
// driver binaries' own diagnostic output (SPEC_FULL.md's AMBIENT STACK
// "Logging" section). It never feeds into the compiler pipeline itself —
// spec.md §6's "Environment variables: none consumed" still holds for
// lang/parser, lang/resolver and lang/compiler; only cmd/owlc reads this,
// through internal/maincmd. cmd/owldis does not read it.
package logcfg

import "github.com/caarlos0/env/v6"

// Config is parsed by internal/maincmd's CompilePath each time it is called.
type Config struct {
	// Debug turns on the per-module trace line (file path, module name,
	// function count) printed to stderr as each file compiles.
	Debug bool `env:"OWLC_DEBUG" envDefault:"false"`
}

// Parse reads Config from the process environment.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
