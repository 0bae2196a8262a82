package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF verifies grammar.ebnf is self-contained (every referenced
// production is defined) starting from Module, the parser's top-level
// production (spec.md §4.1). This is the formal counterpart to
// lang/parser's hand-written recursive-descent implementation: a change to
// one without the other should show up as a parser test failure or a
// Verify error here.
func TestEBNF(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Module"); err != nil {
		t.Fatal(err)
	}
}
