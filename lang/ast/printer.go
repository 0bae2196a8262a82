package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes expr back out as owl source text. It is the `unparse` half
// of the round-trip law in spec.md §8 ("parse(unparse(ast)) ≡ ast"),
// grounded in the teacher's lang/ast/printer.go but regenerating source text
// rather than a debug dump, since owl has no richer AST-inspection use case
// for that shape of printer. Only the subset of ASTs that preserve the
// parser's single right-associative infix form round-trip exactly, as noted
// in spec.md.
func Fprint(w io.Writer, expr Expr) {
	fmt.Fprint(w, exprString(expr))
}

// FprintFunction writes a whole function declaration.
func FprintFunction(w io.Writer, fn *Function) {
	fmt.Fprint(w, functionString(fn))
}

// FprintModule writes a whole module declaration.
func FprintModule(w io.Writer, mod *Module) {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s {\n", mod.Name)
	for _, fn := range mod.Functions {
		b.WriteString(indent(functionString(fn), "  "))
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	io.WriteString(w, b.String())
}

func functionString(fn *Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fn %s(", fn.Name)
	for i, a := range fn.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
	}
	b.WriteString(") {\n")
	b.WriteString(blockString(fn.Body))
	b.WriteString("}")
	return b.String()
}

func blockString(body []Expr) string {
	var b strings.Builder
	for _, e := range body {
		b.WriteString("  ")
		b.WriteString(exprString(e))
		b.WriteString("\n")
	}
	return b.String()
}

func argsString(args []Argument) string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

func exprsString(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}

func exprString(expr Expr) string {
	switch e := expr.(type) {
	case *IntExpr:
		return e.Text
	case *StrExpr:
		return `"` + escapeString(e.Text) + `"`
	case *TrueExpr:
		return "true"
	case *FalseExpr:
		return "false"
	case *NilExpr:
		return "nil"
	case *IdentExpr:
		return e.Name
	case *ApplyExpr:
		return applyString(e)
	case *IfExpr:
		var b strings.Builder
		fmt.Fprintf(&b, "if %s {\n%s}", exprString(e.Cond), blockString(e.Then))
		if len(e.Else) > 0 {
			fmt.Fprintf(&b, " else {\n%s}", blockString(e.Else))
		}
		return b.String()
	case *LetExpr:
		return fmt.Sprintf("let %s = %s", e.Name, exprString(e.Value))
	case *TupleExpr:
		return "(" + exprsString(e.Elems) + ")"
	case *ListExpr:
		return "[" + exprsString(e.Elems) + "]"
	case *CaptureExpr:
		name := e.Name
		if e.Module != "" {
			name = e.Module + "." + name
		}
		return fmt.Sprintf(`%s\%d`, name, e.Arity)
	case *AnonFnExpr:
		return fmt.Sprintf("(%s) => {\n%s}", argsString(e.Args), blockString(e.Body))
	default:
		return fmt.Sprintf("<unknown expr %T>", expr)
	}
}

// applyString renders calls, and the desugared infix/unary forms, back to
// their surface syntax.
func applyString(e *ApplyExpr) string {
	switch {
	case e.Name == "!" && len(e.Args) == 1:
		return "!" + exprString(e.Args[0])
	case len(e.Args) == 2 && isInfixName(e.Name):
		return fmt.Sprintf("%s %s %s", exprString(e.Args[0]), e.Name, exprString(e.Args[1]))
	default:
		name := e.Name
		if e.Module != "" {
			name = e.Module + "." + name
		}
		return fmt.Sprintf("%s(%s)", name, exprsString(e.Args))
	}
}

func isInfixName(name string) bool {
	switch name {
	case "++", "+", "-", "==", "!=", ">=", ">", "<=", "<", "&&", "||":
		return true
	}
	return false
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
