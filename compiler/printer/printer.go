// Package printer is a thin, explicitly out-of-scope collaborator: the
// compiler and interpreter never import it. It renders a parsed file back
// to grug source text, for tooling that wants a canonical, consistently
// indented rendition of a mod script (a formatter, a diff-friendly dump).
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grug-lang/grug/compiler/ast"
)

// Style controls how much blank-line and comment structure survives the
// round trip.
type Style int

const (
	// StyleCompact drops blank-line and comment statements inside bodies;
	// top-level declarations are separated by one blank line.
	StyleCompact Style = iota
	// StyleDetailed preserves EmptyLineStmt/CommentStmt nodes and indents
	// every nested block.
	StyleDetailed
)

// Options configures a Printer.
type Options struct {
	Style       Style
	IndentWidth int // spaces per nesting level; 0 defaults to 2
}

// Printer renders AST nodes to grug source text.
type Printer struct {
	opts Options
}

// New returns a Printer configured by opts.
func New(opts Options) *Printer {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 2
	}
	return &Printer{opts: opts}
}

// Print renders a single declaration, statement, or expression back to
// source text.
func (p *Printer) Print(node any) string {
	var b strings.Builder
	switch n := node.(type) {
	case *ast.File:
		for i, d := range n.Decls {
			if i > 0 {
				b.WriteString("\n\n")
			}
			p.printDecl(&b, d, 0)
		}
	case ast.Decl:
		p.printDecl(&b, n, 0)
	case ast.Stmt:
		p.printStmt(&b, n, 0)
	case ast.Expr:
		b.WriteString(p.printExpr(n))
	default:
		return fmt.Sprintf("<unprintable %T>", node)
	}
	return b.String()
}

func (p *Printer) indent(level int) string {
	return strings.Repeat(" ", level*p.opts.IndentWidth)
}

func (p *Printer) printDecl(b *strings.Builder, decl ast.Decl, level int) {
	switch d := decl.(type) {
	case *ast.GlobalVariableDecl:
		fmt.Fprintf(b, "%s%s: %s = %s", p.indent(level), d.Name, typeName(d.Type, d.TypeName), p.printExpr(d.Value))

	case *ast.OnFnDecl:
		fmt.Fprintf(b, "%s%s(%s) {\n", p.indent(level), d.Name, printArgs(d.Args))
		p.printStmts(b, d.Body, level+1)
		fmt.Fprintf(b, "%s}", p.indent(level))

	case *ast.HelperFnDecl:
		ret := ""
		if d.HasReturn {
			ret = ": " + typeName(d.ReturnType, "")
		}
		fmt.Fprintf(b, "%s%s(%s)%s {\n", p.indent(level), d.Name, printArgs(d.Args), ret)
		p.printStmts(b, d.Body, level+1)
		fmt.Fprintf(b, "%s}", p.indent(level))

	case *ast.CommentDecl:
		fmt.Fprintf(b, "%s%s", p.indent(level), d.Text)

	default:
		fmt.Fprintf(b, "%s<unknown decl %T>", p.indent(level), decl)
	}
}

func printArgs(args []ast.Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s: %s", a.Name, typeName(a.Type, a.TypeName))
	}
	return strings.Join(parts, ", ")
}

func typeName(t ast.Type, tag string) string {
	if tag != "" {
		return tag
	}
	return t.String()
}

func (p *Printer) printStmts(b *strings.Builder, stmts []ast.Stmt, level int) {
	for _, s := range stmts {
		if p.opts.Style == StyleCompact {
			switch s.(type) {
			case *ast.EmptyLineStmt, *ast.CommentStmt:
				continue
			}
		}
		p.printStmt(b, s, level)
		b.WriteString("\n")
	}
}

func (p *Printer) printStmt(b *strings.Builder, stmt ast.Stmt, level int) {
	ind := p.indent(level)
	switch s := stmt.(type) {
	case *ast.VariableStmt:
		op := "="
		if s.IsDeclare {
			fmt.Fprintf(b, "%s%s: %s %s %s", ind, s.Name, typeName(s.Type, s.TypeName), op, p.printExpr(s.Value))
		} else {
			fmt.Fprintf(b, "%s%s %s %s", ind, s.Name, op, p.printExpr(s.Value))
		}

	case *ast.CallStmt:
		fmt.Fprintf(b, "%s%s", ind, p.printExpr(s.Call))

	case *ast.IfStmt:
		fmt.Fprintf(b, "%sif %s {\n", ind, p.printExpr(s.Condition))
		p.printStmts(b, s.Then, level+1)
		fmt.Fprintf(b, "%s}", ind)
		if len(s.Else) > 0 {
			fmt.Fprintf(b, " else {\n")
			p.printStmts(b, s.Else, level+1)
			fmt.Fprintf(b, "%s}", ind)
		}

	case *ast.WhileStmt:
		fmt.Fprintf(b, "%swhile %s {\n", ind, p.printExpr(s.Condition))
		p.printStmts(b, s.Body, level+1)
		fmt.Fprintf(b, "%s}", ind)

	case *ast.ReturnStmt:
		if s.Value == nil {
			fmt.Fprintf(b, "%sreturn", ind)
		} else {
			fmt.Fprintf(b, "%sreturn %s", ind, p.printExpr(s.Value))
		}

	case *ast.BreakStmt:
		fmt.Fprintf(b, "%sbreak", ind)

	case *ast.ContinueStmt:
		fmt.Fprintf(b, "%scontinue", ind)

	case *ast.CommentStmt:
		fmt.Fprintf(b, "%s%s", ind, s.Text)

	case *ast.EmptyLineStmt:
		// deliberately blank

	default:
		fmt.Fprintf(b, "%s<unknown stmt %T>", ind, stmt)
	}
}

func (p *Printer) printExpr(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		switch e.Kind {
		case ast.TypeBool:
			return fmt.Sprintf("%t", e.Bool)
		case ast.TypeNumber:
			return strconv.FormatFloat(e.Num, 'f', -1, 64)
		case ast.TypeString:
			return fmt.Sprintf("%q", e.Str)
		}
		return ""

	case *ast.IdentifierExpr:
		return e.Name

	case *ast.UnaryExpr:
		return p.printUnary(e)

	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", p.printExpr(e.Left), e.Op, p.printExpr(e.Right))

	case *ast.ParenExpr:
		return fmt.Sprintf("(%s)", p.printExpr(e.Inner))

	case *ast.CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = p.printExpr(a)
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))

	case *ast.ResourceExpr:
		return fmt.Sprintf("%q", e.Path)

	case *ast.EntityExpr:
		return fmt.Sprintf("%q", e.Name)

	default:
		return fmt.Sprintf("<unknown expr %T>", expr)
	}
}

func (p *Printer) printUnary(e *ast.UnaryExpr) string {
	if e.Op == ast.UnaryNot {
		return "not " + p.printExpr(e.Operand)
	}
	return "-" + p.printExpr(e.Operand)
}
