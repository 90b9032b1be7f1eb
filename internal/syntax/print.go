package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		p.printf("Program\n")
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *DeclStmt:
		p.printf("DeclStmt %s %s\n", n.pos, n.Type)
		p.indent++
		for _, item := range n.Items {
			p.printf("Name: %s\n", item.Name.Value)
			if item.Value != nil {
				p.printf("Value:\n")
				p.indent++
				p.print(item.Value)
				p.indent--
			}
		}
		p.indent--

	case *AssignStmt:
		p.printf("AssignStmt %s\n", n.pos)
		p.indent++
		p.printf("LHS:\n")
		p.indent++
		p.print(n.LHS)
		p.indent--
		p.printf("RHS:\n")
		p.indent++
		p.print(n.RHS)
		p.indent--
		p.indent--

	case *PrintStmt:
		p.printf("PrintStmt %s\n", n.pos)
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--

	case *InputStmt:
		p.printf("InputStmt %s %s\n", n.pos, n.Name.Value)

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.printf("Cond:\n")
		p.indent++
		p.print(n.Cond)
		p.indent--
		p.printf("Then:\n")
		p.indent++
		for _, s := range n.Then {
			p.print(s)
		}
		p.indent--
		if n.Else != nil {
			p.printf("Else:\n")
			p.indent++
			for _, s := range n.Else {
				p.print(s)
			}
			p.indent--
		}
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.printf("Cond:\n")
		p.indent++
		p.print(n.Cond)
		p.indent--
		p.printf("Body:\n")
		p.indent++
		for _, s := range n.Body {
			p.print(s)
		}
		p.indent--
		p.indent--

	case *RepeatStmt:
		p.printf("RepeatStmt %s\n", n.pos)
		p.indent++
		p.printf("Count:\n")
		p.indent++
		p.print(n.Count)
		p.indent--
		p.printf("Body:\n")
		p.indent++
		for _, s := range n.Body {
			p.print(s)
		}
		p.indent--
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s\n", n.pos)
		p.indent++
		p.printf("Init:\n")
		p.indent++
		p.print(n.Init)
		p.indent--
		p.printf("Cond:\n")
		p.indent++
		p.print(n.Cond)
		p.indent--
		p.printf("Post:\n")
		p.indent++
		p.print(n.Post)
		p.indent--
		p.printf("Body:\n")
		p.indent++
		for _, s := range n.Body {
			p.print(s)
		}
		p.indent--
		p.indent--

	case *FuncDecl:
		p.printf("FuncDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		p.printf("RetType: %s\n", n.RetType)
		if len(n.Params) > 0 {
			p.printf("Params:\n")
			p.indent++
			for _, param := range n.Params {
				p.printf("%s %s\n", param.Type, param.Name.Value)
			}
			p.indent--
		}
		p.printf("Body:\n")
		p.indent++
		for _, s := range n.Body {
			p.print(s)
		}
		p.indent--
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *BranchStmt:
		p.printf("BranchStmt %s %s\n", n.pos, n.Tok)

	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %q\n", n.pos, n.Kind, n.Value)

	case *Operation:
		if n.Y == nil {
			p.printf("UnaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.print(n.X)
			p.indent--
		} else {
			p.printf("BinaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.printf("X:\n")
			p.indent++
			p.print(n.X)
			p.indent--
			p.printf("Y:\n")
			p.indent++
			p.print(n.Y)
			p.indent--
			p.indent--
		}

	case *CallExpr:
		p.printf("CallExpr %s %s\n", n.pos, n.Fun.Value)
		p.indent++
		if len(n.Args) > 0 {
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent--
		}
		p.indent--

	case *IndexExpr:
		p.printf("IndexExpr %s %s\n", n.pos, n.X.Value)
		p.indent++
		p.printf("Index:\n")
		p.indent++
		p.print(n.Index)
		p.indent--
		p.indent--

	case *ArrayLit:
		p.printf("ArrayLit %s\n", n.pos)
		p.indent++
		for _, e := range n.Elems {
			p.print(e)
		}
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}
