package tac

import (
	"fmt"
	"strings"

	"github.com/calc-lang/calcscript/internal/syntax"
)

// opForText maps operator spellings to TAC operations.
var opForText = map[string]Op{
	"+":   OpAdd,
	"-":   OpSub,
	"*":   OpMul,
	"/":   OpDiv,
	"%":   OpRem,
	"^":   OpPow,
	">":   OpGtr,
	"<":   OpLss,
	">=":  OpGeq,
	"<=":  OpLeq,
	"==":  OpEql,
	"!=":  OpNeq,
	"and": OpAnd,
	"or":  OpOr,
	"not": OpNot,
}

// genError aborts lowering; Generate recovers it into an error return.
type genError struct {
	msg string
}

// loopLabels is one entry of the loop bookkeeping stack.
type loopLabels struct {
	cont string // continue target
	brk  string // break target
}

// Generator lowers a type-checked AST into a flat TAC stream.
type Generator struct {
	instrs []Instruction
	funcs  map[string]FuncInfo

	tempCount  int
	labelCount int
	loops      []loopLabels
	arena      scopeArena
}

// Generate lowers the program. Lowering is deterministic: temporaries
// and labels are numbered in emission order.
func Generate(prog *syntax.Program) (p *Program, err error) {
	defer func() {
		if e := recover(); e != nil {
			ge, ok := e.(*genError)
			if !ok {
				panic(e)
			}
			p, err = nil, fmt.Errorf("ir generation: %s", ge.msg)
		}
	}()

	g := &Generator{funcs: make(map[string]FuncInfo)}
	for _, s := range prog.Stmts {
		g.stmt(s)
	}
	return &Program{Instrs: g.instrs, Funcs: g.funcs}, nil
}

func (g *Generator) errorf(format string, args ...interface{}) {
	panic(&genError{msg: fmt.Sprintf(format, args...)})
}

// newTemp allocates the next temporary name.
func (g *Generator) newTemp() string {
	g.tempCount++
	return fmt.Sprintf("t%d", g.tempCount)
}

// newLabel allocates the next label name.
func (g *Generator) newLabel() string {
	g.labelCount++
	return fmt.Sprintf("L%d", g.labelCount)
}

// emit appends one instruction.
func (g *Generator) emit(op Op, a, b, dst string) {
	g.instrs = append(g.instrs, Instruction{Op: op, A: a, B: b, Dst: dst})
}

// ----------------------------------------------------------------------------
// Statements

func (g *Generator) stmt(s syntax.Stmt) {
	switch n := s.(type) {
	case *syntax.DeclStmt:
		for _, item := range n.Items {
			var loc string
			if item.Value != nil {
				loc = g.expr(item.Value)
			} else {
				loc = g.defaultValue(n.Type.String())
			}
			g.emit(OpAssign, loc, "", g.arena.declare(item.Name.Value))
		}

	case *syntax.AssignStmt:
		loc := g.expr(n.RHS)
		switch lhs := n.LHS.(type) {
		case *syntax.Name:
			g.emit(OpAssign, loc, "", g.arena.resolve(lhs.Value))
		case *syntax.IndexExpr:
			idx := g.expr(lhs.Index)
			g.emit(OpArrayStore, idx, loc, g.arena.resolve(lhs.X.Value))
		default:
			g.errorf("unexpected assignment target %T", n.LHS)
		}

	case *syntax.PrintStmt:
		// One print instruction per expression keeps the flat stream
		// free of list operands while preserving output order.
		for _, arg := range n.Args {
			g.emit(OpPrint, g.expr(arg), "", "")
		}

	case *syntax.InputStmt:
		g.emit(OpInput, "", "", g.arena.resolve(n.Name.Value))

	case *syntax.IfStmt:
		g.ifStmt(n)

	case *syntax.WhileStmt:
		g.whileStmt(n)

	case *syntax.RepeatStmt:
		g.repeatStmt(n)

	case *syntax.ForStmt:
		g.forStmt(n)

	case *syntax.FuncDecl:
		g.funcDecl(n)

	case *syntax.ReturnStmt:
		loc := "0"
		if n.Result != nil {
			loc = g.expr(n.Result)
		}
		g.emit(OpReturn, loc, "", "")

	case *syntax.BranchStmt:
		if len(g.loops) == 0 {
			g.errorf("'%s' statement outside loop", n.Tok)
		}
		top := g.loops[len(g.loops)-1]
		if n.Tok.String() == "break" {
			g.emit(OpGoto, "", "", top.brk)
		} else {
			g.emit(OpGoto, "", "", top.cont)
		}

	case *syntax.ExprStmt:
		g.expr(n.X)

	default:
		g.errorf("unexpected statement %T", s)
	}
}

// defaultValue returns the operand used to initialize a declaration
// without an explicit initializer.
func (g *Generator) defaultValue(typeKw string) string {
	switch typeKw {
	case "float":
		return "0.0"
	case "string":
		return `""`
	case "boolean":
		return "false"
	case "array", "matrix":
		t := g.newTemp()
		g.emit(OpArrayLiteral, "", "", t)
		return t
	}
	return "0"
}

func (g *Generator) ifStmt(n *syntax.IfStmt) {
	cond := g.expr(n.Cond)

	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	if n.Else != nil {
		g.emit(OpIfFalse, cond, "", elseLabel)
	} else {
		g.emit(OpIfFalse, cond, "", endLabel)
	}

	for _, s := range n.Then {
		g.stmt(s)
	}

	if n.Else != nil {
		g.emit(OpGoto, "", "", endLabel)
		g.emit(OpLabel, "", "", elseLabel)
		for _, s := range n.Else {
			g.stmt(s)
		}
	}
	g.emit(OpLabel, "", "", endLabel)
}

func (g *Generator) whileStmt(n *syntax.WhileStmt) {
	start := g.newLabel()
	end := g.newLabel()
	g.loops = append(g.loops, loopLabels{cont: start, brk: end})

	g.emit(OpLabel, "", "", start)
	cond := g.expr(n.Cond)
	g.emit(OpIfFalse, cond, "", end)

	for _, s := range n.Body {
		g.stmt(s)
	}

	g.emit(OpGoto, "", "", start)
	g.emit(OpLabel, "", "", end)
	g.loops = g.loops[:len(g.loops)-1]
}

// repeatStmt lowers `repeat N times` to a counted while-loop over a
// synthetic counter temporary.
func (g *Generator) repeatStmt(n *syntax.RepeatStmt) {
	count := g.expr(n.Count)

	counter := g.newTemp()
	g.emit(OpAssign, "0", "", counter)

	start := g.newLabel()
	end := g.newLabel()
	g.loops = append(g.loops, loopLabels{cont: start, brk: end})

	g.emit(OpLabel, "", "", start)
	cond := g.newTemp()
	g.emit(OpLss, counter, count, cond)
	g.emit(OpIfFalse, cond, "", end)

	for _, s := range n.Body {
		g.stmt(s)
	}

	one := g.newTemp()
	g.emit(OpAssign, "1", "", one)
	next := g.newTemp()
	g.emit(OpAdd, counter, one, next)
	g.emit(OpAssign, next, "", counter)

	g.emit(OpGoto, "", "", start)
	g.emit(OpLabel, "", "", end)
	g.loops = g.loops[:len(g.loops)-1]
}

// forStmt lowers a three-clause for loop. The loop gets its own
// renaming frame so the initializer cannot collide with an outer
// variable of the same name. Continue jumps to the update label, not
// back to the condition: the update must run on every path around the
// loop.
func (g *Generator) forStmt(n *syntax.ForStmt) {
	g.arena.push()
	g.stmt(n.Init)

	start := g.newLabel()
	update := g.newLabel()
	end := g.newLabel()
	g.loops = append(g.loops, loopLabels{cont: update, brk: end})

	g.emit(OpLabel, "", "", start)
	cond := g.expr(n.Cond)
	g.emit(OpIfFalse, cond, "", end)

	for _, s := range n.Body {
		g.stmt(s)
	}

	g.emit(OpLabel, "", "", update)
	g.stmt(n.Post)
	g.emit(OpGoto, "", "", start)
	g.emit(OpLabel, "", "", end)

	g.loops = g.loops[:len(g.loops)-1]
	g.arena.pop()
}

// funcDecl lowers a function definition inline, fronted by a jump that
// keeps top-level control flow from falling into the body. The body is
// only reached through call dispatch on its func_<name> label.
func (g *Generator) funcDecl(n *syntax.FuncDecl) {
	end := g.newLabel()
	g.emit(OpGoto, "", "", end)

	funcLabel := "func_" + n.Name.Value
	g.emit(OpLabel, "", "", funcLabel)

	params := make([]string, len(n.Params))
	for i, param := range n.Params {
		params[i] = param.Name.Value
	}
	g.funcs[n.Name.Value] = FuncInfo{Label: funcLabel, Params: params}

	for _, s := range n.Body {
		g.stmt(s)
	}

	// Implicit return 0 when control falls through the body.
	g.emit(OpReturn, "0", "", "")
	g.emit(OpLabel, "", "", end)
}

// ----------------------------------------------------------------------------
// Expressions

// expr lowers an expression and returns its operand location: a
// literal rendering, a variable name, or a temporary.
func (g *Generator) expr(e syntax.Expr) string {
	switch n := e.(type) {
	case *syntax.BasicLit:
		if n.Kind == syntax.StringLit {
			return `"` + n.Value + `"`
		}
		return n.Value

	case *syntax.Name:
		return g.arena.resolve(n.Value)

	case *syntax.Operation:
		if n.Y == nil {
			loc := g.expr(n.X)
			t := g.newTemp()
			g.emit(g.opFor(n.Op), loc, "", t)
			return t
		}
		left := g.expr(n.X)
		right := g.expr(n.Y)
		t := g.newTemp()
		g.emit(g.opFor(n.Op), left, right, t)
		return t

	case *syntax.CallExpr:
		for _, arg := range n.Args {
			g.emit(OpParam, g.expr(arg), "", "")
		}
		t := g.newTemp()
		g.emit(OpCall, n.Fun.Value, fmt.Sprintf("%d", len(n.Args)), t)
		return t

	case *syntax.IndexExpr:
		idx := g.expr(n.Index)
		t := g.newTemp()
		g.emit(OpArrayLoad, g.arena.resolve(n.X.Value), idx, t)
		return t

	case *syntax.ArrayLit:
		locs := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			locs[i] = g.expr(el)
		}
		t := g.newTemp()
		g.emit(OpArrayLiteral, strings.Join(locs, ", "), "", t)
		return t

	default:
		g.errorf("unexpected expression %T", e)
		return ""
	}
}

// opFor maps an operator token to its TAC operation.
func (g *Generator) opFor(tok syntax.Token) Op {
	op, ok := opForText[tok.String()]
	if !ok {
		g.errorf("unexpected operator %s", tok)
	}
	return op
}
