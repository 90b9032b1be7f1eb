package sema

import (
	"fmt"

	"github.com/calc-lang/calcscript/internal/diag"
	"github.com/calc-lang/calcscript/internal/syntax"
)

const phase = "semantic"

// Analyzer performs scope resolution and type checking over a parsed
// program. Errors are accumulated into the diagnostics collector;
// analysis never stops at the first problem.
type Analyzer struct {
	global *Scope
	scope  *Scope
	coll   *diag.Collector

	inFunc bool
	inLoop bool
	errcnt int

	// Suggestion candidates and symbol table display, in declaration order.
	varNames  []string
	funcNames []string
	allSyms   []*Symbol
}

// New creates an Analyzer reporting into coll. The builtins are
// registered as callable functions in the global scope; user-defined
// functions may override them.
func New(coll *diag.Collector, builtins []string) *Analyzer {
	a := &Analyzer{coll: coll}
	a.global = NewScope(nil)
	a.scope = a.global

	for _, name := range builtins {
		a.global.Insert(&Symbol{Name: name, Kind: BuiltinSymbol, Type: Unknown, Used: true})
		a.funcNames = append(a.funcNames, name)
	}
	return a
}

// Analyze checks the whole program. It returns an error when any
// semantic error was recorded; the individual problems are in the
// collector.
func (a *Analyzer) Analyze(prog *syntax.Program) error {
	for _, s := range prog.Stmts {
		a.stmt(s)
	}
	a.warnUnused()

	if a.errcnt > 0 {
		return fmt.Errorf("semantic analysis failed with %d error(s)", a.errcnt)
	}
	return nil
}

// AllSymbols returns every user symbol declared during analysis, in
// declaration order. Used by symbol-table display tooling.
func (a *Analyzer) AllSymbols() []*Symbol {
	return a.allSyms
}

// warnUnused reports variables and parameters that were never read.
func (a *Analyzer) warnUnused() {
	for _, sym := range a.allSyms {
		if sym.Used {
			continue
		}
		switch sym.Kind {
		case VarSymbol, ParamSymbol:
			a.coll.Warnf(phase, sym.Pos, "%s '%s' declared but never used", sym.Kind, sym.Name)
		}
	}
}

// ----------------------------------------------------------------------------
// Error reporting

func (a *Analyzer) errorf(pos syntax.Pos, format string, args ...interface{}) {
	a.errcnt++
	a.coll.Errorf(phase, pos, format, args...)
}

// errorWithSuggestion reports an error for a misspelled name, attaching
// the closest candidate if one is within the edit distance bound.
func (a *Analyzer) errorWithSuggestion(pos syntax.Pos, msg, wrong string, candidates []string) {
	a.errcnt++
	a.coll.Add(diag.Diagnostic{
		Phase:      phase,
		Pos:        pos,
		Msg:        msg,
		Suggestion: suggest(wrong, candidates),
		Severity:   diag.Error,
	})
}

// ----------------------------------------------------------------------------
// Scope management

func (a *Analyzer) openScope() {
	a.scope = NewScope(a.scope)
}

func (a *Analyzer) closeScope() {
	a.scope = a.scope.Parent()
}

// declareVar declares a variable or parameter in the current scope.
func (a *Analyzer) declareVar(name *syntax.Name, kind SymbolKind, typ ValueType, init bool) {
	sym := &Symbol{
		Name:        name.Value,
		Kind:        kind,
		Type:        typ,
		Pos:         name.Pos(),
		Initialized: init,
	}
	if alt := a.scope.Insert(sym); alt != nil {
		a.errorf(name.Pos(), "variable '%s' already declared in current scope", name.Value)
		return
	}
	a.varNames = append(a.varNames, name.Value)
	a.allSyms = append(a.allSyms, sym)
}

// ----------------------------------------------------------------------------
// Statements

func (a *Analyzer) stmt(s syntax.Stmt) {
	switch n := s.(type) {
	case *syntax.DeclStmt:
		declType := TypeFromKeyword(n.Type.String())
		for _, item := range n.Items {
			init := item.Value != nil
			if init {
				valType := a.expr(item.Value)
				if declType != Unknown && valType != Unknown && declType != valType {
					a.errorf(item.Name.Pos(),
						"type mismatch: variable '%s' declared as %s but assigned %s",
						item.Name.Value, n.Type, valType)
				}
			}
			a.declareVar(item.Name, VarSymbol, declType, true)
		}

	case *syntax.AssignStmt:
		a.assign(n)

	case *syntax.PrintStmt:
		for _, arg := range n.Args {
			a.expr(arg)
		}

	case *syntax.InputStmt:
		// input declares the variable on first use; its type is only
		// known at runtime, when the numeric parse succeeds or not.
		if sym := a.scope.LookupParent(n.Name.Value); sym == nil {
			a.declareVar(n.Name, VarSymbol, Unknown, true)
		} else {
			sym.Initialized = true
		}

	case *syntax.IfStmt:
		a.cond(n.Cond, "if condition")
		a.openScope()
		for _, s := range n.Then {
			a.stmt(s)
		}
		a.closeScope()
		if n.Else != nil {
			a.openScope()
			for _, s := range n.Else {
				a.stmt(s)
			}
			a.closeScope()
		}

	case *syntax.WhileStmt:
		a.cond(n.Cond, "while condition")
		a.loopBody(n.Body)

	case *syntax.RepeatStmt:
		if t := a.expr(n.Count); t != Number && t != Unknown {
			a.errorf(n.Count.Pos(), "repeat count must be a number, got %s", t)
		}
		a.loopBody(n.Body)

	case *syntax.ForStmt:
		// The initializer lives in the loop scope and must not leak out.
		a.openScope()
		a.stmt(n.Init)
		a.cond(n.Cond, "for condition")
		inLoop := a.inLoop
		a.inLoop = true
		for _, s := range n.Body {
			a.stmt(s)
		}
		a.stmt(n.Post)
		a.inLoop = inLoop
		a.closeScope()

	case *syntax.FuncDecl:
		a.funcDecl(n)

	case *syntax.ReturnStmt:
		if !a.inFunc {
			a.errorf(n.Pos(), "return statement outside function")
		}
		if n.Result != nil {
			a.expr(n.Result)
		}

	case *syntax.BranchStmt:
		if !a.inLoop {
			a.errorf(n.Pos(), "%s statement outside loop", n.Tok)
		}

	case *syntax.ExprStmt:
		a.expr(n.X)

	default:
		panic(fmt.Sprintf("sema: unexpected statement %T", s))
	}
}

// loopBody analyzes a loop body in its own scope with the loop flag set.
func (a *Analyzer) loopBody(body []syntax.Stmt) {
	a.openScope()
	inLoop := a.inLoop
	a.inLoop = true
	for _, s := range body {
		a.stmt(s)
	}
	a.inLoop = inLoop
	a.closeScope()
}

// cond checks a loop or branch condition. Numbers are allowed for
// truthiness.
func (a *Analyzer) cond(e syntax.Expr, what string) {
	if t := a.expr(e); t != Boolean && t != Number && t != Unknown {
		a.errorf(e.Pos(), "%s must be boolean, got %s", what, t)
	}
}

// assign checks an assignment to a variable or an array element.
func (a *Analyzer) assign(n *syntax.AssignStmt) {
	switch lhs := n.LHS.(type) {
	case *syntax.Name:
		sym := a.scope.LookupParent(lhs.Value)
		if sym == nil {
			a.errorWithSuggestion(lhs.Pos(),
				fmt.Sprintf("variable '%s' not declared", lhs.Value),
				lhs.Value, a.varNames)
			a.expr(n.RHS)
			return
		}
		sym.Initialized = true
		a.expr(n.RHS)

	case *syntax.IndexExpr:
		if sym := a.scope.LookupParent(lhs.X.Value); sym == nil {
			a.errorWithSuggestion(lhs.X.Pos(),
				fmt.Sprintf("array '%s' not declared", lhs.X.Value),
				lhs.X.Value, a.varNames)
		} else {
			sym.Used = true
		}
		if t := a.expr(lhs.Index); t != Number && t != Unknown {
			a.errorf(lhs.Index.Pos(), "array index must be a number, got %s", t)
		}
		a.expr(n.RHS)

	default:
		panic(fmt.Sprintf("sema: unexpected assignment target %T", n.LHS))
	}
}

// funcDecl registers the function in the global scope before checking
// its body so recursive calls resolve.
func (a *Analyzer) funcDecl(n *syntax.FuncDecl) {
	retType := TypeFromKeyword(n.RetType.String())

	if alt := a.global.Lookup(n.Name.Value); alt != nil {
		switch alt.Kind {
		case FuncSymbol:
			a.errorf(n.Name.Pos(), "function '%s' already defined", n.Name.Value)
			return
		case BuiltinSymbol:
			// User definitions override builtins; update in place.
			alt.Kind = FuncSymbol
			alt.Type = retType
			alt.Pos = n.Name.Pos()
		default:
			a.errorf(n.Name.Pos(), "'%s' already declared as a %s", n.Name.Value, alt.Kind)
			return
		}
	} else {
		sym := &Symbol{
			Name: n.Name.Value,
			Kind: FuncSymbol,
			Type: retType,
			Pos:  n.Name.Pos(),
			Used: true, // functions are not reported as unused
		}
		a.global.Insert(sym)
		a.funcNames = append(a.funcNames, n.Name.Value)
		a.allSyms = append(a.allSyms, sym)
	}

	a.openScope()
	inFunc, inLoop := a.inFunc, a.inLoop
	a.inFunc, a.inLoop = true, false

	for _, param := range n.Params {
		a.declareVar(param.Name, ParamSymbol, TypeFromKeyword(param.Type.String()), true)
	}
	for _, s := range n.Body {
		a.stmt(s)
	}

	a.inFunc, a.inLoop = inFunc, inLoop
	a.closeScope()
}

// ----------------------------------------------------------------------------
// Expressions

// expr type-checks an expression and returns its value type.
func (a *Analyzer) expr(e syntax.Expr) ValueType {
	switch n := e.(type) {
	case *syntax.BasicLit:
		switch n.Kind {
		case syntax.NumberLit:
			return Number
		case syntax.StringLit:
			return String
		case syntax.BoolLit:
			return Boolean
		}
		return Unknown

	case *syntax.Name:
		sym := a.scope.LookupParent(n.Value)
		if sym == nil {
			a.errorWithSuggestion(n.Pos(),
				fmt.Sprintf("variable '%s' not declared", n.Value),
				n.Value, a.varNames)
			return Unknown
		}
		sym.Used = true
		return sym.Type

	case *syntax.Operation:
		if n.Y == nil {
			return a.unaryOp(n)
		}
		return a.binaryOp(n)

	case *syntax.CallExpr:
		return a.call(n)

	case *syntax.IndexExpr:
		if sym := a.scope.LookupParent(n.X.Value); sym == nil {
			a.errorWithSuggestion(n.X.Pos(),
				fmt.Sprintf("array '%s' not declared", n.X.Value),
				n.X.Value, a.varNames)
		} else {
			sym.Used = true
		}
		if t := a.expr(n.Index); t != Number && t != Unknown {
			a.errorf(n.Index.Pos(), "array index must be a number, got %s", t)
		}
		return Unknown // element types are not tracked

	case *syntax.ArrayLit:
		for _, el := range n.Elems {
			a.expr(el)
		}
		return Array

	default:
		panic(fmt.Sprintf("sema: unexpected expression %T", e))
	}
}

func (a *Analyzer) unaryOp(n *syntax.Operation) ValueType {
	t := a.expr(n.X)
	switch n.Op.String() {
	case "-":
		if t == Number || t == Unknown {
			return Number
		}
		a.errorf(n.Pos(), "invalid operand for unary -: %s", t)
		return Number
	case "not":
		if t == Boolean || t == Unknown {
			return Boolean
		}
		a.errorf(n.Pos(), "invalid operand for not: %s", t)
		return Boolean
	}
	return Unknown
}

func (a *Analyzer) binaryOp(n *syntax.Operation) ValueType {
	left := a.expr(n.X)
	right := a.expr(n.Y)
	op := n.Op.String()

	switch op {
	case "+", "-", "*", "/", "%", "^":
		if op == "+" && left == String && (right == String || right == Unknown) {
			return String // concatenation
		}
		if op == "+" && right == String && left == Unknown {
			return String
		}
		if (op == "+" || op == "-" || op == "*") && left == Array && right == Array {
			return Array // element-wise and matrix product
		}
		if op == "*" && left == Array && (right == Number || right == Unknown) {
			return Array // scalar scaling of a matrix
		}
		if op == "*" && right == Array && (left == Number || left == Unknown) {
			return Array
		}
		if op == "^" && left == Array {
			// Transpose (^t), inverse (^-1), or a computed exponent.
			if right == String || right == Number || right == Unknown {
				return Array
			}
		}
		if (left == Number || left == Unknown) && (right == Number || right == Unknown) {
			return Number
		}
		a.errorf(n.Pos(), "invalid operands for %s: %s and %s", op, left, right)
		return Number

	case ">", "<", ">=", "<=":
		if (left == Number || left == Unknown) && (right == Number || right == Unknown) {
			return Boolean
		}
		a.errorf(n.Pos(), "invalid operands for %s: %s and %s", op, left, right)
		return Boolean

	case "==", "!=":
		return Boolean

	case "and", "or":
		if (left == Boolean || left == Unknown) && (right == Boolean || right == Unknown) {
			return Boolean
		}
		a.errorf(n.Pos(), "invalid operands for %s: %s and %s", op, left, right)
		return Boolean
	}
	return Unknown
}

func (a *Analyzer) call(n *syntax.CallExpr) ValueType {
	sym := a.global.LookupParent(n.Fun.Value)
	if sym == nil || (sym.Kind != FuncSymbol && sym.Kind != BuiltinSymbol) {
		a.errorWithSuggestion(n.Fun.Pos(),
			fmt.Sprintf("function '%s' not defined", n.Fun.Value),
			n.Fun.Value, a.funcNames)
		return Number // assume number so checking can continue
	}
	sym.Used = true
	for _, arg := range n.Args {
		a.expr(arg)
	}
	return sym.Type
}
