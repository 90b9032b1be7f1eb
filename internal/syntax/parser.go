package syntax

import (
	"fmt"
	"io"
)

// maxBlockStmts bounds the number of statements parsed inside one block.
// Hitting the bound means the parser is not making progress toward an
// 'end', which in practice is a missing 'end' keyword.
const maxBlockStmts = 1000

// Error represents a syntax error.
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Parser performs syntax analysis on CalcScript+ source code.
// The parser is fail-fast: the first syntax error aborts the parse.
type Parser struct {
	scanner *Scanner

	// Current token info (cached from scanner)
	tok Token
	lit string
	pos Pos

	errh func(pos Pos, msg string)
}

// NewParser creates a new Parser for the given source.
// The errh function, if non-nil, is also invoked for the error that
// aborts the parse.
func NewParser(src io.Reader, errh func(pos Pos, msg string)) *Parser {
	p := &Parser{
		scanner: NewScanner(src, errh),
		errh:    errh,
	}
	p.next() // prime the parser with first token
	return p
}

// Parse parses the entire program.
// It returns the first syntax error encountered, if any.
func (p *Parser) Parse() (prog *Program, err error) {
	defer func() {
		if e := recover(); e != nil {
			serr, ok := e.(*Error)
			if !ok {
				panic(e)
			}
			prog, err = nil, serr
		}
	}()

	prog = &Program{}
	prog.pos = p.pos

	p.skipNewlines()
	for p.tok != _EOF {
		prog.Stmts = append(prog.Stmts, p.parseStmt())
		p.skipNewlines()
	}
	return prog, nil
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.pos = p.scanner.Pos()
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, it aborts the parse with an error.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError(fmt.Sprintf("expected %s, got %s", tok, p.describeTok()))
	}
}

// describeTok renders the current token for error messages.
func (p *Parser) describeTok() string {
	switch p.tok {
	case _EOF:
		return "EOF"
	case _Newline:
		return "end of line"
	case _Name, _Number:
		return fmt.Sprintf("%s '%s'", p.tok, p.lit)
	case _String:
		return fmt.Sprintf("STRING %q", p.lit)
	}
	return "'" + p.tok.String() + "'"
}

// skipNewlines skips any newline tokens.
func (p *Parser) skipNewlines() {
	for p.tok == _Newline {
		p.next()
	}
}

// syntaxError aborts the parse with an error at the current position.
func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, msg)
}

// syntaxErrorAt aborts the parse with an error at a specific position.
func (p *Parser) syntaxErrorAt(pos Pos, msg string) {
	err := &Error{Pos: pos, Msg: msg}
	if p.errh != nil {
		p.errh(pos, msg)
	}
	panic(err)
}

// ----------------------------------------------------------------------------
// Statements

// parseStmt parses a single statement.
func (p *Parser) parseStmt() Stmt {
	switch {
	case p.tok.IsType():
		return p.parseDecl()

	case p.tok == _Print:
		return p.parsePrint()

	case p.tok == _Input:
		return p.parseInput()

	case p.tok == _If:
		return p.parseIf()

	case p.tok == _Repeat:
		return p.parseRepeat()

	case p.tok == _While:
		return p.parseWhile()

	case p.tok == _For:
		return p.parseFor()

	case p.tok == _Function:
		return p.parseFuncDecl()

	case p.tok == _Return:
		return p.parseReturn()

	case p.tok == _Break, p.tok == _Continue:
		s := &BranchStmt{Tok: p.tok}
		s.pos = p.pos
		p.next()
		return s

	case p.tok == _Name:
		return p.parseSimpleStmt()
	}

	p.syntaxError("unexpected " + p.describeTok())
	return nil
}

// parseDecl parses a declaration: int x = expr [, y = expr, z]
func (p *Parser) parseDecl() *DeclStmt {
	d := &DeclStmt{Type: p.tok}
	d.pos = p.pos
	p.next() // consume type keyword

	for {
		item := DeclItem{Name: p.parseName()}
		if p.got(_Assign) {
			item.Value = p.parseExpr()
		}
		d.Items = append(d.Items, item)
		if !p.got(_Comma) {
			break
		}
	}
	return d
}

// parseSimpleStmt parses a statement beginning with an identifier:
// an assignment (x = e, x[i] = e) or a call used as a statement.
func (p *Parser) parseSimpleStmt() Stmt {
	name := p.parseName()

	switch p.tok {
	case _Assign:
		p.next()
		s := &AssignStmt{LHS: name, RHS: p.parseExpr()}
		s.pos = name.Pos()
		return s

	case _Lbrack:
		p.next()
		idx := &IndexExpr{X: name, Index: p.parseExpr()}
		idx.pos = name.Pos()
		p.want(_Rbrack)
		p.want(_Assign)
		s := &AssignStmt{LHS: idx, RHS: p.parseExpr()}
		s.pos = name.Pos()
		return s

	case _Lparen:
		s := &ExprStmt{X: p.parseCall(name)}
		s.pos = name.Pos()
		return s
	}

	p.syntaxErrorAt(name.Pos(), fmt.Sprintf("unexpected identifier '%s'", name.Value))
	return nil
}

// parsePrint parses: print expr [, expr ...]
func (p *Parser) parsePrint() *PrintStmt {
	s := &PrintStmt{}
	s.pos = p.pos
	p.want(_Print)

	s.Args = append(s.Args, p.parseExpr())
	for p.got(_Comma) {
		s.Args = append(s.Args, p.parseExpr())
	}
	return s
}

// parseInput parses: input name
func (p *Parser) parseInput() *InputStmt {
	s := &InputStmt{}
	s.pos = p.pos
	p.want(_Input)
	s.Name = p.parseName()
	return s
}

// parseIf parses: if cond : block [else : block] end
func (p *Parser) parseIf() *IfStmt {
	s := &IfStmt{}
	s.pos = p.pos
	p.want(_If)
	s.Cond = p.parseExpr()
	if p.tok != _Colon {
		p.syntaxError("expected ':' after if condition, got " + p.describeTok())
	}
	p.next()

	s.Then = p.parseBlock("if statement", _Else, _End)
	if p.got(_Else) {
		if p.tok != _Colon {
			p.syntaxError("expected ':' after 'else', got " + p.describeTok())
		}
		p.next()
		s.Else = p.parseBlock("if-else statement", _End)
	}
	p.want(_End)
	return s
}

// parseRepeat parses: repeat count times : block end
func (p *Parser) parseRepeat() *RepeatStmt {
	s := &RepeatStmt{}
	s.pos = p.pos
	p.want(_Repeat)
	s.Count = p.parseExpr()
	p.want(_Times)
	p.want(_Colon)
	s.Body = p.parseBlock("repeat loop", _End)
	p.want(_End)
	return s
}

// parseWhile parses: while cond : block end
func (p *Parser) parseWhile() *WhileStmt {
	s := &WhileStmt{}
	s.pos = p.pos
	p.want(_While)
	s.Cond = p.parseExpr()
	p.want(_Colon)
	s.Body = p.parseBlock("while loop", _End)
	p.want(_End)
	return s
}

// parseFor parses: for init ; cond ; post : block end
func (p *Parser) parseFor() *ForStmt {
	s := &ForStmt{}
	s.pos = p.pos
	p.want(_For)

	switch {
	case p.tok.IsType():
		s.Init = p.parseDecl()
	case p.tok == _Name:
		s.Init = p.parseSimpleStmt()
	default:
		p.syntaxError("expected variable declaration or assignment in for-loop initialization")
	}
	p.want(_Semi)

	s.Cond = p.parseExpr()
	p.want(_Semi)

	if p.tok != _Name {
		p.syntaxError("expected assignment in for-loop update")
	}
	s.Post = p.parseSimpleStmt()

	p.want(_Colon)
	s.Body = p.parseBlock("for loop", _End)
	p.want(_End)
	return s
}

// parseFuncDecl parses: function rettype name(params) : block end
func (p *Parser) parseFuncDecl() *FuncDecl {
	s := &FuncDecl{}
	s.pos = p.pos
	p.want(_Function)

	if !p.tok.IsType() && p.tok != _Void {
		p.syntaxError("expected return type after 'function' keyword")
	}
	s.RetType = p.tok
	p.next()

	s.Name = p.parseName()
	p.want(_Lparen)

	if p.tok.IsType() {
		for {
			param := Param{Type: p.tok}
			p.next()
			param.Name = p.parseName()
			s.Params = append(s.Params, param)
			if !p.got(_Comma) {
				break
			}
			if !p.tok.IsType() {
				p.syntaxError("expected parameter type, got " + p.describeTok())
			}
		}
	}
	p.want(_Rparen)
	p.want(_Colon)

	s.Body = p.parseBlock(fmt.Sprintf("function '%s'", s.Name.Value), _End)
	p.want(_End)
	return s
}

// parseReturn parses: return [expr]
func (p *Parser) parseReturn() *ReturnStmt {
	s := &ReturnStmt{}
	s.pos = p.pos
	p.want(_Return)
	if p.tok != _Newline && p.tok != _End && p.tok != _EOF {
		s.Result = p.parseExpr()
	}
	return s
}

// parseBlock parses statements up to (not consuming) one of the given
// terminator tokens. The owner string names the enclosing construct for
// error messages.
func (p *Parser) parseBlock(owner string, terms ...Token) []Stmt {
	p.skipNewlines()

	var stmts []Stmt
	for !p.atTerminator(terms) {
		if p.tok == _EOF {
			p.syntaxError("missing 'end' keyword for " + owner)
		}
		if len(stmts) >= maxBlockStmts {
			p.syntaxError("runaway block in " + owner + "; check for a missing 'end' keyword")
		}
		stmts = append(stmts, p.parseStmt())
		p.skipNewlines()
	}
	return stmts
}

// atTerminator reports whether the current token is one of terms.
func (p *Parser) atTerminator(terms []Token) bool {
	for _, t := range terms {
		if p.tok == t {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------------------------
// Expressions

// parseExpr parses an expression at the lowest precedence level.
func (p *Parser) parseExpr() Expr {
	return p.parseBinary(1)
}

// parseBinary parses binary operations at or above the given precedence
// using precedence climbing. The ^ operator is right-associative and is
// handled by parsePower.
func (p *Parser) parseBinary(prec int) Expr {
	x := p.parseUnary()

	for p.tok.Precedence() >= prec {
		op := p.tok
		pos := p.pos
		if op == _Pow {
			x = p.parsePower(x, pos)
			continue
		}
		p.next()
		y := p.parseBinary(op.Precedence() + 1)
		t := &Operation{Op: op, X: x, Y: y}
		t.pos = pos
		x = t
	}
	return x
}

// parsePower parses the right side of a ^ operation.
// Besides right-associative exponentiation, ^ carries two postfix forms:
// M ^ t is transpose and M ^ -1 is matrix inverse.
func (p *Parser) parsePower(x Expr, pos Pos) Expr {
	p.next() // consume ^

	op := &Operation{Op: _Pow, X: x}
	op.pos = pos

	switch {
	case p.tok == _Name && p.lit == "t":
		lit := &BasicLit{Value: "t", Kind: StringLit}
		lit.pos = p.pos
		p.next()
		op.Y = lit

	case p.tok == _Sub:
		minusPos := p.pos
		p.next()
		if p.tok == _Number && p.lit == "1" {
			lit := &BasicLit{Value: "-1", Kind: NumberLit}
			lit.pos = minusPos
			p.next()
			op.Y = lit
		} else {
			neg := &Operation{Op: _Sub, X: p.parseBinary(_Pow.Precedence())}
			neg.pos = minusPos
			op.Y = neg
		}

	default:
		// Right-associative: a ^ b ^ c parses as a ^ (b ^ c).
		op.Y = p.parseBinary(_Pow.Precedence())
	}
	return op
}

// parseUnary parses unary operations: -expr, not expr.
func (p *Parser) parseUnary() Expr {
	if p.tok == _Sub || p.tok == _Not {
		op := &Operation{Op: p.tok}
		op.pos = p.pos
		p.next()
		op.X = p.parseUnary()
		return op
	}
	return p.parsePrimary()
}

// parsePrimary parses primary expressions: literals, identifiers,
// calls, index expressions, array literals, and parenthesized groups.
func (p *Parser) parsePrimary() Expr {
	switch p.tok {
	case _Number:
		lit := &BasicLit{Value: p.lit, Kind: NumberLit}
		lit.pos = p.pos
		p.next()
		return lit

	case _String:
		lit := &BasicLit{Value: p.lit, Kind: StringLit}
		lit.pos = p.pos
		p.next()
		return lit

	case _True, _False:
		lit := &BasicLit{Value: p.tok.String(), Kind: BoolLit}
		lit.pos = p.pos
		p.next()
		return lit

	case _Name:
		name := p.parseName()
		switch p.tok {
		case _Lparen:
			return p.parseCall(name)
		case _Lbrack:
			p.next()
			idx := &IndexExpr{X: name, Index: p.parseExpr()}
			idx.pos = name.Pos()
			p.want(_Rbrack)
			return idx
		}
		return name

	case _Lbrack:
		lit := &ArrayLit{}
		lit.pos = p.pos
		p.next()
		if p.tok != _Rbrack {
			lit.Elems = append(lit.Elems, p.parseExpr())
			for p.got(_Comma) {
				lit.Elems = append(lit.Elems, p.parseExpr())
			}
		}
		p.want(_Rbrack)
		return lit

	case _Lparen:
		p.next()
		x := p.parseExpr()
		p.want(_Rparen)
		return x
	}

	p.syntaxError("unexpected " + p.describeTok())
	return nil
}

// parseCall parses the argument list of a call whose name has already
// been consumed.
func (p *Parser) parseCall(fun *Name) *CallExpr {
	call := &CallExpr{Fun: fun}
	call.pos = fun.Pos()
	p.want(_Lparen)
	if p.tok != _Rparen {
		call.Args = append(call.Args, p.parseExpr())
		for p.got(_Comma) {
			call.Args = append(call.Args, p.parseExpr())
		}
	}
	p.want(_Rparen)
	return call
}

// parseName parses an identifier.
func (p *Parser) parseName() *Name {
	if p.tok != _Name {
		p.syntaxError("expected identifier, got " + p.describeTok())
	}
	n := &Name{Value: p.lit}
	n.pos = p.pos
	p.next()
	return n
}
