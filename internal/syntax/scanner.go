package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner performs lexical analysis on CalcScript+ source code.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token  // token type
	lit    string // token literal (identifier name, number text, string content)
	tokPos Pos    // token start position

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are
// silently ignored.
func NewScanner(src io.Reader, errh func(pos Pos, msg string)) *Scanner {
	return &Scanner{source: *newSource(src, errh)}
}

// Next advances to the next token.
// Newlines are significant: each one becomes a NEWLINE token because
// statements are newline-terminated.
func (s *Scanner) Next() {
redo:
	s.skipWhitespace()

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case s.ch == '\n':
		s.nextch()
		s.tok = _Newline
		s.lit = "\\n"

	case s.ch == '#':
		s.skipLineComment()
		goto redo

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case isOperatorStart(s.ch):
		s.scanOperator()

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// skipWhitespace skips space, tab, and carriage return.
// Newline is NOT skipped: it is tokenized as NEWLINE.
func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

// skipLineComment skips a # comment up to (not including) the newline.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}

// startLit begins accumulating a literal.
func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

// continueLit adds the current character to the literal being accumulated.
func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

// stopLit ends literal accumulation and returns the accumulated string.
func (s *Scanner) stopLit() string {
	return s.litBuf.String()
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.startLit()
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.lit = s.stopLit()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans an integer or float literal.
// A '.' not followed by a digit is an error (e.g. "3." is rejected).
func (s *Scanner) scanNumber() {
	s.startLit()
	s.nextch()

	for isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	if s.ch == '.' {
		s.continueLit()
		s.nextch()
		if !isDigit(s.ch) {
			s.error("malformed number: missing digits after decimal point")
		}
		for isDigit(s.ch) {
			s.continueLit()
			s.nextch()
		}
	}

	s.lit = s.stopLit()
	s.tok = _Number
}

// scanString scans a double-quoted string literal.
// The resulting literal is the decoded string content.
func (s *Scanner) scanString() {
	s.nextch() // skip opening "
	var b strings.Builder

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = b.String()
			s.tok = _String
			return

		case s.ch == '\\':
			if r, ok := s.scanEscape(); ok {
				b.WriteRune(r)
			}

		case s.ch == '\n' || s.ch < 0:
			s.error("unterminated string literal")
			s.lit = b.String()
			s.tok = _String
			return

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanEscape scans an escape sequence and returns the decoded rune.
func (s *Scanner) scanEscape() (rune, bool) {
	s.nextch() // skip \

	switch s.ch {
	case 'n':
		s.nextch()
		return '\n', true
	case 't':
		s.nextch()
		return '\t', true
	case 'r':
		s.nextch()
		return '\r', true
	case '\\':
		s.nextch()
		return '\\', true
	case '"':
		s.nextch()
		return '"', true
	default:
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
		return 0, false
	}
}

// scanOperator scans an operator or delimiter.
func (s *Scanner) scanOperator() {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.tok = _Add
		s.lit = "+"
	case '-':
		s.tok = _Sub
		s.lit = "-"
	case '*':
		s.tok = _Mul
		s.lit = "*"
	case '/':
		s.tok = _Div
		s.lit = "/"
	case '%':
		s.tok = _Rem
		s.lit = "%"
	case '^':
		s.tok = _Pow
		s.lit = "^"
	case '<':
		if s.ch == '=' {
			s.nextch()
			s.tok = _Leq
			s.lit = "<="
		} else {
			s.tok = _Lss
			s.lit = "<"
		}
	case '>':
		if s.ch == '=' {
			s.nextch()
			s.tok = _Geq
			s.lit = ">="
		} else {
			s.tok = _Gtr
			s.lit = ">"
		}
	case '=':
		if s.ch == '=' {
			s.nextch()
			s.tok = _Eql
			s.lit = "=="
		} else {
			s.tok = _Assign
			s.lit = "="
		}
	case '!':
		if s.ch == '=' {
			s.nextch()
			s.tok = _Neq
			s.lit = "!="
		} else {
			s.error("unexpected character '!' (use 'not' for negation)")
			s.tok = _Not
			s.lit = "!"
		}
	case '(':
		s.tok = _Lparen
		s.lit = "("
	case ')':
		s.tok = _Rparen
		s.lit = ")"
	case '[':
		s.tok = _Lbrack
		s.lit = "["
	case ']':
		s.tok = _Rbrack
		s.lit = "]"
	case ',':
		s.tok = _Comma
		s.lit = ","
	case ':':
		s.tok = _Colon
		s.lit = ":"
	case ';':
		s.tok = _Semi
		s.lit = ";"
	}
}

// TokenInfo is one element of a fully scanned token stream.
// It is the display artifact behind -emit-tokens.
type TokenInfo struct {
	Tok Token
	Lit string
	Pos Pos
}

// String renders the token the way the token display expects it.
func (t TokenInfo) String() string {
	switch t.Tok {
	case _Name, _Number:
		return fmt.Sprintf("%s(%s)", t.Tok, t.Lit)
	case _String:
		return fmt.Sprintf("STRING(%q)", t.Lit)
	case _Newline:
		return "NEWLINE"
	}
	return fmt.Sprintf("%s", t.Tok)
}

// Tokenize scans the entire source and returns the token stream,
// excluding the final EOF token.
func Tokenize(src io.Reader, errh func(pos Pos, msg string)) []TokenInfo {
	s := NewScanner(src, errh)
	var toks []TokenInfo
	for {
		s.Next()
		if s.Token().IsEOF() {
			return toks
		}
		toks = append(toks, TokenInfo{Tok: s.Token(), Lit: s.Literal(), Pos: s.Pos()})
	}
}
