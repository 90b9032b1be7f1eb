// Package syntax implements lexical and syntactic analysis for CalcScript+.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF     Token = iota // end of file
	_Newline              // statement separator

	// Literals
	_Name   // identifier: total, matrix_det
	_Number // 42, 3.14
	_String // "hello" (literal holds decoded content)

	// Operators (ordered by precedence, low to high)
	// Assignment
	_Assign // =

	// Logical operators
	_Or  // or
	_And // and

	// Comparison operators
	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	// Arithmetic operators (additive)
	_Add // +
	_Sub // -

	// Arithmetic operators (multiplicative)
	_Mul // *
	_Div // /
	_Rem // %

	// Exponentiation (also carries transpose M^t and inverse M^-1)
	_Pow // ^

	// Unary operator
	_Not // not

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Comma  // ,
	_Colon  // :
	_Semi   // ;

	// Type keywords
	_Int
	_Long
	_Float
	_StringKw
	_Boolean
	_Array
	_Matrix
	_Void

	// Keywords
	_Break
	_Continue
	_Else
	_End
	_False
	_For
	_Function
	_If
	_Input
	_Print
	_Repeat
	_Return
	_Times
	_True
	_While

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:     "EOF",
	_Newline: "NEWLINE",

	_Name:   "NAME",
	_Number: "NUMBER",
	_String: "STRING",

	_Assign: "=",

	_Or:  "or",
	_And: "and",

	_Eql: "==",
	_Neq: "!=",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",

	_Add: "+",
	_Sub: "-",

	_Mul: "*",
	_Div: "/",
	_Rem: "%",

	_Pow: "^",

	_Not: "not",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Comma:  ",",
	_Colon:  ":",
	_Semi:   ";",

	_Int:      "int",
	_Long:     "long",
	_Float:    "float",
	_StringKw: "string",
	_Boolean:  "boolean",
	_Array:    "array",
	_Matrix:   "matrix",
	_Void:     "void",

	_Break:    "break",
	_Continue: "continue",
	_Else:     "else",
	_End:      "end",
	_False:    "false",
	_For:      "for",
	_Function: "function",
	_If:       "if",
	_Input:    "input",
	_Print:    "print",
	_Repeat:   "repeat",
	_Return:   "return",
	_Times:    "times",
	_True:     "true",
	_While:    "while",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", uint(t))
}

// Precedence returns the operator precedence for binary operators.
// Returns 0 for non-operators.
// Precedence levels (higher = binds tighter):
//
//	1: or
//	2: and
//	3: == !=
//	4: < <= > >=
//	5: + -
//	6: * / %
//	7: ^ (right-associative)
func (t Token) Precedence() int {
	switch t {
	case _Or:
		return 1
	case _And:
		return 2
	case _Eql, _Neq:
		return 3
	case _Lss, _Leq, _Gtr, _Geq:
		return 4
	case _Add, _Sub:
		return 5
	case _Mul, _Div, _Rem:
		return 6
	case _Pow:
		return 7
	}
	return 0
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Int && t <= _While
}

// IsType reports whether t is a type keyword usable in a declaration.
// void is excluded: it is only valid as a function return type.
func (t Token) IsType() bool {
	return t >= _Int && t <= _Matrix
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Not
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// keywords maps keyword strings to their token type.
var keywords = map[string]Token{
	"int":      _Int,
	"long":     _Long,
	"float":    _Float,
	"string":   _StringKw,
	"boolean":  _Boolean,
	"array":    _Array,
	"matrix":   _Matrix,
	"void":     _Void,
	"and":      _And,
	"break":    _Break,
	"continue": _Continue,
	"else":     _Else,
	"end":      _End,
	"false":    _False,
	"for":      _For,
	"function": _Function,
	"if":       _If,
	"input":    _Input,
	"not":      _Not,
	"or":       _Or,
	"print":    _Print,
	"repeat":   _Repeat,
	"return":   _Return,
	"times":    _Times,
	"true":     _True,
	"while":    _While,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

// Keywords returns the spellings of all keywords.
// Used by diagnostic tooling for suggestion matching.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	return words
}
