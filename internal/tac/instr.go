// Package tac defines the three-address code instruction model and the
// AST lowering that produces it.
package tac

import "fmt"

// Op identifies a TAC operation.
type Op uint8

const (
	OpAssign Op = iota

	// Binary operators
	OpAdd // +
	OpSub // - (unary negation when B is empty)
	OpMul // *
	OpDiv // /
	OpRem // %
	OpPow // ^ (also transpose M ^ "t" and inverse M ^ -1)
	OpGtr // >
	OpLss // <
	OpGeq // >=
	OpLeq // <=
	OpEql // ==
	OpNeq // !=
	OpAnd // and
	OpOr  // or

	// Unary operator
	OpNot // not

	// Control flow
	OpLabel
	OpGoto
	OpIfFalse
	OpIfTrue

	// Functions
	OpParam
	OpCall
	OpReturn

	// I/O
	OpPrint
	OpInput

	// Arrays
	OpArrayLiteral
	OpArrayLoad
	OpArrayStore

	opCount
)

// opInfo describes the textual form and shape of an operation.
type opInfo struct {
	text   string // operator spelling or mnemonic
	binary bool   // true for infix A op B forms
}

var opInfoTable = [...]opInfo{
	OpAssign: {text: "assign"},

	OpAdd: {text: "+", binary: true},
	OpSub: {text: "-", binary: true},
	OpMul: {text: "*", binary: true},
	OpDiv: {text: "/", binary: true},
	OpRem: {text: "%", binary: true},
	OpPow: {text: "^", binary: true},
	OpGtr: {text: ">", binary: true},
	OpLss: {text: "<", binary: true},
	OpGeq: {text: ">=", binary: true},
	OpLeq: {text: "<=", binary: true},
	OpEql: {text: "==", binary: true},
	OpNeq: {text: "!=", binary: true},
	OpAnd: {text: "and", binary: true},
	OpOr:  {text: "or", binary: true},

	OpNot: {text: "not"},

	OpLabel:   {text: "label"},
	OpGoto:    {text: "goto"},
	OpIfFalse: {text: "if_false"},
	OpIfTrue:  {text: "if_true"},

	OpParam:  {text: "param"},
	OpCall:   {text: "call"},
	OpReturn: {text: "return"},

	OpPrint: {text: "print"},
	OpInput: {text: "input"},

	OpArrayLiteral: {text: "array_literal"},
	OpArrayLoad:    {text: "array_load"},
	OpArrayStore:   {text: "array_store"},
}

// Text returns the operator spelling or mnemonic of the operation.
func (op Op) Text() string {
	if op < opCount {
		return opInfoTable[op].text
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// IsBinary reports whether op renders as an infix A op B computation.
// Unary negation shares OpSub and is distinguished by an empty B.
func (op Op) IsBinary() bool {
	return op < opCount && opInfoTable[op].binary
}

// IsJump reports whether op transfers control via its label operand.
func (op Op) IsJump() bool {
	return op == OpGoto || op == OpIfFalse || op == OpIfTrue
}

// Instruction is one three-address code instruction.
// A and B are source operands (literal text, variable/temporary names,
// or for array_literal a comma-joined element list); Dst is the
// destination name or jump target label.
type Instruction struct {
	Op  Op
	A   string
	B   string
	Dst string
}

// String renders the instruction in its canonical one-line text form.
// External tooling displays this form but never re-parses it.
func (in Instruction) String() string {
	switch in.Op {
	case OpLabel:
		return in.Dst + ":"
	case OpGoto:
		return "goto " + in.Dst
	case OpIfFalse:
		return "if_false " + in.A + " goto " + in.Dst
	case OpIfTrue:
		return "if_true " + in.A + " goto " + in.Dst
	case OpParam:
		return "param " + in.A
	case OpCall:
		if in.Dst != "" {
			return fmt.Sprintf("%s = call %s, %s", in.Dst, in.A, in.B)
		}
		return fmt.Sprintf("call %s, %s", in.A, in.B)
	case OpReturn:
		return "return " + in.A
	case OpPrint:
		return "print " + in.A
	case OpInput:
		return "input " + in.Dst
	case OpArrayStore:
		return fmt.Sprintf("%s[%s] = %s", in.Dst, in.A, in.B)
	case OpArrayLoad:
		return fmt.Sprintf("%s = %s[%s]", in.Dst, in.A, in.B)
	case OpArrayLiteral:
		return fmt.Sprintf("%s = [%s]", in.Dst, in.A)
	case OpAssign:
		return in.Dst + " = " + in.A
	}
	if in.B != "" {
		return fmt.Sprintf("%s = %s %s %s", in.Dst, in.A, in.Op.Text(), in.B)
	}
	return fmt.Sprintf("%s = %s %s", in.Dst, in.Op.Text(), in.A)
}

// FuncInfo records the call metadata of one user-defined function.
type FuncInfo struct {
	Label  string   // entry label, func_<name>
	Params []string // parameter names in declaration order
}

// Program is the lowering result: the flat instruction stream plus
// per-function metadata consumed by the interpreter's call dispatch.
type Program struct {
	Instrs []Instruction
	Funcs  map[string]FuncInfo
}
