package passes

import "github.com/calc-lang/calcscript/internal/tac"

// maxFoldExponent bounds the exponents folded at compile time.
const maxFoldExponent = 64

// Fold evaluates constant expressions at compile time, rewriting each
// foldable computation into a plain assignment of its result.
// Non-foldable cases (division or modulo by a literal zero, negative
// or fractional exponents) are left untouched for the interpreter.
func Fold(in []tac.Instruction, log *Log) []tac.Instruction {
	out := make([]tac.Instruction, 0, len(in))

	for _, instr := range in {
		folded, ok := foldInstr(instr)
		if !ok {
			out = append(out, instr)
			continue
		}
		out = append(out, folded)
		log.logf("Constant folding: " + instr.String() + " -> " + folded.String())
	}
	return out
}

// foldInstr attempts to fold one instruction.
func foldInstr(instr tac.Instruction) (tac.Instruction, bool) {
	if !instr.Op.IsBinary() || instr.B == "" {
		return instr, false
	}

	a, aInt, ok := numericConstant(instr.A)
	if !ok {
		return instr, false
	}
	b, bInt, ok := numericConstant(instr.B)
	if !ok {
		return instr, false
	}
	bothInt := aInt && bInt

	assign := func(text string) (tac.Instruction, bool) {
		return tac.Instruction{Op: tac.OpAssign, A: text, Dst: instr.Dst}, true
	}

	switch instr.Op {
	case tac.OpAdd:
		return assign(formatNumber(a+b, bothInt))
	case tac.OpSub:
		return assign(formatNumber(a-b, bothInt))
	case tac.OpMul:
		return assign(formatNumber(a*b, bothInt))

	case tac.OpDiv:
		if b == 0 {
			return instr, false // runtime reports the error
		}
		return assign(formatNumber(a/b, false)) // division is always float

	case tac.OpRem:
		if !bothInt || b == 0 {
			return instr, false
		}
		// Floored modulo: the result takes the sign of the divisor.
		r := int64(a) % int64(b)
		if r != 0 && (r < 0) != (int64(b) < 0) {
			r += int64(b)
		}
		return assign(formatNumber(float64(r), true))

	case tac.OpPow:
		if !bInt || b < 0 || b > maxFoldExponent {
			return instr, false
		}
		result := 1.0
		for i := int64(0); i < int64(b); i++ {
			result *= a
		}
		return assign(formatNumber(result, bothInt))

	case tac.OpGtr:
		return assign(formatBool(a > b))
	case tac.OpLss:
		return assign(formatBool(a < b))
	case tac.OpGeq:
		return assign(formatBool(a >= b))
	case tac.OpLeq:
		return assign(formatBool(a <= b))
	case tac.OpEql:
		return assign(formatBool(a == b))
	case tac.OpNeq:
		return assign(formatBool(a != b))
	}
	return instr, false
}
