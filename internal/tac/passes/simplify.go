package passes

import "github.com/calc-lang/calcscript/internal/tac"

// Simplify applies algebraic identities: x+0, 0+x, x-0, x*0, 0*x,
// x*1, 1*x, and x/1. Matching is textual against the literal "0" and
// "1", the forms the lowering emits.
func Simplify(in []tac.Instruction, log *Log) []tac.Instruction {
	out := make([]tac.Instruction, 0, len(in))

	for _, instr := range in {
		if instr.B == "" {
			out = append(out, instr)
			continue
		}

		simplified := ""
		switch instr.Op {
		case tac.OpAdd:
			switch {
			case instr.A == "0":
				simplified = instr.B
				log.logf("Algebraic: 0 + x = x")
			case instr.B == "0":
				simplified = instr.A
				log.logf("Algebraic: x + 0 = x")
			}

		case tac.OpSub:
			if instr.B == "0" {
				simplified = instr.A
				log.logf("Algebraic: x - 0 = x")
			}

		case tac.OpMul:
			switch {
			case instr.A == "0" || instr.B == "0":
				simplified = "0"
				log.logf("Algebraic: x * 0 = 0")
			case instr.A == "1":
				simplified = instr.B
				log.logf("Algebraic: 1 * x = x")
			case instr.B == "1":
				simplified = instr.A
				log.logf("Algebraic: x * 1 = x")
			}

		case tac.OpDiv:
			if instr.B == "1" {
				simplified = instr.A
				log.logf("Algebraic: x / 1 = x")
			}
		}

		if simplified != "" {
			out = append(out, tac.Instruction{Op: tac.OpAssign, A: simplified, Dst: instr.Dst})
			continue
		}
		out = append(out, instr)
	}
	return out
}
