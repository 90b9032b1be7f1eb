package passes

import (
	"strings"

	"github.com/calc-lang/calcscript/internal/tac"
)

// Deadcode removes assignments to temporaries that are never read and
// prunes instructions made unreachable by an unconditional goto or
// return. Assignments to user variables are never removed.
func Deadcode(in []tac.Instruction, log *Log) []tac.Instruction {
	used := usedOperands(in)

	kept := make([]tac.Instruction, 0, len(in))
	for _, instr := range in {
		if instr.Op == tac.OpAssign && isTemp(instr.Dst) && !used[instr.Dst] {
			log.logf("Dead code: removed " + instr.String())
			continue
		}
		kept = append(kept, instr)
	}

	// Unreachable pruning: drop everything between an unconditional
	// jump and the next label.
	out := make([]tac.Instruction, 0, len(kept))
	skipping := false
	for _, instr := range kept {
		if skipping {
			if instr.Op != tac.OpLabel {
				log.logf("Unreachable code: removed " + instr.String())
				continue
			}
			skipping = false
		}
		out = append(out, instr)
		if instr.Op == tac.OpGoto || instr.Op == tac.OpReturn {
			skipping = true
		}
	}
	return out
}

// usedOperands collects every name read by any instruction, in any
// operand position. array_literal carries a joined element list in A
// and contributes each element.
func usedOperands(in []tac.Instruction) map[string]bool {
	used := make(map[string]bool)
	add := func(operand string) {
		if operand != "" && !isConstant(operand) {
			used[operand] = true
		}
	}

	for _, instr := range in {
		switch instr.Op {
		case tac.OpArrayLiteral:
			for _, el := range strings.Split(instr.A, ", ") {
				add(el)
			}
		case tac.OpCall:
			// A is a function name, B an argument count.
		default:
			add(instr.A)
			add(instr.B)
		}
	}
	return used
}
