package passes

import "github.com/calc-lang/calcscript/internal/tac"

// Propagate replaces reads of temporaries known to hold a constant
// with the constant itself. Only temporaries are tracked: user
// variables may be reassigned across control flow the pass cannot see.
// The tracking map resets at every label, the start of a new basic
// block.
func Propagate(in []tac.Instruction, log *Log) []tac.Instruction {
	constants := make(map[string]string)
	out := make([]tac.Instruction, 0, len(in))

	for _, instr := range in {
		if instr.Op == tac.OpAssign && isConstant(instr.A) && isTemp(instr.Dst) {
			constants[instr.Dst] = instr.A
			out = append(out, instr)
			continue
		}

		if instr.Op == tac.OpLabel {
			clear(constants)
			out = append(out, instr)
			continue
		}

		// Instruction values are copied on append, so rewriting the
		// local is safe.
		if c, ok := constants[instr.A]; ok && readsA(instr.Op) {
			log.logf("Constant propagation: " + instr.A + " -> " + c)
			instr.A = c
		}
		if c, ok := constants[instr.B]; ok && readsB(instr.Op) {
			log.logf("Constant propagation: " + instr.B + " -> " + c)
			instr.B = c
		}

		// A reassigned destination no longer holds its old constant.
		if instr.Dst != "" {
			delete(constants, instr.Dst)
		}

		out = append(out, instr)
	}
	return out
}

// readsA reports whether op reads its A operand as a value.
// call reads A as a function name and array_load as an array name;
// array_literal's A is a joined element list.
func readsA(op tac.Op) bool {
	switch op {
	case tac.OpCall, tac.OpArrayLoad, tac.OpArrayLiteral, tac.OpLabel, tac.OpGoto, tac.OpInput:
		return false
	}
	return true
}

// readsB reports whether op reads its B operand as a value.
func readsB(op tac.Op) bool {
	switch op {
	case tac.OpCall: // B is the argument count
		return false
	}
	return true
}
