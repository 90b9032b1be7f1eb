// Package passes implements the TAC optimization passes and their
// fixed-point driver.
package passes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/calc-lang/calcscript/internal/tac"
)

// maxRounds caps the number of full pass sequences. The driver
// normally stops earlier, at the fixed point.
const maxRounds = 10

// Pass is a named transformation over an instruction sequence.
// Passes are pure: they never mutate their input slice.
type Pass struct {
	Name string
	Fn   func(in []tac.Instruction, log *Log) []tac.Instruction
}

// Default is the standard pass order.
var Default = []Pass{
	{Name: "constant folding", Fn: Fold},
	{Name: "constant propagation", Fn: Propagate},
	{Name: "algebraic simplification", Fn: Simplify},
	{Name: "dead code elimination", Fn: Deadcode},
}

// Log records human-readable descriptions of applied rewrites.
type Log struct {
	Applied []string
}

func (l *Log) logf(entry string) {
	if l != nil {
		l.Applied = append(l.Applied, entry)
	}
}

// Optimize runs the default passes to a fixed point: the sequence is
// re-optimized until one full round leaves it unchanged instruction
// for instruction, so re-running Optimize on its own output is a
// no-op. Returns the optimized sequence and the applied rewrites.
func Optimize(instrs []tac.Instruction) ([]tac.Instruction, []string) {
	log := &Log{}
	cur := append([]tac.Instruction(nil), instrs...)

	for round := 0; round < maxRounds; round++ {
		prev := cur
		for _, p := range Default {
			cur = p.Fn(cur, log)
		}
		if sequenceEqual(prev, cur) {
			break
		}
	}
	return cur, log.Applied
}

// sequenceEqual reports whether a and b are element-wise identical.
func sequenceEqual(a, b []tac.Instruction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// tempName matches synthetic temporaries and nothing else. A user
// variable like "total" must never be treated as a temporary.
var tempName = regexp.MustCompile(`^t[0-9]+$`)

// isTemp reports whether name is a synthetic temporary.
func isTemp(name string) bool {
	return tempName.MatchString(name)
}

// isConstant reports whether operand is a literal constant: a boolean,
// a quoted string, or a number.
func isConstant(operand string) bool {
	if operand == "" {
		return false
	}
	if operand == "true" || operand == "false" {
		return true
	}
	if strings.HasPrefix(operand, `"`) && strings.HasSuffix(operand, `"`) {
		return true
	}
	_, err := strconv.ParseFloat(operand, 64)
	return err == nil
}

// numericConstant parses operand as a number, reporting whether the
// literal text is integral.
func numericConstant(operand string) (val float64, isInt, ok bool) {
	if operand == "true" || operand == "false" || strings.HasPrefix(operand, `"`) {
		return 0, false, false
	}
	val, err := strconv.ParseFloat(operand, 64)
	if err != nil {
		return 0, false, false
	}
	return val, !strings.ContainsAny(operand, ".eE"), true
}

// formatNumber renders a folded result the way the interpreter would
// print it: integer results without a fraction, float results with at
// least one fractional digit.
func formatNumber(val float64, isInt bool) string {
	if isInt && val == float64(int64(val)) {
		return strconv.FormatInt(int64(val), 10)
	}
	if val == float64(int64(val)) {
		return strconv.FormatInt(int64(val), 10) + ".0"
	}
	return strconv.FormatFloat(val, 'g', -1, 64)
}

// formatBool renders a folded comparison result.
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
