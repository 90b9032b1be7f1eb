package passes

import (
	"strings"
	"testing"

	"github.com/calc-lang/calcscript/internal/tac"
)

// ins is shorthand for building test instruction sequences.
func ins(op tac.Op, a, b, dst string) tac.Instruction {
	return tac.Instruction{Op: op, A: a, B: b, Dst: dst}
}

func render(instrs []tac.Instruction) string {
	parts := make([]string, len(instrs))
	for i, in := range instrs {
		parts[i] = in.String()
	}
	return strings.Join(parts, "\n")
}

func TestFoldArithmetic(t *testing.T) {
	tests := []struct {
		in   tac.Instruction
		want string
	}{
		{ins(tac.OpAdd, "2", "3", "t1"), "t1 = 5"},
		{ins(tac.OpSub, "2", "5", "t1"), "t1 = -3"},
		{ins(tac.OpMul, "4", "5", "t1"), "t1 = 20"},
		{ins(tac.OpDiv, "7", "2", "t1"), "t1 = 3.5"},
		{ins(tac.OpDiv, "6", "2", "t1"), "t1 = 3.0"}, // division is always float
		{ins(tac.OpRem, "7", "3", "t1"), "t1 = 1"},
		{ins(tac.OpRem, "-7", "3", "t1"), "t1 = 2"}, // floored modulo
		{ins(tac.OpPow, "2", "10", "t1"), "t1 = 1024"},
		{ins(tac.OpAdd, "1.5", "2", "t1"), "t1 = 3.5"},
		{ins(tac.OpAdd, "1.5", "0.5", "t1"), "t1 = 2.0"}, // float stays visibly float
	}

	for _, test := range tests {
		out := Fold([]tac.Instruction{test.in}, nil)
		if len(out) != 1 || out[0].String() != test.want {
			t.Errorf("fold %q = %q, want %q", test.in, render(out), test.want)
		}
	}
}

func TestFoldComparisons(t *testing.T) {
	tests := []struct {
		in   tac.Instruction
		want string
	}{
		{ins(tac.OpLss, "2", "3", "t1"), "t1 = true"},
		{ins(tac.OpGeq, "2", "3", "t1"), "t1 = false"},
		{ins(tac.OpEql, "2", "2", "t1"), "t1 = true"},
		{ins(tac.OpNeq, "2", "2", "t1"), "t1 = false"},
	}

	for _, test := range tests {
		out := Fold([]tac.Instruction{test.in}, nil)
		if out[0].String() != test.want {
			t.Errorf("fold %q = %q, want %q", test.in, out[0], test.want)
		}
	}
}

func TestFoldLeavesRuntimeCases(t *testing.T) {
	keep := []tac.Instruction{
		ins(tac.OpDiv, "1", "0", "t1"),    // runtime error
		ins(tac.OpRem, "1", "0", "t1"),    // runtime error
		ins(tac.OpPow, "2", "-1", "t1"),   // negative exponent
		ins(tac.OpPow, "2", "0.5", "t1"),  // fractional exponent
		ins(tac.OpAdd, "x", "3", "t1"),    // non-constant operand
		ins(tac.OpAdd, `"a"`, `"b"`, "t1"), // strings are not folded
	}

	for _, in := range keep {
		out := Fold([]tac.Instruction{in}, nil)
		if len(out) != 1 || out[0] != in {
			t.Errorf("fold should leave %q untouched, got %q", in, render(out))
		}
	}
}

func TestPropagate(t *testing.T) {
	in := []tac.Instruction{
		ins(tac.OpAssign, "5", "", "t1"),
		ins(tac.OpAdd, "t1", "3", "t2"),
	}
	out := Propagate(in, nil)
	if out[1].A != "5" {
		t.Errorf("t1 should propagate into the add, got %q", out[1])
	}
}

func TestPropagateOnlyTemps(t *testing.T) {
	in := []tac.Instruction{
		ins(tac.OpAssign, "5", "", "x"),
		ins(tac.OpAdd, "x", "3", "t1"),
	}
	out := Propagate(in, nil)
	if out[1].A != "x" {
		t.Errorf("user variables must not propagate, got %q", out[1])
	}
}

func TestPropagateResetsAtLabels(t *testing.T) {
	in := []tac.Instruction{
		ins(tac.OpAssign, "5", "", "t1"),
		ins(tac.OpLabel, "", "", "L1"),
		ins(tac.OpAdd, "t1", "3", "t2"),
	}
	out := Propagate(in, nil)
	if out[2].A != "t1" {
		t.Errorf("tracking must reset at labels, got %q", out[2])
	}
}

func TestPropagateSkipsCallOperands(t *testing.T) {
	in := []tac.Instruction{
		ins(tac.OpAssign, "2", "", "t1"),
		ins(tac.OpCall, "sqrt", "1", "t2"),
	}
	out := Propagate(in, nil)
	if out[1].A != "sqrt" || out[1].B != "1" {
		t.Errorf("call name and arity must not be rewritten, got %q", out[1])
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		in   tac.Instruction
		want string
	}{
		{ins(tac.OpAdd, "x", "0", "t1"), "t1 = x"},
		{ins(tac.OpAdd, "0", "x", "t1"), "t1 = x"},
		{ins(tac.OpSub, "x", "0", "t1"), "t1 = x"},
		{ins(tac.OpMul, "x", "1", "t1"), "t1 = x"},
		{ins(tac.OpMul, "1", "x", "t1"), "t1 = x"},
		{ins(tac.OpMul, "x", "0", "t1"), "t1 = 0"},
		{ins(tac.OpDiv, "x", "1", "t1"), "t1 = x"},
	}

	for _, test := range tests {
		out := Simplify([]tac.Instruction{test.in}, nil)
		if out[0].String() != test.want {
			t.Errorf("simplify %q = %q, want %q", test.in, out[0], test.want)
		}
	}

	// x - 0 simplifies but 0 - x does not.
	in := ins(tac.OpSub, "0", "x", "t1")
	out := Simplify([]tac.Instruction{in}, nil)
	if out[0] != in {
		t.Errorf("0 - x must not simplify, got %q", out[0])
	}
}

func TestDeadcodeRemovesUnusedTemps(t *testing.T) {
	in := []tac.Instruction{
		ins(tac.OpAssign, "5", "", "t1"),
		ins(tac.OpAssign, "6", "", "t2"),
		ins(tac.OpPrint, "t2", "", ""),
	}
	out := Deadcode(in, nil)
	if len(out) != 2 {
		t.Fatalf("got %d instructions, want 2:\n%s", len(out), render(out))
	}
	if out[0].Dst != "t2" {
		t.Errorf("t1 should be removed, kept %q", out[0])
	}
}

func TestDeadcodeKeepsUserVars(t *testing.T) {
	in := []tac.Instruction{
		ins(tac.OpAssign, "5", "", "total"),
	}
	out := Deadcode(in, nil)
	if len(out) != 1 {
		t.Error("assignments to user variables must never be removed")
	}
}

func TestDeadcodeArrayLiteralElements(t *testing.T) {
	// Temporaries referenced only inside an array literal's element
	// list still count as used.
	in := []tac.Instruction{
		ins(tac.OpAssign, "5", "", "t1"),
		ins(tac.OpArrayLiteral, "t1, 2", "", "t2"),
		ins(tac.OpPrint, "t2", "", ""),
	}
	out := Deadcode(in, nil)
	if len(out) != 3 {
		t.Errorf("array literal elements must count as uses:\n%s", render(out))
	}
}

func TestDeadcodeUnreachable(t *testing.T) {
	in := []tac.Instruction{
		ins(tac.OpGoto, "", "", "L1"),
		ins(tac.OpPrint, "1", "", ""),
		ins(tac.OpLabel, "", "", "L1"),
		ins(tac.OpPrint, "2", "", ""),
	}
	out := Deadcode(in, nil)
	if len(out) != 3 {
		t.Fatalf("unreachable print should go:\n%s", render(out))
	}
	if out[1].Op != tac.OpLabel {
		t.Errorf("label must survive unreachable pruning, got %q", out[1])
	}
}

func TestOptimizeFixedPoint(t *testing.T) {
	in := []tac.Instruction{
		ins(tac.OpAdd, "2", "3", "t1"),
		ins(tac.OpAdd, "t1", "0", "t2"),
		ins(tac.OpPrint, "t2", "", ""),
	}
	out, applied := Optimize(in)

	// 2+3 folds to 5, propagates through t1, t2 simplifies to the
	// constant, and the now-dead temporaries disappear.
	if len(applied) == 0 {
		t.Error("expected applied rewrites to be logged")
	}
	again, _ := Optimize(out)
	if !sequenceEqual(out, again) {
		t.Errorf("optimizing optimized output must be a no-op:\n%s\nvs\n%s", render(out), render(again))
	}
	last := out[len(out)-1]
	if last.Op != tac.OpPrint || last.A != "5" {
		t.Errorf("print should end up with the folded constant:\n%s", render(out))
	}
}

func TestIsTemp(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"t1", true},
		{"t42", true},
		{"total", false},
		{"t", false},
		{"t1x", false},
		{"x", false},
	}
	for _, test := range tests {
		if got := isTemp(test.name); got != test.want {
			t.Errorf("isTemp(%q) = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestOptimizeLogStrings(t *testing.T) {
	in := []tac.Instruction{
		ins(tac.OpAdd, "2", "3", "t1"),
		ins(tac.OpPrint, "t1", "", ""),
	}
	_, applied := Optimize(in)

	wantPrefixes := []string{"Constant folding:", "Constant propagation:"}
	for _, prefix := range wantPrefixes {
		found := false
		for _, entry := range applied {
			if strings.HasPrefix(entry, prefix) {
				found = true
			}
		}
		if !found {
			t.Errorf("no %q entry in %v", prefix, applied)
		}
	}
}
