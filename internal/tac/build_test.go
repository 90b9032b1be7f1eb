package tac

import (
	"strings"
	"testing"

	"github.com/calc-lang/calcscript/internal/syntax"
)

func generate(t *testing.T, src string) *Program {
	t.Helper()
	p := syntax.NewParser(strings.NewReader(src), nil)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	code, err := Generate(prog)
	if err != nil {
		t.Fatalf("generate %q: %v", src, err)
	}
	return code
}

func instrStrings(code *Program) []string {
	out := make([]string, len(code.Instrs))
	for i, in := range code.Instrs {
		out[i] = in.String()
	}
	return out
}

func checkInstrs(t *testing.T, src string, want []string) {
	t.Helper()
	got := instrStrings(generate(t, src))
	if len(got) != len(want) {
		t.Fatalf("%q:\ngot %d instructions:\n  %s\nwant %d:\n  %s",
			src, len(got), strings.Join(got, "\n  "), len(want), strings.Join(want, "\n  "))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%q: instruction %d = %q, want %q", src, i, got[i], want[i])
		}
	}
}

func TestGenAssign(t *testing.T) {
	checkInstrs(t, "int x = 5", []string{"x = 5"})
	checkInstrs(t, "int x = 1\nx = 2", []string{"x = 1", "x = 2"})
}

func TestGenBinary(t *testing.T) {
	checkInstrs(t, "int x = 1\nint y = 2\nint z = x + y", []string{
		"x = 1",
		"y = 2",
		"t1 = x + y",
		"z = t1",
	})
}

func TestGenUnary(t *testing.T) {
	checkInstrs(t, "int x = 3\nint y = -x", []string{
		"x = 3",
		"t1 = - x",
		"y = t1",
	})
}

func TestGenDefaults(t *testing.T) {
	checkInstrs(t, "int i\nfloat f\nstring s\nboolean b\narray a", []string{
		"i = 0",
		"f = 0.0",
		`s = ""`,
		"b = false",
		"t1 = []",
		"a = t1",
	})
}

func TestGenString(t *testing.T) {
	checkInstrs(t, `print "hi"`, []string{`print "hi"`})
}

func TestGenIfElse(t *testing.T) {
	src := `int x = 1
if x > 0:
	print 1
else:
	print 2
end`
	checkInstrs(t, src, []string{
		"x = 1",
		"t1 = x > 0",
		"if_false t1 goto L1",
		"print 1",
		"goto L2",
		"L1:",
		"print 2",
		"L2:",
	})
}

func TestGenIfNoElse(t *testing.T) {
	src := `int x = 1
if x > 0:
	print 1
end`
	checkInstrs(t, src, []string{
		"x = 1",
		"t1 = x > 0",
		"if_false t1 goto L2",
		"print 1",
		"L2:",
	})
}

func TestGenWhile(t *testing.T) {
	src := `int x = 0
while x < 3:
	x = x + 1
end`
	checkInstrs(t, src, []string{
		"x = 0",
		"L1:",
		"t1 = x < 3",
		"if_false t1 goto L2",
		"t2 = x + 1",
		"x = t2",
		"goto L1",
		"L2:",
	})
}

func TestGenRepeat(t *testing.T) {
	src := `repeat 3 times:
	print 1
end`
	checkInstrs(t, src, []string{
		"t1 = 0",
		"L1:",
		"t2 = t1 < 3",
		"if_false t2 goto L2",
		"print 1",
		"t3 = 1",
		"t4 = t1 + t3",
		"t1 = t4",
		"goto L1",
		"L2:",
	})
}

func TestGenForRenamesLoopVar(t *testing.T) {
	src := `for int i = 0; i < 2; i = i + 1:
	print i
end`
	checkInstrs(t, src, []string{
		"i__scope1_1 = 0",
		"L1:",
		"t1 = i__scope1_1 < 2",
		"if_false t1 goto L3",
		"print i__scope1_1",
		"L2:",
		"t2 = i__scope1_1 + 1",
		"i__scope1_1 = t2",
		"goto L1",
		"L3:",
	})
}

func TestGenForDoesNotRenameOuter(t *testing.T) {
	src := `int total = 0
for int i = 0; i < 2; i = i + 1:
	total = total + i
end
print total`
	got := instrStrings(generate(t, src))
	joined := strings.Join(got, "\n")
	if strings.Contains(joined, "total__scope") {
		t.Errorf("outer variable should keep its surface name:\n%s", joined)
	}
	if !strings.Contains(joined, "i__scope1_1") {
		t.Errorf("loop variable should be renamed:\n%s", joined)
	}
}

func TestGenContinueTargetsUpdate(t *testing.T) {
	src := `for int i = 0; i < 5; i = i + 1:
	continue
end`
	got := instrStrings(generate(t, src))
	// Labels: L1 start, L2 update, L3 end. Continue must reach the
	// update so the loop variable still advances.
	found := false
	for _, s := range got {
		if s == "goto L2" {
			found = true
		}
	}
	if !found {
		t.Errorf("continue should jump to the update label:\n%s", strings.Join(got, "\n"))
	}
}

func TestGenBreak(t *testing.T) {
	src := `while true:
	break
end`
	checkInstrs(t, src, []string{
		"L1:",
		"if_false true goto L2",
		"goto L2",
		"goto L1",
		"L2:",
	})
}

func TestGenFuncDecl(t *testing.T) {
	src := `function int add(int a, int b):
	return a + b
end`
	code := generate(t, src)
	checkInstrs(t, src, []string{
		"goto L1",
		"func_add:",
		"t1 = a + b",
		"return t1",
		"return 0",
		"L1:",
	})

	fi, ok := code.Funcs["add"]
	if !ok {
		t.Fatal("add missing from function table")
	}
	if fi.Label != "func_add" {
		t.Errorf("label = %q, want func_add", fi.Label)
	}
	if len(fi.Params) != 2 || fi.Params[0] != "a" || fi.Params[1] != "b" {
		t.Errorf("params = %v, want [a b]", fi.Params)
	}
}

func TestGenCall(t *testing.T) {
	src := `function int add(int a, int b):
	return a + b
end
print add(2, 3)`
	got := instrStrings(generate(t, src))
	want := []string{"param 2", "param 3", "t2 = call add, 2", "print t2"}
	tail := got[len(got)-len(want):]
	for i := range want {
		if tail[i] != want[i] {
			t.Errorf("call tail %d = %q, want %q", i, tail[i], want[i])
		}
	}
}

func TestGenArrays(t *testing.T) {
	checkInstrs(t, "array a = [1, 2, 3]\nprint a[1]\na[0] = 9", []string{
		"t1 = [1, 2, 3]",
		"a = t1",
		"t2 = a[1]",
		"print t2",
		"a[0] = 9",
	})
}

func TestGenTranspose(t *testing.T) {
	checkInstrs(t, "matrix m = [[1, 2], [3, 4]]\nm = m ^ t", []string{
		"t1 = [1, 2]",
		"t2 = [3, 4]",
		"t3 = [t1, t2]",
		"m = t3",
		`t4 = m ^ "t"`,
		"m = t4",
	})
}

func TestGenPrintMultiArg(t *testing.T) {
	checkInstrs(t, `print 1, "two", 3`, []string{
		"print 1",
		`print "two"`,
		"print 3",
	})
}

func TestGenInput(t *testing.T) {
	checkInstrs(t, "input n\nprint n", []string{
		"input n",
		"print n",
	})
}

func TestScopeArena(t *testing.T) {
	var a scopeArena

	// Outside any frame, names keep their surface spelling.
	if got := a.declare("x"); got != "x" {
		t.Errorf("global declare = %q, want x", got)
	}

	a.push()
	inner := a.declare("x")
	if inner != "x__scope1_1" {
		t.Errorf("frame declare = %q, want x__scope1_1", inner)
	}
	if got := a.resolve("x"); got != inner {
		t.Errorf("resolve inside frame = %q, want %q", got, inner)
	}
	if got := a.resolve("y"); got != "y" {
		t.Errorf("undeclared name should resolve to itself, got %q", got)
	}
	a.pop()

	if got := a.resolve("x"); got != "x" {
		t.Errorf("resolve after pop = %q, want x", got)
	}
}
