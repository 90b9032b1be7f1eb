package pipeline

import (
	"strings"
	"testing"
)

func compile(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	res, err := Compile(strings.NewReader(src), opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return res
}

func TestCompileAndExecute(t *testing.T) {
	res := compile(t, "print 1 + 2", Options{Optimize: true})
	if res.Err() {
		t.Fatalf("unexpected errors: %v", res.Diags.All())
	}
	if res.Code == nil || res.Optimized == nil {
		t.Fatal("missing compilation artifacts")
	}

	out, err := Execute(res, strings.NewReader(""), discard{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(out) != 1 || out[0] != "3" {
		t.Errorf("output = %v, want [3]", out)
	}
}

// discard is a no-op writer so tests do not touch stdout.
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestLexicalErrorStopsPipeline(t *testing.T) {
	res := compile(t, "x = @", Options{})
	if !res.Err() {
		t.Fatal("expected errors")
	}
	errs := res.Diags.Errors()
	if errs[0].Phase != PhaseLexical {
		t.Errorf("phase = %s, want %s", errs[0].Phase, PhaseLexical)
	}
	if res.Prog != nil || res.Code != nil {
		t.Error("later phases should not run after lexical errors")
	}
}

func TestSyntaxErrorStopsPipeline(t *testing.T) {
	res := compile(t, "if x > 0\nprint 1\nend", Options{})
	if !res.Err() {
		t.Fatal("expected errors")
	}
	found := false
	for _, d := range res.Diags.Errors() {
		if d.Phase == PhaseSyntax {
			found = true
		}
	}
	if !found {
		t.Errorf("no syntax-phase error in %v", res.Diags.Errors())
	}
	if res.Code != nil {
		t.Error("code generation should not run after syntax errors")
	}
}

func TestSemanticErrorStopsPipeline(t *testing.T) {
	res := compile(t, "print undeclared_var", Options{})
	if !res.Err() {
		t.Fatal("expected errors")
	}
	errs := res.Diags.Errors()
	if errs[0].Phase != PhaseSemantic {
		t.Errorf("phase = %s, want %s", errs[0].Phase, PhaseSemantic)
	}
	if res.Code != nil {
		t.Error("code generation should not run after semantic errors")
	}
}

func TestBuiltinsAreSeeded(t *testing.T) {
	res := compile(t, "print sqrt(16)", Options{})
	if res.Err() {
		t.Fatalf("builtin call should analyze cleanly: %v", res.Diags.Errors())
	}

	out, err := Execute(res, strings.NewReader(""), discard{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(out) != 1 || out[0] != "4.0" {
		t.Errorf("output = %v, want [4.0]", out)
	}
}

func TestOptimizeDisabled(t *testing.T) {
	res := compile(t, "print 1 + 2", Options{Optimize: false})
	if res.Optimized != nil {
		t.Error("optimizer should not have run")
	}
	if res.Final() != res.Code {
		t.Error("Final should fall back to unoptimized code")
	}
}

func TestOptimizerPreservesBehavior(t *testing.T) {
	src := `int total = 0
for int i = 1; i <= 10; i = i + 1:
	total = total + i
end
print total * 1 + 0`

	plain := compile(t, src, Options{Optimize: false})
	opt := compile(t, src, Options{Optimize: true})

	po, err := Execute(plain, strings.NewReader(""), discard{})
	if err != nil {
		t.Fatalf("execute plain: %v", err)
	}
	oo, err := Execute(opt, strings.NewReader(""), discard{})
	if err != nil {
		t.Fatalf("execute optimized: %v", err)
	}

	if len(po) != len(oo) {
		t.Fatalf("line counts differ: %v vs %v", po, oo)
	}
	for i := range po {
		if po[i] != oo[i] {
			t.Errorf("line %d: %q vs %q", i, po[i], oo[i])
		}
	}
}

func TestOptimizerShrinksConstantCode(t *testing.T) {
	res := compile(t, "int x = 2 + 3\nprint x", Options{Optimize: true})
	if len(res.Optimized) >= len(res.Code.Instrs) {
		t.Error("folding should shrink constant arithmetic")
	}
	if len(res.Applied) == 0 {
		t.Error("applied rewrites should be logged")
	}
}

func TestExecuteReadsInput(t *testing.T) {
	res := compile(t, "input n\nprint n + 1", Options{Optimize: true})
	out, err := Execute(res, strings.NewReader("41\n"), discard{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(out) != 1 || out[0] != "42" {
		t.Errorf("output = %v, want [42]", out)
	}
}

func TestTokensAlwaysAvailable(t *testing.T) {
	res := compile(t, "print 1", Options{})
	if len(res.Tokens) == 0 {
		t.Error("token stream should be captured")
	}
}
