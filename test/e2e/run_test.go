package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calc-lang/calcscript/internal/pipeline"
)

// TestE2E runs end-to-end tests for all .calc files in testdata/.
// Each test:
//  1. Runs the full pipeline: scan → parse → analyze → generate → optimize
//  2. Executes the optimized code on the interpreter
//  3. Compares the printed output against the .golden file
//
// A testdata/<name>.in file, when present, is fed to input statements.
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.calc")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .calc test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".calc")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

// runE2ETest runs a single end-to-end test, once with the optimizer
// and once without. Both runs must match the golden output.
func runE2ETest(t *testing.T, calcFile string) {
	t.Helper()

	goldenFile := strings.TrimSuffix(calcFile, ".calc") + ".golden"
	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	input := ""
	if data, err := os.ReadFile(strings.TrimSuffix(calcFile, ".calc") + ".in"); err == nil {
		input = string(data)
	}

	want := string(expected)
	for _, optimize := range []bool{true, false} {
		got := execute(t, calcFile, input, optimize)
		if got != want {
			t.Errorf("optimize=%v output mismatch:\ngot:  %q\nwant: %q", optimize, got, want)
		}
	}
}

// execute compiles and runs one source file, returning its printed
// output with one trailing newline per line.
func execute(t *testing.T, calcFile, input string, optimize bool) string {
	t.Helper()

	f, err := os.Open(calcFile)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	res, err := pipeline.Compile(f, pipeline.Options{Optimize: optimize})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.Err() {
		var b strings.Builder
		res.Diags.Report(&b)
		t.Fatalf("compile errors:\n%s", b.String())
	}

	var out strings.Builder
	if _, err := pipeline.Execute(res, strings.NewReader(input), &out); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return out.String()
}
