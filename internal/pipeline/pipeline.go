// Package pipeline drives a source program through every phase:
// scanning, parsing, semantic analysis, code generation, optimization
// and execution.
package pipeline

import (
	"bytes"
	"io"

	"github.com/calc-lang/calcscript/internal/diag"
	"github.com/calc-lang/calcscript/internal/sema"
	"github.com/calc-lang/calcscript/internal/syntax"
	"github.com/calc-lang/calcscript/internal/tac"
	"github.com/calc-lang/calcscript/internal/tac/passes"
	"github.com/calc-lang/calcscript/internal/vm"
)

// Diagnostic phases, in pipeline order.
const (
	PhaseLexical  = "lexical"
	PhaseSyntax   = "syntax"
	PhaseSemantic = "semantic"
	PhaseCodegen  = "codegen"
)

// Options selects optional pipeline behavior.
type Options struct {
	// Optimize runs the optimizer over the generated code.
	Optimize bool
}

// Result carries the artifacts of every phase that ran. Later fields
// are zero when an earlier phase reported errors.
type Result struct {
	Tokens    []syntax.TokenInfo
	Prog      *syntax.Program
	Symbols   []*sema.Symbol
	Code      *tac.Program
	Optimized []tac.Instruction
	Applied   []string

	Diags *diag.Collector
}

// Err reports whether any phase collected errors.
func (r *Result) Err() bool {
	return r.Diags.HasErrors()
}

// Final returns the instructions to execute: the optimized sequence
// when the optimizer ran, the raw generated code otherwise.
func (r *Result) Final() *tac.Program {
	if r.Code == nil {
		return nil
	}
	if r.Optimized != nil {
		return &tac.Program{Instrs: r.Optimized, Funcs: r.Code.Funcs}
	}
	return r.Code
}

// Compile runs every compilation phase over src, stopping after the
// first phase that reports errors. The returned Result always has its
// Diags collector populated; inspect Err to tell success from failure.
func Compile(src io.Reader, opts Options) (*Result, error) {
	res := &Result{Diags: &diag.Collector{}}

	buf, err := io.ReadAll(src)
	if err != nil {
		return res, err
	}

	res.Tokens = syntax.Tokenize(bytes.NewReader(buf), func(pos syntax.Pos, msg string) {
		res.Diags.Errorf(PhaseLexical, pos, "%s", msg)
	})
	if res.Diags.HasErrors() {
		return res, nil
	}

	// Lexically clean, so the parser's scanner raises no new scan
	// errors here.
	p := syntax.NewParser(bytes.NewReader(buf), func(pos syntax.Pos, msg string) {
		res.Diags.Errorf(PhaseSyntax, pos, "%s", msg)
	})
	prog, perr := p.Parse()
	if perr != nil {
		if serr, ok := perr.(*syntax.Error); ok {
			res.Diags.Errorf(PhaseSyntax, serr.Pos, "%s", serr.Msg)
		} else {
			res.Diags.Errorf(PhaseSyntax, syntax.Pos{}, "%s", perr.Error())
		}
		return res, nil
	}
	res.Prog = prog

	analyzer := sema.New(res.Diags, vm.BuiltinNames())
	aerr := analyzer.Analyze(prog)
	res.Symbols = analyzer.AllSymbols()
	if aerr != nil {
		return res, nil
	}

	code, gerr := tac.Generate(prog)
	if gerr != nil {
		res.Diags.Errorf(PhaseCodegen, syntax.Pos{}, "%s", gerr.Error())
		return res, nil
	}
	res.Code = code

	if opts.Optimize {
		res.Optimized, res.Applied = passes.Optimize(code.Instrs)
	}
	return res, nil
}

// Execute runs a compiled result on a fresh VM, reading input lines
// from in and writing print output to out. It returns the captured
// output lines.
func Execute(res *Result, in io.Reader, out io.Writer) ([]string, error) {
	machine := vm.New(res.Final(), in, out)
	err := machine.Run()
	return machine.Output(), err
}
