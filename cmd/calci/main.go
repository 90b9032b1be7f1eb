// Package main implements the CalcScript interpreter entry point.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/calc-lang/calcscript/internal/pipeline"
	"github.com/calc-lang/calcscript/internal/syntax"
)

// Interpreter flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	emitTAC    = flag.Bool("emit-tac", false, "Output generated three-address code")
	emitOpt    = flag.Bool("emit-opt", false, "Output optimized three-address code")
	emitLog    = flag.Bool("emit-opt-log", false, "Output applied optimizations")
	noOpt      = flag.Bool("no-opt", false, "Disable the optimizer")
	noExec     = flag.Bool("no-exec", false, "Compile only, do not execute")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "CalcScript Interpreter %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: calci [options] <file.calc>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("calci version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: calci [options] <file.calc>")
		os.Exit(1)
	}

	os.Exit(run(args[0]))
}

func run(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	// Handle -emit-tokens before the full pipeline so a token dump
	// works even on programs that fail later phases.
	if *emitTokens {
		return runEmitTokens(f)
	}

	res, err := pipeline.Compile(f, pipeline.Options{Optimize: !*noOpt})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	res.Diags.Report(os.Stderr)
	if res.Err() {
		return 1
	}

	if *emitAST {
		syntax.Fprint(os.Stdout, res.Prog)
	}

	if *emitTAC {
		for _, instr := range res.Code.Instrs {
			fmt.Println(instr)
		}
	}

	if *emitOpt && res.Optimized != nil {
		for _, instr := range res.Optimized {
			fmt.Println(instr)
		}
	}

	if *emitLog {
		for _, entry := range res.Applied {
			fmt.Println(entry)
		}
	}

	if *noExec {
		return 0
	}

	if _, err := pipeline.Execute(res, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(f *os.File) int {
	var errs []string
	errh := func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	}

	toks := syntax.Tokenize(f, errh)

	// Print header
	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for _, ti := range toks {
		fmt.Printf("%-20s %-12s %s\n", ti.Pos.String(), ti.Tok.String(), formatLiteral(ti.Lit))
	}

	if len(errs) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errs {
			fmt.Printf("  %s\n", e)
		}
		return 1
	}
	return 0
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}
