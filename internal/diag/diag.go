// Package diag collects compiler diagnostics across phases.
//
// A Collector is an explicit value owned by the pipeline; phases report
// into it through callbacks, and the driver renders it at the end. There
// is no process-global handler.
package diag

import (
	"fmt"
	"io"

	"github.com/calc-lang/calcscript/internal/syntax"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	Error Severity = iota
	Warning
)

// String returns the display form of the severity.
func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Phase      string // "lexical", "syntax", "semantic", "ir", "runtime"
	Pos        syntax.Pos
	Msg        string
	Suggestion string // optional "did you mean" candidate
	Severity   Severity
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s %s", d.Phase, d.Severity)
	if d.Pos.IsValid() {
		s += " at " + d.Pos.String()
	}
	s += ": " + d.Msg
	if d.Suggestion != "" {
		s += fmt.Sprintf(" (did you mean '%s'?)", d.Suggestion)
	}
	return s
}

// Collector accumulates diagnostics in report order.
type Collector struct {
	diags []Diagnostic
}

// Add appends a fully formed diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// Errorf records an error diagnostic for the given phase.
func (c *Collector) Errorf(phase string, pos syntax.Pos, format string, args ...interface{}) {
	c.Add(Diagnostic{Phase: phase, Pos: pos, Msg: fmt.Sprintf(format, args...), Severity: Error})
}

// Warnf records a warning diagnostic for the given phase.
func (c *Collector) Warnf(phase string, pos syntax.Pos, format string, args ...interface{}) {
	c.Add(Diagnostic{Phase: phase, Pos: pos, Msg: fmt.Sprintf(format, args...), Severity: Warning})
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns the recorded diagnostics in report order.
func (c *Collector) All() []Diagnostic {
	return c.diags
}

// Errors returns only the error-severity diagnostics.
func (c *Collector) Errors() []Diagnostic {
	var errs []Diagnostic
	for _, d := range c.diags {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	return errs
}

// Warnings returns only the warning-severity diagnostics.
func (c *Collector) Warnings() []Diagnostic {
	var warns []Diagnostic
	for _, d := range c.diags {
		if d.Severity == Warning {
			warns = append(warns, d)
		}
	}
	return warns
}

// Report writes all diagnostics to w, one per line.
func (c *Collector) Report(w io.Writer) {
	for _, d := range c.diags {
		fmt.Fprintln(w, d.String())
	}
}
