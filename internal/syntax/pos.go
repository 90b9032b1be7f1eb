package syntax

import "strconv"

// Pos is a 1-based line/column position in the source text. Tokens,
// AST nodes, and diagnostics all carry one. The zero value marks a
// node with no position (synthesized during lowering).
type Pos struct {
	line uint32
	col  uint32
}

// NewPos returns the position for the given 1-based line and column.
func NewPos(line, col uint32) Pos {
	return Pos{line: line, col: col}
}

// IsValid reports whether p refers to an actual source location.
func (p Pos) IsValid() bool {
	return p.line > 0
}

// Line returns the 1-based line number, 0 if the position is invalid.
func (p Pos) Line() uint32 { return p.line }

// Col returns the 1-based column number.
func (p Pos) Col() uint32 { return p.col }

// String renders the position as "line:col".
func (p Pos) String() string {
	if !p.IsValid() {
		return "<unknown position>"
	}
	return strconv.FormatUint(uint64(p.line), 10) + ":" +
		strconv.FormatUint(uint64(p.col), 10)
}
