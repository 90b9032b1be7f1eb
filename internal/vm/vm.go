package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/calc-lang/calcscript/internal/tac"
)

// Error is a runtime failure raised during execution, carrying the
// index of the instruction that raised it.
type Error struct {
	PC  int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("runtime error at instruction %d: %s", e.PC, e.Msg)
}

// frame is one entry of the call stack. retPC is the index of the
// call instruction to resume after, dst the temporary receiving the
// return value in the caller, and mem the callee's local storage.
type frame struct {
	retPC int
	dst   string
	mem   map[string]Value
}

// VM executes a three-address code program. Labels are resolved to
// instruction indices up front; user-defined functions run on a real
// call stack with per-call local storage.
type VM struct {
	instrs []tac.Instruction
	labels map[string]int
	funcs  map[string]tac.FuncInfo

	pc       int
	global   map[string]Value
	frames   []*frame
	params   []Value
	output   []string
	angleDeg bool

	in  *bufio.Reader
	out io.Writer
}

// New builds a VM for prog reading input lines from in and echoing
// print output to out.
func New(prog *tac.Program, in io.Reader, out io.Writer) *VM {
	m := &VM{
		instrs: prog.Instrs,
		labels: make(map[string]int),
		funcs:  prog.Funcs,
		global: make(map[string]Value),
		in:     bufio.NewReader(in),
		out:    out,
	}
	for i, instr := range m.instrs {
		if instr.Op == tac.OpLabel {
			m.labels[instr.Dst] = i
		}
	}
	return m
}

// Output returns every line printed so far, in order.
func (m *VM) Output() []string {
	return m.output
}

// Run executes the program to completion or to the first runtime
// error.
func (m *VM) Run() error {
	m.pc = 0
	for m.pc < len(m.instrs) {
		if err := m.step(m.instrs[m.pc]); err != nil {
			return err
		}
		m.pc++
	}
	return nil
}

func (m *VM) errorf(format string, args ...any) error {
	return &Error{PC: m.pc, Msg: fmt.Sprintf(format, args...)}
}

// store writes a value into the innermost activation, or global
// storage outside any call.
func (m *VM) store(name string, v Value) {
	if n := len(m.frames); n > 0 {
		m.frames[n-1].mem[name] = v
		return
	}
	m.global[name] = v
}

// load reads a name from the innermost activation first, falling back
// to global storage.
func (m *VM) load(name string) (Value, bool) {
	if n := len(m.frames); n > 0 {
		if v, ok := m.frames[n-1].mem[name]; ok {
			return v, true
		}
	}
	v, ok := m.global[name]
	return v, ok
}

// getValue resolves an operand: the boolean spellings, a quoted
// string, a numeric literal, or a variable. Undefined variables read
// as 0.
func (m *VM) getValue(operand string) Value {
	switch operand {
	case "true":
		return BoolVal(true)
	case "false":
		return BoolVal(false)
	}
	if len(operand) >= 2 && operand[0] == '"' && operand[len(operand)-1] == '"' {
		return TextVal(operand[1 : len(operand)-1])
	}
	if !strings.Contains(operand, ".") {
		if n, err := strconv.ParseInt(operand, 10, 64); err == nil {
			return IntVal(n)
		}
	}
	if f, err := strconv.ParseFloat(operand, 64); err == nil {
		return FloatVal(f)
	}
	if v, ok := m.load(operand); ok {
		return v
	}
	return IntVal(0)
}

// jump moves the program counter to a label, compensating for the
// increment the run loop applies afterwards.
func (m *VM) jump(label string) error {
	idx, ok := m.labels[label]
	if !ok {
		return m.errorf("label %s not found", label)
	}
	m.pc = idx - 1
	return nil
}

func (m *VM) step(instr tac.Instruction) error {
	switch instr.Op {
	case tac.OpAssign:
		m.store(instr.Dst, m.getValue(instr.A))

	case tac.OpAdd, tac.OpSub, tac.OpMul, tac.OpDiv, tac.OpRem, tac.OpPow,
		tac.OpEql, tac.OpNeq, tac.OpLss, tac.OpLeq, tac.OpGtr, tac.OpGeq,
		tac.OpAnd, tac.OpOr:
		if instr.B == "" && instr.Op == tac.OpSub {
			// Unary minus.
			v := m.getValue(instr.A)
			n, ok := v.numeric()
			if !ok {
				return m.errorf("cannot negate %s value", v.Kind())
			}
			if v.IsInt() {
				m.store(instr.Dst, IntVal(-int64(n)))
			} else {
				m.store(instr.Dst, FloatVal(-n))
			}
			return nil
		}
		result, err := m.binary(instr.Op, m.getValue(instr.A), m.getValue(instr.B))
		if err != nil {
			return err
		}
		m.store(instr.Dst, result)

	case tac.OpNot:
		m.store(instr.Dst, BoolVal(!m.getValue(instr.A).Truthy()))

	case tac.OpLabel:
		// Resolved up front.

	case tac.OpGoto:
		return m.jump(instr.Dst)

	case tac.OpIfFalse:
		if !m.getValue(instr.A).Truthy() {
			return m.jump(instr.Dst)
		}

	case tac.OpIfTrue:
		if m.getValue(instr.A).Truthy() {
			return m.jump(instr.Dst)
		}

	case tac.OpPrint:
		s := m.getValue(instr.A).String()
		m.output = append(m.output, s)
		fmt.Fprintln(m.out, s)

	case tac.OpInput:
		// A partial line at EOF still counts as input.
		line, _ := m.in.ReadString('\n')
		m.store(instr.Dst, parseInput(strings.TrimSpace(line)))

	case tac.OpArrayLiteral:
		var elems []Value
		if instr.A != "" {
			parts := strings.Split(instr.A, ", ")
			elems = make([]Value, len(parts))
			for i, p := range parts {
				elems[i] = m.getValue(p)
			}
		}
		m.store(instr.Dst, ArrayVal(elems))

	case tac.OpArrayLoad:
		arr := m.getValue(instr.A)
		if arr.kind != KindArray {
			return m.errorf("%s is not an array", instr.A)
		}
		idxVal, ok := m.getValue(instr.B).numeric()
		if !ok {
			return m.errorf("array index must be a number")
		}
		idx := int(idxVal)
		if idx < 0 || idx >= len(arr.arr) {
			return m.errorf("array index %d out of bounds", idx)
		}
		m.store(instr.Dst, arr.arr[idx])

	case tac.OpArrayStore:
		arr, ok := m.load(instr.Dst)
		if !ok || arr.kind != KindArray {
			arr = ArrayVal(nil)
		}
		idxVal, okIdx := m.getValue(instr.A).numeric()
		if !okIdx {
			return m.errorf("array index must be a number")
		}
		idx := int(idxVal)
		if idx < 0 {
			return m.errorf("array index %d out of bounds", idx)
		}
		elems := arr.arr
		for len(elems) <= idx {
			elems = append(elems, IntVal(0))
		}
		elems[idx] = m.getValue(instr.B)
		m.store(instr.Dst, ArrayVal(elems))

	case tac.OpParam:
		m.params = append(m.params, m.getValue(instr.A))

	case tac.OpCall:
		return m.call(instr)

	case tac.OpReturn:
		v := m.getValue(instr.A)
		if n := len(m.frames); n > 0 {
			fr := m.frames[n-1]
			m.frames = m.frames[:n-1]
			if fr.dst != "" {
				m.store(fr.dst, v)
			}
			m.pc = fr.retPC
			return nil
		}
		// Top-level return halts the program.
		m.pc = len(m.instrs)
	}
	return nil
}

// call dispatches a function call. User-defined functions shadow
// builtins of the same name; exactly the call's argument count is
// popped from the parameter stack.
func (m *VM) call(instr tac.Instruction) error {
	numArgs, err := strconv.Atoi(instr.B)
	if err != nil || numArgs < 0 || numArgs > len(m.params) {
		return m.errorf("bad argument count for call to %s", instr.A)
	}
	args := m.params[len(m.params)-numArgs:]
	m.params = m.params[:len(m.params)-numArgs]

	if fi, ok := m.funcs[instr.A]; ok {
		mem := make(map[string]Value, len(fi.Params))
		for i, p := range fi.Params {
			if i < len(args) {
				mem[p] = args[i]
			} else {
				mem[p] = IntVal(0)
			}
		}
		m.frames = append(m.frames, &frame{retPC: m.pc, dst: instr.Dst, mem: mem})
		return m.jump(fi.Label)
	}

	m.store(instr.Dst, m.callBuiltin(instr.A, args))
	return nil
}

// binary evaluates a binary operator. Integer arithmetic stays
// integral except division, which always yields a float; any float
// operand floats the result.
func (m *VM) binary(op tac.Op, a, b Value) (Value, error) {
	// Matrix forms claim the operator when the shapes fit.
	switch op {
	case tac.OpAdd:
		if isMatrix(a) && isMatrix(b) {
			return matrixAdd(a, b, 1), nil
		}
		if a.kind == KindText && b.kind == KindText {
			return TextVal(a.str + b.str), nil
		}
		if a.kind == KindArray && b.kind == KindArray {
			joined := make([]Value, 0, len(a.arr)+len(b.arr))
			joined = append(joined, a.arr...)
			joined = append(joined, b.arr...)
			return ArrayVal(joined), nil
		}
	case tac.OpSub:
		if isMatrix(a) && isMatrix(b) {
			return matrixAdd(a, b, -1), nil
		}
	case tac.OpMul:
		if isMatrix(a) && isMatrix(b) {
			return matrixMul(a, b), nil
		}
		if isMatrix(a) {
			if s, ok := b.numeric(); ok {
				return matrixScale(a, s), nil
			}
		}
		if isMatrix(b) {
			if s, ok := a.numeric(); ok {
				return matrixScale(b, s), nil
			}
		}
	case tac.OpPow:
		if isMatrix(a) {
			if b.kind == KindText && b.str == "t" {
				return matrixTranspose(a), nil
			}
			if n, ok := b.numeric(); ok && n == -1 {
				return matrixInverse(a), nil
			}
		}
	case tac.OpEql:
		return BoolVal(equal(a, b)), nil
	case tac.OpNeq:
		return BoolVal(!equal(a, b)), nil
	case tac.OpAnd:
		return BoolVal(a.Truthy() && b.Truthy()), nil
	case tac.OpOr:
		return BoolVal(a.Truthy() || b.Truthy()), nil
	}

	// Ordered comparison on strings compares content.
	if a.kind == KindText && b.kind == KindText {
		switch op {
		case tac.OpLss:
			return BoolVal(a.str < b.str), nil
		case tac.OpLeq:
			return BoolVal(a.str <= b.str), nil
		case tac.OpGtr:
			return BoolVal(a.str > b.str), nil
		case tac.OpGeq:
			return BoolVal(a.str >= b.str), nil
		}
	}

	an, aok := a.numeric()
	bn, bok := b.numeric()
	if !aok || !bok {
		return Value{}, m.errorf("unsupported operand types for %s: %s and %s",
			op.Text(), a.Kind(), b.Kind())
	}
	bothInt := a.IsInt() && b.IsInt()

	switch op {
	case tac.OpAdd:
		return numResult(an+bn, bothInt), nil
	case tac.OpSub:
		return numResult(an-bn, bothInt), nil
	case tac.OpMul:
		return numResult(an*bn, bothInt), nil
	case tac.OpDiv:
		if bn == 0 {
			return Value{}, m.errorf("division by zero")
		}
		return FloatVal(an / bn), nil
	case tac.OpRem:
		if bn == 0 {
			return Value{}, m.errorf("modulo by zero")
		}
		if bothInt {
			r := int64(an) % int64(bn)
			if r != 0 && (r < 0) != (int64(bn) < 0) {
				r += int64(bn)
			}
			return IntVal(r), nil
		}
		return FloatVal(an - floorF(an/bn)*bn), nil
	case tac.OpPow:
		r := powF(an, bn)
		return numResult(r, bothInt && bn >= 0), nil
	case tac.OpLss:
		return BoolVal(an < bn), nil
	case tac.OpLeq:
		return BoolVal(an <= bn), nil
	case tac.OpGtr:
		return BoolVal(an > bn), nil
	case tac.OpGeq:
		return BoolVal(an >= bn), nil
	}
	return Value{}, m.errorf("unsupported operator %s", op.Text())
}

// numResult tags an arithmetic result as integer when both operands
// were integers and the value survived in range.
func numResult(f float64, wantInt bool) Value {
	if wantInt && isIntegral(f) {
		return IntVal(int64(f))
	}
	return FloatVal(f)
}

// parseInput interprets a line typed at an input statement: integer,
// float, or the raw string when it is not numeric.
func parseInput(s string) Value {
	if !strings.Contains(s, ".") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntVal(n)
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatVal(f)
	}
	return TextVal(s)
}
