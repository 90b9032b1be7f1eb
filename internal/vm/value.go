// Package vm implements the label-addressed TAC interpreter and its
// hand-rolled numeric kernel.
package vm

import (
	"strconv"
	"strings"
)

// Kind identifies a runtime value variant.
type Kind uint8

const (
	KindNumber Kind = iota
	KindText
	KindBool
	KindArray
)

// kindNames maps kinds to their string representation.
var kindNames = [...]string{
	KindNumber: "number",
	KindText:   "string",
	KindBool:   "boolean",
	KindArray:  "array",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Value is a tagged runtime value. Numbers remember whether they were
// produced by integer arithmetic: int op int stays int (except /,
// which always yields a float), and any float operand makes the
// result a float.
type Value struct {
	kind  Kind
	num   float64
	isInt bool
	str   string
	b     bool
	arr   []Value
}

// IntVal returns an integer number value.
func IntVal(n int64) Value {
	return Value{kind: KindNumber, num: float64(n), isInt: true}
}

// FloatVal returns a float number value.
func FloatVal(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// TextVal returns a string value.
func TextVal(s string) Value {
	return Value{kind: KindText, str: s}
}

// BoolVal returns a boolean value.
func BoolVal(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// ArrayVal returns an array value holding elems.
func ArrayVal(elems []Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Kind returns the value's variant tag.
func (v Value) Kind() Kind { return v.kind }

// Num returns the numeric payload (zero for non-numbers).
func (v Value) Num() float64 { return v.num }

// IsInt reports whether a number value carries integer arithmetic.
func (v Value) IsInt() bool { return v.kind == KindNumber && v.isInt }

// Text returns the string payload.
func (v Value) Text() string { return v.str }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Elems returns the array payload.
func (v Value) Elems() []Value { return v.arr }

// Truthy reports the value's truthiness: non-zero numbers, non-empty
// strings and arrays, and true are truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindText:
		return v.str != ""
	case KindBool:
		return v.b
	case KindArray:
		return len(v.arr) > 0
	}
	return false
}

// String renders the value the way print displays it.
// Booleans always render as the source-level spellings true/false,
// and strings inside arrays are quoted.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num, v.isInt)
	case KindText:
		return v.str
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindArray:
		var b strings.Builder
		b.WriteByte('[')
		for i, el := range v.arr {
			if i > 0 {
				b.WriteString(", ")
			}
			if el.kind == KindText {
				b.WriteByte('"')
				b.WriteString(el.str)
				b.WriteByte('"')
			} else {
				b.WriteString(el.String())
			}
		}
		b.WriteByte(']')
		return b.String()
	}
	return ""
}

// maxFinite is the largest finite float64; anything beyond it is an
// infinity produced by runtime overflow.
const maxFinite = 1.7976931348623157e308

// formatNumber renders a number: integers without a fraction, floats
// with at least one fractional digit so 2.0 stays visibly a float.
func formatNumber(f float64, isInt bool) string {
	if f != f {
		return "nan"
	}
	if f > maxFinite {
		return "inf"
	}
	if f < -maxFinite {
		return "-inf"
	}
	if isInt {
		return strconv.FormatInt(int64(f), 10)
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10) + ".0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// equal compares two values. Numbers and booleans compare numerically
// (true equals 1), strings by content, arrays element-wise; any other
// cross-kind comparison is unequal.
func equal(a, b Value) bool {
	an, aok := a.numeric()
	bn, bok := b.numeric()
	if aok && bok {
		return an == bn
	}
	if a.kind == KindText && b.kind == KindText {
		return a.str == b.str
	}
	if a.kind == KindArray && b.kind == KindArray {
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// numeric returns the numeric interpretation of a number or boolean.
func (v Value) numeric() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
