package vm

import "testing"

func callB(name string, args ...Value) Value {
	m := &VM{}
	return m.callBuiltin(name, args)
}

func nums(vals ...int64) Value {
	elems := make([]Value, len(vals))
	for i, v := range vals {
		elems[i] = IntVal(v)
	}
	return ArrayVal(elems)
}

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()
	if len(names) == 0 {
		t.Fatal("no builtin names")
	}
	for _, want := range []string{"sqrt", "sin", "matrix_det", "pi", "degrees"} {
		if !IsBuiltin(want) {
			t.Errorf("%s should be a builtin", want)
		}
	}
	if IsBuiltin("frobnicate") {
		t.Error("frobnicate should not be a builtin")
	}

	// The slice is a copy; mutating it must not affect the table.
	names[0] = "clobbered"
	if IsBuiltin("clobbered") {
		t.Error("BuiltinNames must return a copy")
	}
}

func TestBuiltinConstants(t *testing.T) {
	if got := callB("pi").Num(); got != 3.141592653589793 {
		t.Errorf("pi = %v", got)
	}
	if got := callB("e").Num(); got != 2.718281828459045 {
		t.Errorf("e = %v", got)
	}
}

func TestBuiltinAggregates(t *testing.T) {
	arr := nums(1, 2, 3, 4)

	if got := callB("sum", arr); !got.IsInt() || got.Num() != 10 {
		t.Errorf("sum = %v", got)
	}
	if got := callB("max", arr); got.Num() != 4 {
		t.Errorf("max = %v", got)
	}
	if got := callB("min", arr); got.Num() != 1 {
		t.Errorf("min = %v", got)
	}
	if got := callB("mean", arr); got.IsInt() || got.Num() != 2.5 {
		t.Errorf("mean = %v", got)
	}

	// Empty arrays yield 0.
	for _, name := range []string{"sum", "max", "min", "mean", "median"} {
		if got := callB(name, ArrayVal(nil)); got.Num() != 0 {
			t.Errorf("%s([]) = %v, want 0", name, got)
		}
	}
}

func TestBuiltinSumFloats(t *testing.T) {
	arr := ArrayVal([]Value{IntVal(1), FloatVal(2.5)})
	got := callB("sum", arr)
	if got.IsInt() || got.Num() != 3.5 {
		t.Errorf("sum = %v, want 3.5 float", got)
	}
}

func TestBuiltinMedian(t *testing.T) {
	// Odd count picks the middle element after sorting.
	if got := callB("median", nums(3, 1, 2)); got.Num() != 2 {
		t.Errorf("median odd = %v", got)
	}
	// Even count averages the two middles, always a float.
	got := callB("median", nums(4, 1, 3, 2))
	if got.IsInt() || got.Num() != 2.5 {
		t.Errorf("median even = %v", got)
	}
}

func TestBuiltinVariance(t *testing.T) {
	arr := nums(1, 2, 3, 4)
	if got := callB("variance", arr).Num(); absF(got-1.25) > 1e-9 {
		t.Errorf("variance = %v, want 1.25", got)
	}
	if got := callB("stdev", arr).Num(); absF(got-1.118033988749895) > 1e-8 {
		t.Errorf("stdev = %v", got)
	}
	// Single elements have no spread.
	if got := callB("variance", nums(7)).Num(); got != 0 {
		t.Errorf("variance of one element = %v, want 0", got)
	}
}

func TestBuiltinLog(t *testing.T) {
	if got := callB("log", IntVal(8), IntVal(2)).Num(); absF(got-3) > 1e-8 {
		t.Errorf("log(8, 2) = %v, want 3", got)
	}
	if got := callB("log", IntVal(100)).Num(); absF(got-2) > 1e-8 {
		t.Errorf("log(100) = %v, want 2", got)
	}
	if got := callB("log", IntVal(8), IntVal(1)).Num(); got != 0 {
		t.Errorf("log base 1 = %v, want 0", got)
	}
	if got := callB("lg", IntVal(1000)).Num(); absF(got-3) > 1e-8 {
		t.Errorf("lg(1000) = %v, want 3", got)
	}
}

func TestBuiltinRoundingKinds(t *testing.T) {
	if got := callB("floor", FloatVal(2.7)); !got.IsInt() || got.Num() != 2 {
		t.Errorf("floor = %v, want int 2", got)
	}
	if got := callB("ceil", FloatVal(2.1)); !got.IsInt() || got.Num() != 3 {
		t.Errorf("ceil = %v, want int 3", got)
	}
	if got := callB("abs", IntVal(-4)); !got.IsInt() || got.Num() != 4 {
		t.Errorf("abs int = %v, want int 4", got)
	}
	if got := callB("abs", FloatVal(-2.5)); got.IsInt() || got.Num() != 2.5 {
		t.Errorf("abs float = %v, want float 2.5", got)
	}
}

func TestBuiltinNumberTheory(t *testing.T) {
	if got := callB("factorial", IntVal(5)); got.Num() != 120 {
		t.Errorf("factorial(5) = %v", got)
	}
	if got := callB("gcd", IntVal(12), IntVal(18)); got.Num() != 6 {
		t.Errorf("gcd = %v", got)
	}
	if got := callB("lcm", IntVal(4), IntVal(6)); got.Num() != 12 {
		t.Errorf("lcm = %v", got)
	}
	if got := callB("gcd", IntVal(12)); got.Num() != 0 {
		t.Errorf("gcd with one argument = %v, want 0", got)
	}
	if got := callB("lcm", IntVal(0), IntVal(0)); got.Num() != 0 {
		t.Errorf("lcm(0, 0) = %v, want 0", got)
	}
}

func TestBuiltinAngleMode(t *testing.T) {
	m := &VM{}

	// Radians by default.
	if got := m.callBuiltin("sin", []Value{FloatVal(piConst / 2)}).Num(); absF(got-1) > 1e-8 {
		t.Errorf("sin(pi/2) = %v, want 1", got)
	}

	m.callBuiltin("degrees", nil)
	if got := m.callBuiltin("sin", []Value{IntVal(90)}).Num(); absF(got-1) > 1e-8 {
		t.Errorf("sin(90 deg) = %v, want 1", got)
	}
	if got := m.callBuiltin("asin", []Value{IntVal(1)}).Num(); absF(got-90) > 1e-8 {
		t.Errorf("asin(1) in degrees = %v, want 90", got)
	}

	m.callBuiltin("radians", nil)
	if got := m.callBuiltin("asin", []Value{IntVal(1)}).Num(); absF(got-piConst/2) > 1e-8 {
		t.Errorf("asin(1) in radians = %v", got)
	}
}

func TestBuiltinMatrix(t *testing.T) {
	m2 := mat([][]float64{{1, 2}, {3, 4}})
	if got := callB("matrix_det", m2); got.Num() != -2 {
		t.Errorf("matrix_det = %v, want -2", got)
	}
	if got := callB("matrix_trace", m2); got.Num() != 5 {
		t.Errorf("matrix_trace = %v, want 5", got)
	}
}

func TestBuiltinUnknown(t *testing.T) {
	if got := callB("no_such_fn", IntVal(1)); got.Num() != 0 {
		t.Errorf("unknown builtin = %v, want 0", got)
	}
}
