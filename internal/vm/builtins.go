package vm

// builtinNames lists every builtin the interpreter dispatches. The
// semantic analyzer seeds its global scope from this list so calls to
// them resolve without user declarations.
var builtinNames = []string{
	"sum", "max", "min", "mean", "median", "stdev", "variance",
	"sin", "cos", "tan", "asin", "acos", "atan",
	"sinh", "cosh", "tanh",
	"exp", "ln", "lg", "log", "log10", "log2",
	"sqrt", "cbrt",
	"floor", "ceil", "round", "abs",
	"factorial", "gcd", "lcm",
	"pi", "e",
	"radians", "degrees",
	"matrix_det", "matrix_trace",
}

// BuiltinNames returns the names of all builtin functions.
func BuiltinNames() []string {
	out := make([]string, len(builtinNames))
	copy(out, builtinNames)
	return out
}

// IsBuiltin reports whether name is a builtin function.
func IsBuiltin(name string) bool {
	for _, n := range builtinNames {
		if n == name {
			return true
		}
	}
	return false
}

// callBuiltin dispatches a builtin by name. Unknown names and missing
// arguments yield 0 rather than an error.
func (m *VM) callBuiltin(name string, args []Value) Value {
	// Array-consuming builtins read the first argument when it is an
	// array; numeric builtins read the first numeric argument.
	var arr []Value
	if len(args) > 0 && args[0].kind == KindArray {
		arr = args[0].arr
	}
	num := 0.0
	if len(args) > 0 {
		if n, ok := args[0].numeric(); ok {
			num = n
		}
	}

	switch name {
	case "sum":
		f, allInt := sumArr(arr)
		if allInt {
			return IntVal(int64(f))
		}
		return FloatVal(f)
	case "max":
		return extremeArr(arr, true)
	case "min":
		return extremeArr(arr, false)

	case "mean":
		if len(arr) == 0 {
			return IntVal(0)
		}
		f, _ := sumArr(arr)
		return FloatVal(f / float64(len(arr)))
	case "median":
		return medianArr(arr)
	case "stdev":
		return FloatVal(sqrtF(varianceArr(arr)))
	case "variance":
		return FloatVal(varianceArr(arr))

	case "radians":
		m.angleDeg = false
		return IntVal(0)
	case "degrees":
		m.angleDeg = true
		return IntVal(0)

	case "sin", "cos", "tan":
		angle := num
		if m.angleDeg {
			angle = toRadians(num)
		}
		switch name {
		case "sin":
			return FloatVal(sinF(angle))
		case "cos":
			return FloatVal(cosF(angle))
		}
		return FloatVal(tanF(angle))
	case "asin", "acos", "atan":
		var r float64
		switch name {
		case "asin":
			r = asinF(num)
		case "acos":
			r = acosF(num)
		default:
			r = atanF(num)
		}
		if m.angleDeg {
			r = toDegrees(r)
		}
		return FloatVal(r)

	case "sinh":
		return FloatVal(sinhF(num))
	case "cosh":
		return FloatVal(coshF(num))
	case "tanh":
		return FloatVal(tanhF(num))

	case "exp":
		return FloatVal(expF(num))
	case "ln":
		return FloatVal(lnF(num))
	case "lg", "log10":
		return FloatVal(log10F(num))
	case "log2":
		return FloatVal(log2F(num))
	case "log":
		// log(x, base) with two arguments, log10 with one.
		if len(args) >= 2 {
			x, xok := args[0].numeric()
			base, bok := args[1].numeric()
			if xok && bok && x > 0 && base > 0 && base != 1 {
				return FloatVal(lnF(x) / lnF(base))
			}
			return IntVal(0)
		}
		if num > 0 {
			return FloatVal(log10F(num))
		}
		return IntVal(0)

	case "sqrt":
		return FloatVal(sqrtF(num))
	case "cbrt":
		return FloatVal(cbrtF(num))

	case "floor":
		return IntVal(int64(floorF(num)))
	case "ceil":
		return IntVal(int64(ceilF(num)))
	case "round":
		return IntVal(int64(roundF(num)))
	case "abs":
		if len(args) > 0 && args[0].IsInt() {
			return IntVal(int64(absF(num)))
		}
		return FloatVal(absF(num))

	case "factorial":
		return IntVal(int64(factorialF(num)))
	case "gcd":
		if len(args) >= 2 {
			a, aok := args[0].numeric()
			b, bok := args[1].numeric()
			if aok && bok {
				return IntVal(gcdI(int64(a), int64(b)))
			}
		}
		return IntVal(0)
	case "lcm":
		if len(args) >= 2 {
			a, aok := args[0].numeric()
			b, bok := args[1].numeric()
			if aok && bok {
				g := gcdI(int64(a), int64(b))
				if g == 0 {
					return IntVal(0)
				}
				p := int64(a) * int64(b)
				if p < 0 {
					p = -p
				}
				return IntVal(p / g)
			}
		}
		return IntVal(0)

	case "pi":
		return FloatVal(piConst)
	case "e":
		return FloatVal(eConst)

	case "matrix_det":
		if len(args) > 0 {
			return numValue(matrixDet(args[0]))
		}
		return IntVal(0)
	case "matrix_trace":
		if len(args) > 0 {
			return numValue(matrixTrace(args[0]))
		}
		return IntVal(0)
	}

	return IntVal(0)
}

// sumArr totals the numeric elements of arr and reports whether all
// of them carried integer arithmetic.
func sumArr(arr []Value) (total float64, allInt bool) {
	allInt = true
	for _, v := range arr {
		if n, ok := v.numeric(); ok {
			total += n
			if !v.IsInt() {
				allInt = false
			}
		}
	}
	return total, allInt
}

// extremeArr returns the largest (or smallest) element; empty arrays
// yield 0.
func extremeArr(arr []Value, wantMax bool) Value {
	if len(arr) == 0 {
		return IntVal(0)
	}
	best := arr[0]
	bestN, _ := best.numeric()
	for _, v := range arr[1:] {
		n, ok := v.numeric()
		if !ok {
			continue
		}
		if (wantMax && n > bestN) || (!wantMax && n < bestN) {
			best, bestN = v, n
		}
	}
	return best
}

// medianArr bubble-sorts a copy of arr and picks the middle element;
// even lengths average the two middles.
func medianArr(arr []Value) Value {
	if len(arr) == 0 {
		return IntVal(0)
	}
	nums := make([]float64, 0, len(arr))
	ints := make([]bool, 0, len(arr))
	for _, v := range arr {
		if n, ok := v.numeric(); ok {
			nums = append(nums, n)
			ints = append(ints, v.IsInt())
		}
	}
	if len(nums) == 0 {
		return IntVal(0)
	}

	n := len(nums)
	for i := 0; i < n; i++ {
		for j := 0; j < n-i-1; j++ {
			if nums[j] > nums[j+1] {
				nums[j], nums[j+1] = nums[j+1], nums[j]
				ints[j], ints[j+1] = ints[j+1], ints[j]
			}
		}
	}
	if n%2 == 0 {
		return FloatVal((nums[n/2-1] + nums[n/2]) / 2)
	}
	if ints[n/2] {
		return IntVal(int64(nums[n/2]))
	}
	return FloatVal(nums[n/2])
}

// varianceArr computes the population variance; fewer than two
// elements yield 0.
func varianceArr(arr []Value) float64 {
	if len(arr) <= 1 {
		return 0
	}
	total, _ := sumArr(arr)
	avg := total / float64(len(arr))
	variance := 0.0
	for _, v := range arr {
		if n, ok := v.numeric(); ok {
			d := n - avg
			variance += d * d
		}
	}
	return variance / float64(len(arr))
}
