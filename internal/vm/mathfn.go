package vm

// Hand-rolled numeric kernel. Every function here is computed from
// first principles with Newton's method or truncated series; nothing
// calls into a platform math library.

const (
	piConst = 3.141592653589793
	eConst  = 2.718281828459045

	// seriesEpsilon terminates a series once the running term is
	// negligible at double precision for the supported input ranges.
	seriesEpsilon = 1e-10
)

// inf produces a positive infinity by overflow.
func inf() float64 {
	f := maxFinite
	return f * 2
}

func absF(x float64) float64 {
	if x >= 0 {
		return x
	}
	return -x
}

// isIntegral reports whether x is an exactly representable integer.
func isIntegral(x float64) bool {
	if absF(x) >= 1e15 {
		return false
	}
	return x == float64(int64(x))
}

func floorF(x float64) float64 {
	t := float64(int64(x))
	if x >= 0 || x == t {
		return t
	}
	return t - 1
}

func ceilF(x float64) float64 {
	t := float64(int64(x))
	if x > t {
		return t + 1
	}
	return t
}

// roundF rounds half away from zero.
func roundF(x float64) float64 {
	if x >= 0 {
		return float64(int64(x + 0.5))
	}
	return float64(int64(x - 0.5))
}

// sqrtF computes the square root with Newton's method. Negative
// inputs yield 0.
func sqrtF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	guess := x / 2.0
	for i := 0; i < 50; i++ {
		guess = (guess + x/guess) / 2.0
	}
	return guess
}

// cbrtF computes the cube root with Newton's method.
func cbrtF(x float64) float64 {
	if x == 0 {
		return 0
	}
	negative := x < 0
	x = absF(x)

	guess := x / 3.0
	for i := 0; i < 50; i++ {
		guess = (2*guess + x/(guess*guess)) / 3.0
	}
	if negative {
		return -guess
	}
	return guess
}

// expF computes e^x from its Taylor series. Inputs beyond ±100 are
// clamped to infinity and zero to prevent overflow in the series.
func expF(x float64) float64 {
	if x > 100 {
		return inf()
	}
	if x < -100 {
		return 0
	}

	result := 1.0
	term := 1.0
	for n := 1; n < 100; n++ {
		term *= x / float64(n)
		result += term
		if absF(term) < seriesEpsilon {
			break
		}
	}
	return result
}

// lnF computes the natural logarithm from the artanh series
// ln(x) = 2 * sum(y^(2n+1)/(2n+1)) with y = (x-1)/(x+1), recursing
// through ln(x) = ln(x/e) + 1 to pull large inputs into the
// convergent range. Non-positive inputs yield 0.
func lnF(x float64) float64 {
	if x <= 0 || x == 1 {
		return 0
	}
	if x > 2 {
		return lnF(x/eConst) + 1
	}

	y := (x - 1) / (x + 1)
	y2 := y * y
	result := 0.0
	term := y
	for n := 0; n < 100; n++ {
		result += term / float64(2*n+1)
		term *= y2
		if absF(term) < seriesEpsilon {
			break
		}
	}
	return 2 * result
}

func log10F(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return lnF(x) / lnF(10)
}

func log2F(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return lnF(x) / lnF(2)
}

// normalizeAngle reduces x into [-2π, 2π] before a trigonometric
// series is applied.
func normalizeAngle(x float64) float64 {
	for x > 2*piConst {
		x -= 2 * piConst
	}
	for x < -2*piConst {
		x += 2 * piConst
	}
	return x
}

// sinF computes sine from its Taylor series, 20 terms after angle
// normalization.
func sinF(x float64) float64 {
	x = normalizeAngle(x)

	result := 0.0
	term := x
	for n := 0; n < 20; n++ {
		result += term
		term *= -x * x / float64((2*n+2)*(2*n+3))
		if absF(term) < seriesEpsilon {
			break
		}
	}
	return result
}

// cosF computes cosine from its Taylor series.
func cosF(x float64) float64 {
	x = normalizeAngle(x)

	result := 0.0
	term := 1.0
	for n := 0; n < 20; n++ {
		result += term
		term *= -x * x / float64((2*n+1)*(2*n+2))
		if absF(term) < seriesEpsilon {
			break
		}
	}
	return result
}

// tanF computes sin/cos, yielding 0 near the poles instead of
// diverging.
func tanF(x float64) float64 {
	c := cosF(x)
	if absF(c) < seriesEpsilon {
		return 0
	}
	return sinF(x) / c
}

// asinF computes arcsine from its Maclaurin series. Inputs outside
// [-1, 1] yield 0.
func asinF(x float64) float64 {
	if x < -1 || x > 1 {
		return 0
	}
	if x == 1 {
		return piConst / 2
	}
	if x == -1 {
		return -piConst / 2
	}

	result := x
	term := x
	x2 := x * x
	for n := 1; n < 30; n++ {
		term *= x2 * float64((2*n-1)*(2*n-1)) / float64((2*n)*(2*n+1))
		result += term
		if absF(term) < seriesEpsilon {
			break
		}
	}
	return result
}

func acosF(x float64) float64 {
	if x < -1 || x > 1 {
		return 0
	}
	return piConst/2 - asinF(x)
}

// atanF computes arctangent from its series, reducing |x| > 1 through
// atan(x) = ±π/2 - atan(1/x) so the series converges.
func atanF(x float64) float64 {
	if x > 1 {
		return piConst/2 - atanF(1/x)
	}
	if x < -1 {
		return -piConst/2 - atanF(1/x)
	}

	result := 0.0
	term := x
	x2 := x * x
	for n := 0; n < 50; n++ {
		result += term / float64(2*n+1)
		term *= -x2
		if absF(term) < seriesEpsilon {
			break
		}
	}
	return result
}

func sinhF(x float64) float64 {
	return (expF(x) - expF(-x)) / 2
}

func coshF(x float64) float64 {
	return (expF(x) + expF(-x)) / 2
}

func tanhF(x float64) float64 {
	c := coshF(x)
	if c == 0 {
		return 0
	}
	return sinhF(x) / c
}

func toRadians(degrees float64) float64 {
	return degrees * piConst / 180
}

func toDegrees(radians float64) float64 {
	return radians * 180 / piConst
}

// factorialF computes n! for non-negative integral n; anything else
// yields 0.
func factorialF(n float64) float64 {
	if n < 0 || !isIntegral(n) {
		return 0
	}
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}
	return result
}

// gcdI computes the greatest common divisor with the Euclidean
// algorithm.
func gcdI(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// powF computes a^b. Integral exponents use repeated multiplication;
// fractional exponents go through exp(b * ln(a)) and yield 0 for
// non-positive bases, where the real-valued power is undefined.
func powF(a, b float64) float64 {
	if isIntegral(b) {
		n := int64(b)
		negative := n < 0
		if negative {
			n = -n
		}
		result := 1.0
		for i := int64(0); i < n; i++ {
			result *= a
		}
		if negative {
			if result == 0 {
				return 0
			}
			return 1 / result
		}
		return result
	}
	if a <= 0 {
		return 0
	}
	return expF(b * lnF(a))
}
