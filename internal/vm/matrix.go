package vm

// Matrix operations over array-of-array values. A value is treated as
// a matrix when it is an array whose elements are all arrays. Shape
// mismatches yield an empty array rather than an error, matching the
// forgiving numeric kernel.

// isMatrix reports whether v is a non-empty array of arrays.
func isMatrix(v Value) bool {
	if v.kind != KindArray || len(v.arr) == 0 {
		return false
	}
	for _, row := range v.arr {
		if row.kind != KindArray {
			return false
		}
	}
	return true
}

// matrixDims returns the row and column counts. Ragged matrices
// report the first row's width; shape checks elsewhere verify the
// rest.
func matrixDims(m Value) (rows, cols int) {
	rows = len(m.arr)
	if rows > 0 {
		cols = len(m.arr[0].arr)
	}
	return rows, cols
}

// matrixRect reports whether every row of m has exactly cols entries.
func matrixRect(m Value, cols int) bool {
	for _, row := range m.arr {
		if len(row.arr) != cols {
			return false
		}
	}
	return true
}

// cellNum reads a matrix cell as a float, treating non-numbers as 0.
func cellNum(m Value, i, j int) float64 {
	v := m.arr[i].arr[j]
	if n, ok := v.numeric(); ok {
		return n
	}
	return 0
}

// buildMatrix wraps a float grid back into an array-of-arrays value.
func buildMatrix(grid [][]float64) Value {
	rows := make([]Value, len(grid))
	for i, r := range grid {
		cells := make([]Value, len(r))
		for j, f := range r {
			cells[j] = numValue(f)
		}
		rows[i] = ArrayVal(cells)
	}
	return ArrayVal(rows)
}

// numValue picks the int representation for whole results so matrix
// arithmetic over integers prints without fractions.
func numValue(f float64) Value {
	if isIntegral(f) {
		return IntVal(int64(f))
	}
	return FloatVal(f)
}

// matrixAdd adds two matrices element-wise. sign is +1 for addition
// and -1 for subtraction.
func matrixAdd(a, b Value, sign float64) Value {
	ar, ac := matrixDims(a)
	br, bc := matrixDims(b)
	if ar != br || ac != bc || !matrixRect(a, ac) || !matrixRect(b, bc) {
		return ArrayVal(nil)
	}

	grid := make([][]float64, ar)
	for i := 0; i < ar; i++ {
		grid[i] = make([]float64, ac)
		for j := 0; j < ac; j++ {
			grid[i][j] = cellNum(a, i, j) + sign*cellNum(b, i, j)
		}
	}
	return buildMatrix(grid)
}

// matrixMul multiplies two matrices. The inner dimensions must agree.
func matrixMul(a, b Value) Value {
	ar, ac := matrixDims(a)
	br, bc := matrixDims(b)
	if ac != br || !matrixRect(a, ac) || !matrixRect(b, bc) {
		return ArrayVal(nil)
	}

	grid := make([][]float64, ar)
	for i := 0; i < ar; i++ {
		grid[i] = make([]float64, bc)
		for j := 0; j < bc; j++ {
			sum := 0.0
			for k := 0; k < ac; k++ {
				sum += cellNum(a, i, k) * cellNum(b, k, j)
			}
			grid[i][j] = sum
		}
	}
	return buildMatrix(grid)
}

// matrixScale multiplies every cell by a scalar.
func matrixScale(m Value, s float64) Value {
	rows, cols := matrixDims(m)
	if !matrixRect(m, cols) {
		return ArrayVal(nil)
	}

	grid := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		grid[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			grid[i][j] = cellNum(m, i, j) * s
		}
	}
	return buildMatrix(grid)
}

// matrixTranspose flips rows and columns.
func matrixTranspose(m Value) Value {
	rows, cols := matrixDims(m)
	if !matrixRect(m, cols) {
		return ArrayVal(nil)
	}

	grid := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		grid[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			grid[j][i] = cellNum(m, i, j)
		}
	}
	return buildMatrix(grid)
}

// pivotEpsilon is the singularity threshold for Gauss-Jordan pivots.
const pivotEpsilon = 1e-10

// matrixInverse inverts a square matrix by Gauss-Jordan elimination
// with partial pivoting. Singular and non-square inputs yield an
// empty array.
func matrixInverse(m Value) Value {
	n, cols := matrixDims(m)
	if n == 0 || n != cols || !matrixRect(m, cols) {
		return ArrayVal(nil)
	}

	// Augmented [m | I].
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, 2*n)
		for j := 0; j < n; j++ {
			aug[i][j] = cellNum(m, i, j)
		}
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		// Pick the row with the largest pivot magnitude.
		pivot := col
		for row := col + 1; row < n; row++ {
			if absF(aug[row][col]) > absF(aug[pivot][col]) {
				pivot = row
			}
		}
		if absF(aug[pivot][col]) < pivotEpsilon {
			return ArrayVal(nil)
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		p := aug[col][col]
		for j := 0; j < 2*n; j++ {
			aug[col][j] /= p
		}
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			for j := 0; j < 2*n; j++ {
				aug[row][j] -= factor * aug[col][j]
			}
		}
	}

	grid := make([][]float64, n)
	for i := 0; i < n; i++ {
		grid[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			grid[i][j] = snapCell(aug[i][n+j])
		}
	}
	return buildMatrix(grid)
}

// snapCell cleans up elimination noise: values within 1e-9 of zero, a
// half, or an integer snap to the exact value.
func snapCell(v float64) float64 {
	if absF(v) < 1e-9 {
		return 0
	}
	half := roundF(v*2) / 2
	if absF(v-half) < 1e-9 {
		return half
	}
	return v
}

// matrixDet computes the determinant by Laplace expansion along the
// first row. Non-square inputs yield 0.
func matrixDet(m Value) float64 {
	n, cols := matrixDims(m)
	if n == 0 || n != cols || !matrixRect(m, cols) {
		return 0
	}

	grid := make([][]float64, n)
	for i := 0; i < n; i++ {
		grid[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			grid[i][j] = cellNum(m, i, j)
		}
	}
	return detGrid(grid)
}

func detGrid(g [][]float64) float64 {
	n := len(g)
	if n == 1 {
		return g[0][0]
	}
	if n == 2 {
		return g[0][0]*g[1][1] - g[0][1]*g[1][0]
	}

	det := 0.0
	sign := 1.0
	for col := 0; col < n; col++ {
		minor := make([][]float64, n-1)
		for i := 1; i < n; i++ {
			row := make([]float64, 0, n-1)
			for j := 0; j < n; j++ {
				if j != col {
					row = append(row, g[i][j])
				}
			}
			minor[i-1] = row
		}
		det += sign * g[0][col] * detGrid(minor)
		sign = -sign
	}
	return det
}

// matrixTrace sums the main diagonal. Non-square inputs yield 0.
func matrixTrace(m Value) float64 {
	n, cols := matrixDims(m)
	if n == 0 || n != cols || !matrixRect(m, cols) {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += cellNum(m, i, i)
	}
	return sum
}
