// SPDX-License-Identifier: MIT

// Package matrix: forward/back substitution.
//
// SolveLower and SolveUpper solve A·X = B for triangular A and any number
// of right-hand-side columns. Only the relevant triangle of A is read, so a
// packed L/U pair or a full matrix can be passed as is.
//
// Layout:
//   - B is transposed once so each right-hand-side column becomes a
//     contiguous slice; substitution then walks A row by row and the
//     solution column sequentially. Columns are independent and may be
//     solved concurrently (WithPool).
//   - The j loop is tiled in BlockSize() strips across all columns of a
//     worker's range, which keeps the active rows of A hot in cache.
//
// Errors:
//   - ErrNonSquare, ErrDimensionMismatch, ErrSingular (a diagonal entry with
//     |d| <= WithSingularTolerance, or a non-finite solution).
package matrix

import (
	"math"
	"math/cmplx"
)

const (
	opSolveLower = "SolveLower"
	opSolveUpper = "SolveUpper"
)

// scalar is the element type of the substitution kernels: float64 for
// PLU and the public solvers, complex128 for Cholesky.
type scalar interface {
	~float64 | ~complex128
}

// SolveLower solves L·X = B by forward substitution.
//
//	X[j] = (B[j] - Σ_{k<j} X[k]·A[j][k]) / A[j][j],  j ascending.
func SolveLower(a, b Matrix, opts ...Option) (*Dense, error) {
	return solveTriangularPublic(opSolveLower, a, b, true, opts)
}

// SolveUpper solves U·X = B by back substitution (j descending, k > j).
func SolveUpper(a, b Matrix, opts ...Option) (*Dense, error) {
	return solveTriangularPublic(opSolveUpper, a, b, false, opts)
}

func solveTriangularPublic(tag string, a, b Matrix, lower bool, opts []Option) (*Dense, error) {
	if err := ValidateSquare(a); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	if err := ValidateRHS(b, a.Rows()); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	if err = ValidateFinite(da); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	if err = ValidateFinite(db); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	o := gatherOptions(opts...)

	x, err := solveTriangular(da, db, lower, &o)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}

	return x, nil
}

// solveTriangular is the validated real entry point shared with PLU.
func solveTriangular(a, b *Dense, lower bool, o *Options) (*Dense, error) {
	n := a.r
	for j := 0; j < n; j++ {
		if d := a.rows[j][j]; d == 0 || math.Abs(d) <= o.singularTol {
			return nil, ErrSingular
		}
	}

	xt, err := newDense(b.c, n)
	if err != nil {
		return nil, err
	}
	transposeRows(xt, b, 0, b.r, o.block)

	err = o.forRows(0, b.c, func(start, end int) {
		substitute(a.rows, xt.rows, lower, start, end, o.block)
	})
	if err != nil {
		return nil, err
	}

	x, err := newDense(n, b.c)
	if err != nil {
		return nil, err
	}
	transposeRows(x, xt, 0, xt.r, o.block)
	for _, row := range x.rows {
		for _, v := range row {
			if isNonFinite(v) {
				return nil, ErrSingular
			}
		}
	}

	return x, nil
}

// solveTriangularComplex is the Cholesky twin of solveTriangular. b holds
// right-hand-side columns already transposed (bt[c] is column c) and is
// solved in place.
func solveTriangularComplex(a, bt [][]complex128, lower bool, o *Options) error {
	for j := range a {
		if d := a[j][j]; d == 0 || cmplx.Abs(d) <= o.singularTol {
			return ErrSingular
		}
	}

	return o.forRows(0, len(bt), func(start, end int) {
		substitute(a, bt, lower, start, end, o.block)
	})
}

// substitute solves columns [cStart, cEnd) of xt in place. xt[c] enters as
// column c of B and leaves as column c of X.
func substitute[T scalar](a, xt [][]T, lower bool, cStart, cEnd, block int) {
	n := len(a)
	if lower {
		for jj := 0; jj < n; jj += block {
			jEnd := min(jj+block, n)
			for c := cStart; c < cEnd; c++ {
				x := xt[c]
				for j := jj; j < jEnd; j++ {
					row := a[j]
					var sum T
					for k := 0; k < j; k++ {
						sum += x[k] * row[k]
					}
					x[j] = (x[j] - sum) / row[j]
				}
			}
		}

		return
	}

	for jEnd := n; jEnd > 0; jEnd -= block {
		jj := max(jEnd-block, 0)
		for c := cStart; c < cEnd; c++ {
			x := xt[c]
			for j := jEnd - 1; j >= jj; j-- {
				row := a[j]
				var sum T
				for k := j + 1; k < n; k++ {
					sum += x[k] * row[k]
				}
				x[j] = (x[j] - sum) / row[j]
			}
		}
	}
}
