// SPDX-License-Identifier: MIT
// Package matrix: value-returning element-wise and product kernels.
// Every function validates its operands, allocates a fresh *Dense for the
// result and never mutates its inputs.
//
// Purpose:
//   - Add/Sub/Scale/Mul/Transpose/Pow/MatVec over any Matrix.
//   - Row-range kernels (mulRows, transposeRows) shared with the parallel
//     variants in parallel.go, so both paths sum in the same order.
//
// Notes:
//   - Non-*Dense operands are materialized once via asDense.

package matrix

import (
	"math"
)

// Operation name constants for unified error wrapping.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opPow       = "Pow"
	opMatVec    = "MatVec"
	opEqual     = "Equal"
)

// addSub computes out = a + sign*b for sign ∈ {+1, -1}.
// Implementation:
//   - Stage 1: ValidateSameShape(a, b); materialize both as *Dense.
//   - Stage 2: walk row handles i→j, writing into a fresh result.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func addSub(a, b Matrix, sign float64, opTag string) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res, err := newDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	for i := 0; i < da.r; i++ {
		ra, rb, rr := da.rows[i], db.rows[i], res.rows[i]
		for j := range rr {
			rr[j] = ra[j] + sign*rb[j]
		}
	}

	return res, nil
}

// Add returns a + b. Errors: ErrNilMatrix, ErrDimensionMismatch.
func Add(a, b Matrix) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub returns a - b. Errors: ErrNilMatrix, ErrDimensionMismatch.
func Sub(a, b Matrix) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Scale returns alpha·m.
func Scale(m Matrix, alpha float64) (*Dense, error) {
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, err := newDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for i, row := range d.rows {
		rr := res.rows[i]
		for j, v := range row {
			rr[j] = alpha * v
		}
	}

	return res, nil
}

// Mul returns the product a·b.
// Implementation:
//   - Stage 1: ValidateMulCompatible (a.Cols == b.Rows).
//   - Stage 2: allocate r×c result, run mulRows over [0, a.Rows).
//
// Determinism:
//   - Fixed i→k→j loop order; MulParallel uses the same per-row kernel
//     and is therefore bit-identical.
//
// Complexity:
//   - Time O(r·k·c), Space O(r·c).
func Mul(a, b Matrix) (*Dense, error) {
	da, db, res, err := prepareMul(a, b)
	if err != nil {
		return nil, err
	}
	mulRows(res, da, db, 0, da.r)

	return res, nil
}

func prepareMul(a, b Matrix) (da, db, res *Dense, err error) {
	if err = ValidateMulCompatible(a, b); err != nil {
		return nil, nil, nil, matrixErrorf(opMul, err)
	}
	if da, err = asDense(a); err != nil {
		return nil, nil, nil, matrixErrorf(opMul, err)
	}
	if db, err = asDense(b); err != nil {
		return nil, nil, nil, matrixErrorf(opMul, err)
	}
	if res, err = newDense(da.r, db.c); err != nil {
		return nil, nil, nil, matrixErrorf(opMul, err)
	}

	return da, db, res, nil
}

// mulRows writes rows [start, end) of dst = a·b. dst rows must be zero.
func mulRows(dst, a, b *Dense, start, end int) {
	for i := start; i < end; i++ {
		ra, rd := a.rows[i], dst.rows[i]
		for k, av := range ra {
			rb := b.rows[k]
			for j, bv := range rb {
				rd[j] += av * bv
			}
		}
	}
}

// Transpose returns mᵀ as a new c×r matrix.
func Transpose(m Matrix) (*Dense, error) {
	d, res, err := prepareTranspose(m)
	if err != nil {
		return nil, err
	}
	transposeRows(res, d, 0, d.r, BlockSize())

	return res, nil
}

func prepareTranspose(m Matrix) (d, res *Dense, err error) {
	if d, err = asDense(m); err != nil {
		return nil, nil, matrixErrorf(opTranspose, err)
	}
	if res, err = newDense(d.c, d.r); err != nil {
		return nil, nil, matrixErrorf(opTranspose, err)
	}

	return d, res, nil
}

// transposeRows copies source rows [start, end) into the matching columns
// of dst, tiled by block so both sides are walked in cache-sized strips.
func transposeRows(dst, src *Dense, start, end, block int) {
	for jj := 0; jj < src.c; jj += block {
		jEnd := min(jj+block, src.c)
		for i := start; i < end; i++ {
			row := src.rows[i]
			for j := jj; j < jEnd; j++ {
				dst.rows[j][i] = row[j]
			}
		}
	}
}

// Pow returns m^k for k >= 1 by repeated multiplication (k-1 products).
// Errors: ErrNonSquare, ErrBadPower.
func Pow(m Matrix, k int) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opPow, err)
	}
	if k < 1 {
		return nil, matrixErrorf(opPow, ErrBadPower)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opPow, err)
	}
	acc := d.clone()
	for ; k > 1; k-- {
		if acc, err = Mul(acc, d); err != nil {
			return nil, matrixErrorf(opPow, err)
		}
	}

	return acc, nil
}

// MatVec returns m·x.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if len(x) != d.c {
		return nil, matrixErrorf(opMatVec, ErrDimensionMismatch)
	}
	out := make([]float64, d.r)
	for i, row := range d.rows {
		var s float64
		for j, v := range row {
			s += v * x[j]
		}
		out[i] = s
	}

	return out, nil
}

// Equal reports whether a and b have the same shape and every pair of
// elements differs by at most tol (tol == 0 is exact equality; NaN never
// compares equal).
func Equal(a, b Matrix, tol float64) (bool, error) {
	if err := ValidateNotNil(a); err != nil {
		return false, matrixErrorf(opEqual, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, matrixErrorf(opEqual, err)
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false, nil
	}
	da, err := asDense(a)
	if err != nil {
		return false, matrixErrorf(opEqual, err)
	}
	db, err := asDense(b)
	if err != nil {
		return false, matrixErrorf(opEqual, err)
	}
	for i := range da.rows {
		ra, rb := da.rows[i], db.rows[i]
		for j := range ra {
			if !(math.Abs(ra[j]-rb[j]) <= tol) && ra[j] != rb[j] {
				return false, nil
			}
			if math.IsNaN(ra[j]) || math.IsNaN(rb[j]) {
				return false, nil
			}
		}
	}

	return true, nil
}
