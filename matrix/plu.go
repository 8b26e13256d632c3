// SPDX-License-Identifier: MIT
// Package matrix: PLU decomposition with partial pivoting (Doolittle/Crout).
//
// Purpose:
//   - Factor P·A = L·U where L carries the pivots on its diagonal and U has
//     a unit diagonal; only L's diagonal contributes to the determinant.
//   - Record every row swap as (p, i) so Solve can replay the permutation on
//     a right-hand side instead of multiplying by P.
//
// Notes:
//   - U is built transposed (row j of ut is column j of U) so both inner
//     sums walk contiguous memory; it is transposed back once at the end.
//   - The pivot search takes the first usable entry at or below the
//     diagonal, not the largest one.
//   - A column without a usable pivot marks the factorization singular:
//     L[i][i] is zero, the U row stays at the identity, Det returns 0 and
//     Solve returns ErrSingular. Nothing is ever divided by a zero pivot.

package matrix

import (
	"math"
)

const (
	opDecompose   = "Decompose"
	opDetPLU      = "DetPLU"
	opSolvePLU    = "SolvePLU"
	opInversePLU  = "InversePLU"
	opPLUSolve    = "PLU.Solve"
	opPermutation = "PLU.Permutation"
)

// PLU holds the factors of P·A = L·U.
type PLU struct {
	// Swaps is the number of row exchanges performed.
	Swaps int
	// Log lists the exchanges as (p, i) pairs in the order applied.
	Log [][2]int
	// L is lower triangular with the pivots on its diagonal.
	L *Dense
	// U is upper triangular with a unit diagonal.
	U *Dense

	singular bool
	opts     Options
}

// Decompose factors a square matrix.
// Implementation, for each column i:
//   - Stage 1: L[j][i] = A[j][i] - Σ_{k<i} L[j][k]·U[k][i] for j >= i.
//   - Stage 2: find the first p >= i with |L[p][i]| > pivot tolerance; swap
//     rows p and i of L and of the working copy of A; log (p, i).
//   - Stage 3: U[i][j] = (A[i][j] - Σ_{k<i} L[i][k]·U[k][j]) / L[i][i] for j > i.
//
// Stages 1 and 3 are spread over the pool (WithPool) in row blocks once
// the remaining size reaches the parallel threshold.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrAllocation.
//   - A singular input is NOT an error here; see Det and Solve.
//
// Complexity:
//   - Time O(n³), Space O(n²) (working copy + two factors).
func Decompose(m Matrix, opts ...Option) (*PLU, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opDecompose, err)
	}
	a, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opDecompose, err)
	}
	if err = ValidateFinite(a); err != nil {
		return nil, matrixErrorf(opDecompose, err)
	}
	o := gatherOptions(opts...)
	n := a.r

	work := a.clone()
	l, err := newDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opDecompose, err)
	}
	ut, err := newDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opDecompose, err)
	}
	for i := 0; i < n; i++ {
		ut.rows[i][i] = 1
	}

	// A NaN pivot from overflow is kept rather than skipped, so it shows
	// up in Det instead of a silent 0.
	usable := func(v float64) bool { return v != 0 && !(math.Abs(v) <= o.pivotTol) }
	res := &PLU{L: l, opts: o}

	for i := 0; i < n; i++ {
		// Stage 1: column i of L.
		uti := ut.rows[i]
		err = o.forRows(i, n, func(start, end int) {
			for j := start; j < end; j++ {
				lj := l.rows[j]
				var sum float64
				for k := 0; k < i; k++ {
					sum += lj[k] * uti[k]
				}
				lj[i] = work.rows[j][i] - sum
			}
		})
		if err != nil {
			return nil, matrixErrorf(opDecompose, err)
		}

		// Stage 2: pivot.
		p := i
		for p < n && !usable(l.rows[p][i]) {
			p++
		}
		if p == n {
			l.rows[i][i] = 0
			res.singular = true
			continue
		}
		if p != i {
			l.rows[p], l.rows[i] = l.rows[i], l.rows[p]
			work.rows[p], work.rows[i] = work.rows[i], work.rows[p]
			res.Swaps++
			res.Log = append(res.Log, [2]int{p, i})
		}

		// Stage 3: row i of U, stored as column i of ut.
		li, wi := l.rows[i], work.rows[i]
		pivot := li[i]
		err = o.forRows(i+1, n, func(start, end int) {
			for j := start; j < end; j++ {
				utj := ut.rows[j]
				var sum float64
				for k := 0; k < i; k++ {
					sum += li[k] * utj[k]
				}
				utj[i] = (wi[j] - sum) / pivot
			}
		})
		if err != nil {
			return nil, matrixErrorf(opDecompose, err)
		}
	}

	res.U, err = newDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opDecompose, err)
	}
	transposeRows(res.U, ut, 0, n, o.block)

	return res, nil
}

// Singular reports whether a column had no usable pivot.
func (f *PLU) Singular() bool { return f.singular }

// Det returns (-1)^Swaps · Π L[i][i] (0 for a singular factorization).
func (f *PLU) Det() float64 {
	if f.singular {
		return 0
	}
	det := 1.0
	for i, row := range f.L.rows {
		det *= row[i]
	}
	if f.Swaps%2 == 1 {
		det = -det
	}

	return det
}

// Permutation returns P with P·A = L·U, built by replaying Log on the identity.
func (f *PLU) Permutation() (*Dense, error) {
	p, err := NewIdentity(f.L.r)
	if err != nil {
		return nil, matrixErrorf(opPermutation, err)
	}
	for _, s := range f.Log {
		p.rows[s[0]], p.rows[s[1]] = p.rows[s[1]], p.rows[s[0]]
	}

	return p, nil
}

// Solve returns X with A·X = b.
// Implementation:
//   - Stage 1: copy b and replay the logged swaps on it, in order.
//   - Stage 2: forward substitution L·Z = P·b.
//   - Stage 3: back substitution U·X = Z.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf, ErrSingular.
func (f *PLU) Solve(b Matrix) (*Dense, error) {
	if err := ValidateRHS(b, f.L.r); err != nil {
		return nil, matrixErrorf(opPLUSolve, err)
	}
	if f.singular {
		return nil, matrixErrorf(opPLUSolve, ErrSingular)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opPLUSolve, err)
	}
	if err = ValidateFinite(db); err != nil {
		return nil, matrixErrorf(opPLUSolve, err)
	}
	pb := db.clone()
	for _, s := range f.Log {
		pb.rows[s[0]], pb.rows[s[1]] = pb.rows[s[1]], pb.rows[s[0]]
	}

	z, err := solveTriangular(f.L, pb, true, &f.opts)
	if err != nil {
		return nil, matrixErrorf(opPLUSolve, err)
	}
	x, err := solveTriangular(f.U, z, false, &f.opts)
	if err != nil {
		return nil, matrixErrorf(opPLUSolve, err)
	}

	return x, nil
}

// DetPLU returns det(m) via PLU.
func DetPLU(m Matrix, opts ...Option) (float64, error) {
	f, err := Decompose(m, opts...)
	if err != nil {
		return 0, matrixErrorf(opDetPLU, err)
	}

	return f.Det(), nil
}

// SolvePLU solves m·X = b via PLU.
func SolvePLU(m, b Matrix, opts ...Option) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSolvePLU, err)
	}
	if err := ValidateRHS(b, m.Rows()); err != nil {
		return nil, matrixErrorf(opSolvePLU, err)
	}
	f, err := Decompose(m, opts...)
	if err != nil {
		return nil, matrixErrorf(opSolvePLU, err)
	}
	x, err := f.Solve(b)
	if err != nil {
		return nil, matrixErrorf(opSolvePLU, err)
	}

	return x, nil
}

// InversePLU returns m⁻¹ by solving against the identity.
func InversePLU(m Matrix, opts ...Option) (*Dense, error) {
	f, err := Decompose(m, opts...)
	if err != nil {
		return nil, matrixErrorf(opInversePLU, err)
	}
	id, err := NewIdentity(f.L.r)
	if err != nil {
		return nil, matrixErrorf(opInversePLU, err)
	}
	inv, err := f.Solve(id)
	if err != nil {
		return nil, matrixErrorf(opInversePLU, err)
	}

	return inv, nil
}
