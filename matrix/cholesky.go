// SPDX-License-Identifier: MIT
// Package matrix: Cholesky factorization A = L·Lᵗ for symmetric A.
//
// The factor is complex-valued. For a positive-definite input every
// radicand is positive and the imaginary parts stay zero. For a symmetric
// input that is not positive definite, a negative radicand yields an
// imaginary root instead of an error, and determinant/solve results are
// still produced from the real part. Such results are only meaningful when
// the imaginary contributions cancel; WithStrictPositiveDefinite rejects
// those inputs up front with ErrNotPositiveDefinite.
//
// Symmetry is checked exactly by default (WithSymmetryTolerance relaxes it).

package matrix

import (
	"math/cmplx"
)

const (
	opDetCholesky     = "DetCholesky"
	opSolveCholesky   = "SolveCholesky"
	opInverseCholesky = "InverseCholesky"
)

// cholesky is the complex lower factor plus its bookkeeping.
type cholesky struct {
	l        [][]complex128
	singular bool
	opts     Options
}

// factorCholesky computes L row by row:
//
//	L[i][i] = sqrt(A[i][i] - Σ_{k<i} L[i][k]²)
//	L[j][i] = (A[i][j] - Σ_{k<i} L[i][k]·L[j][k]) / L[i][i],  j > i
//
// A zero diagonal root marks the factor singular and leaves the column
// below it at zero.
func factorCholesky(tag string, m Matrix, opts []Option) (*cholesky, error) {
	o := gatherOptions(opts...)
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	if err := ValidateFinite(m); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	if err := ValidateSymmetric(m, o.symTol); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	a, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	n := a.r

	backing := make([]complex128, n*n)
	l := make([][]complex128, n)
	for i := range l {
		l[i] = backing[i*n : (i+1)*n : (i+1)*n]
	}
	f := &cholesky{l: l, opts: o}

	for i := 0; i < n; i++ {
		li := l[i]
		var sq complex128
		for k := 0; k < i; k++ {
			sq += li[k] * li[k]
		}
		rad := complex(a.rows[i][i], 0) - sq
		if o.strictPD && (imag(rad) != 0 || real(rad) <= 0) {
			return nil, matrixErrorf(tag, ErrNotPositiveDefinite)
		}
		d := cmplx.Sqrt(rad)
		li[i] = d
		if d == 0 {
			f.singular = true
			continue
		}

		ai := a.rows[i]
		err = o.forRows(i+1, n, func(start, end int) {
			for j := start; j < end; j++ {
				lj := l[j]
				var sum complex128
				for k := 0; k < i; k++ {
					sum += li[k] * lj[k]
				}
				lj[i] = (complex(ai[j], 0) - sum) / d
			}
		})
		if err != nil {
			return nil, matrixErrorf(tag, err)
		}
	}

	return f, nil
}

// det returns real((Π L[i][i])²).
func (f *cholesky) det() float64 {
	prod := complex(1, 0)
	for i, row := range f.l {
		prod *= row[i]
	}

	return real(prod * prod)
}

// solve returns the real part of X with L·Lᵗ·X = b.
func (f *cholesky) solve(b *Dense) (*Dense, error) {
	if f.singular {
		return nil, ErrSingular
	}
	n := len(f.l)

	// Lᵗ rows for the back substitution.
	ltBacking := make([]complex128, n*n)
	lt := make([][]complex128, n)
	for i := range lt {
		lt[i] = ltBacking[i*n : (i+1)*n : (i+1)*n]
	}
	for i, row := range f.l {
		for k := 0; k <= i; k++ {
			lt[k][i] = row[k]
		}
	}

	// Right-hand-side columns as contiguous complex slices.
	btBacking := make([]complex128, b.c*n)
	bt := make([][]complex128, b.c)
	for c := range bt {
		bt[c] = btBacking[c*n : (c+1)*n : (c+1)*n]
	}
	for r, row := range b.rows {
		for c, v := range row {
			bt[c][r] = complex(v, 0)
		}
	}

	if err := solveTriangularComplex(f.l, bt, true, &f.opts); err != nil {
		return nil, err
	}
	if err := solveTriangularComplex(lt, bt, false, &f.opts); err != nil {
		return nil, err
	}

	x, err := newDense(n, b.c)
	if err != nil {
		return nil, err
	}
	for c, col := range bt {
		for r, v := range col {
			re := real(v)
			if isNonFinite(re) {
				return nil, ErrSingular
			}
			x.rows[r][c] = re
		}
	}

	return x, nil
}

// DetCholesky returns det(m) = real((Π L[i][i])²).
// Errors: ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrAsymmetry, ErrNotPositiveDefinite (strict).
func DetCholesky(m Matrix, opts ...Option) (float64, error) {
	f, err := factorCholesky(opDetCholesky, m, opts)
	if err != nil {
		return 0, err
	}

	return f.det(), nil
}

// SolveCholesky solves m·X = b for symmetric m.
func SolveCholesky(m, b Matrix, opts ...Option) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSolveCholesky, err)
	}
	if err := ValidateRHS(b, m.Rows()); err != nil {
		return nil, matrixErrorf(opSolveCholesky, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opSolveCholesky, err)
	}
	if err = ValidateFinite(db); err != nil {
		return nil, matrixErrorf(opSolveCholesky, err)
	}
	f, err := factorCholesky(opSolveCholesky, m, opts)
	if err != nil {
		return nil, err
	}
	x, err := f.solve(db)
	if err != nil {
		return nil, matrixErrorf(opSolveCholesky, err)
	}

	return x, nil
}

// InverseCholesky returns m⁻¹ for symmetric m.
func InverseCholesky(m Matrix, opts ...Option) (*Dense, error) {
	f, err := factorCholesky(opInverseCholesky, m, opts)
	if err != nil {
		return nil, err
	}
	id, err := NewIdentity(len(f.l))
	if err != nil {
		return nil, matrixErrorf(opInverseCholesky, err)
	}
	inv, err := f.solve(id)
	if err != nil {
		return nil, matrixErrorf(opInverseCholesky, err)
	}

	return inv, nil
}
