// SPDX-License-Identifier: MIT

// Package matrix: input validators shared by the kernels.
// Every validator returns a sentinel (wrapped with the validator tag) so the
// caller can forward it after adding its own operation tag.
package matrix

import (
	"math"
)

const (
	tagValidateNotNil       = "ValidateNotNil"
	tagValidateSameShape    = "ValidateSameShape"
	tagValidateSquare       = "ValidateSquare"
	tagValidateMul          = "ValidateMulCompatible"
	tagValidateSymmetric    = "ValidateSymmetric"
	tagValidateRHS          = "ValidateRHS"
	tagValidateFinite       = "ValidateFinite"
	tagValidateMaterialized = "asDense"
)

// ValidateNotNil rejects a nil interface and a typed-nil *Dense.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return matrixErrorf(tagValidateNotNil, ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return matrixErrorf(tagValidateNotNil, ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape requires non-nil operands with identical shape.
func ValidateSameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return matrixErrorf(tagValidateSameShape, ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare requires a non-nil square matrix.
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != m.Cols() {
		return matrixErrorf(tagValidateSquare, ErrNonSquare)
	}

	return nil
}

// ValidateMulCompatible requires a.Cols() == b.Rows().
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.Cols() != b.Rows() {
		return matrixErrorf(tagValidateMul, ErrDimensionMismatch)
	}

	return nil
}

// ValidateRHS requires a right-hand side with n rows.
func ValidateRHS(b Matrix, n int) error {
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if b.Rows() != n {
		return matrixErrorf(tagValidateRHS, ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects a matrix holding NaN or ±Inf. Matrices built by
// NewFromRows or Parse are not screened on construction, so the
// factorizations run this before touching any value.
func ValidateFinite(m Matrix) error {
	d, err := asDense(m)
	if err != nil {
		return err
	}
	for _, row := range d.rows {
		for _, v := range row {
			if isNonFinite(v) {
				return matrixErrorf(tagValidateFinite, ErrNaNInf)
			}
		}
	}

	return nil
}

// ValidateSymmetric requires a square matrix with |m[i][j]-m[j][i]| <= tol
// for every pair. With tol == 0 this is exact equality.
// Stage 1: square check (ErrNonSquare).
// Stage 2: upper-triangle scan (ErrAsymmetry on first violation).
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	d, err := asDense(m)
	if err != nil {
		return err
	}
	n := d.r
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := d.rows[i][j], d.rows[j][i]
			if a == b {
				continue
			}
			if tol == 0 || !(math.Abs(a-b) <= tol) {
				return matrixErrorf(tagValidateSymmetric, ErrAsymmetry)
			}
		}
	}

	return nil
}

// asDense returns m itself when it already is a *Dense, otherwise a
// materialized copy. Callers treat the result as read-only.
func asDense(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	if m.Rows() <= 0 || m.Cols() <= 0 {
		return nil, matrixErrorf(tagValidateMaterialized, ErrInvalidDimensions)
	}
	out, err := newDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.r; i++ {
		for j := 0; j < out.c; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(tagValidateMaterialized, err)
			}
			out.rows[i][j] = v
		}
	}

	return out, nil
}
