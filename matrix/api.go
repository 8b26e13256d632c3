// SPDX-License-Identifier: MIT

// Package matrix: constructors beyond NewDense.
//
// All constructors validate shape first and return ErrInvalidDimensions on
// non-positive sizes.
package matrix

const (
	tagNewPermutation = "NewPermutation"
	tagNewFromRows    = "NewFromRows"
)

// NewZeros is an alias of NewDense.
func NewZeros(rows, cols int) (*Dense, error) { return NewDense(rows, cols) }

// NewIdentity returns the n×n identity matrix.
func NewIdentity(n int) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.rows[i][i] = 1
	}

	return m, nil
}

// NewPermutation returns the n×n identity with rows a and b exchanged.
// Left-multiplying by it swaps rows a and b of the operand.
func NewPermutation(a, b, n int) (*Dense, error) {
	m, err := NewIdentity(n)
	if err != nil {
		return nil, err
	}
	if err = m.SwapRows(a, b); err != nil {
		return nil, matrixErrorf(tagNewPermutation, err)
	}

	return m, nil
}

// NewFromRows copies a rectangular [][]float64 into a new Dense.
// Ragged input yields ErrDimensionMismatch; values are not validated.
func NewFromRows(data [][]float64) (*Dense, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, matrixErrorf(tagNewFromRows, ErrInvalidDimensions)
	}
	c := len(data[0])
	for _, row := range data {
		if len(row) != c {
			return nil, matrixErrorf(tagNewFromRows, ErrDimensionMismatch)
		}
	}
	m, err := NewDense(len(data), c)
	if err != nil {
		return nil, err
	}
	for i, row := range data {
		copy(m.rows[i], row)
	}

	return m, nil
}

// CloneMatrix returns a deep copy (nil for nil).
func CloneMatrix(m Matrix) Matrix {
	if ValidateNotNil(m) != nil {
		return nil
	}

	return m.Clone()
}

// ZerosLike returns a zero matrix with the shape of m.
func ZerosLike(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}

	return NewDense(m.Rows(), m.Cols())
}

// IdentityLike returns the identity with the shape of a square m.
func IdentityLike(m Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, err
	}

	return NewIdentity(m.Rows())
}
