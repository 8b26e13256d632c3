// SPDX-License-Identifier: MIT

// Package matrix: cofactor-expansion ("raw") methods.
//
// These are the textbook definitions: determinant by Laplace expansion
// along the first row, inverse as adjugate/det. They cost O(n!) and exist
// as an independent reference for the factorization-based paths on small
// matrices; do not use them beyond n ≈ 10.
package matrix

const (
	opDetRaw     = "DetRaw"
	opCofactor   = "Cofactor"
	opAdjugate   = "Adjugate"
	opInverseRaw = "InverseRaw"
	opSolveRaw   = "SolveRaw"
)

// DetRaw returns det(m) by cofactor expansion.
func DetRaw(m Matrix) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opDetRaw, err)
	}
	d, err := asDense(m)
	if err != nil {
		return 0, matrixErrorf(opDetRaw, err)
	}

	return laplace(d.rows), nil
}

// laplace expands along row 0. rows is never modified.
func laplace(rows [][]float64) float64 {
	n := len(rows)
	switch n {
	case 0:
		return 1
	case 1:
		return rows[0][0]
	case 2:
		return rows[0][0]*rows[1][1] - rows[0][1]*rows[1][0]
	}
	var det float64
	sign := 1.0
	for j, v := range rows[0] {
		if v != 0 {
			det += sign * v * laplace(minor(rows, 0, j))
		}
		sign = -sign
	}

	return det
}

// minor returns rows without row r and column c (fresh storage).
func minor(rows [][]float64, r, c int) [][]float64 {
	n := len(rows)
	out := make([][]float64, 0, n-1)
	for i, row := range rows {
		if i == r {
			continue
		}
		nr := make([]float64, 0, n-1)
		nr = append(nr, row[:c]...)
		nr = append(nr, row[c+1:]...)
		out = append(out, nr)
	}

	return out
}

// Cofactor returns the cofactor matrix C[i][j] = (-1)^(i+j)·det(minor(i,j)).
func Cofactor(m Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opCofactor, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opCofactor, err)
	}
	res, err := newDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opCofactor, err)
	}
	for i := 0; i < d.r; i++ {
		for j := 0; j < d.c; j++ {
			v := laplace(minor(d.rows, i, j))
			if (i+j)%2 == 1 {
				v = -v
			}
			res.rows[i][j] = v
		}
	}

	return res, nil
}

// Adjugate returns the transposed cofactor matrix.
func Adjugate(m Matrix) (*Dense, error) {
	c, err := Cofactor(m)
	if err != nil {
		return nil, matrixErrorf(opAdjugate, err)
	}

	return Transpose(c)
}

// InverseRaw returns adj(m)/det(m); ErrSingular when det(m) == 0.
func InverseRaw(m Matrix) (*Dense, error) {
	det, err := DetRaw(m)
	if err != nil {
		return nil, matrixErrorf(opInverseRaw, err)
	}
	if det == 0 {
		return nil, matrixErrorf(opInverseRaw, ErrSingular)
	}
	adj, err := Adjugate(m)
	if err != nil {
		return nil, matrixErrorf(opInverseRaw, err)
	}

	return Scale(adj, 1/det)
}

// SolveRaw returns InverseRaw(m)·b.
func SolveRaw(m, b Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSolveRaw, err)
	}
	if err := ValidateRHS(b, m.Rows()); err != nil {
		return nil, matrixErrorf(opSolveRaw, err)
	}
	inv, err := InverseRaw(m)
	if err != nil {
		return nil, matrixErrorf(opSolveRaw, err)
	}

	return Mul(inv, b)
}
