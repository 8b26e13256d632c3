// SPDX-License-Identifier: MIT

package matrix

import (
	"gonum.org/v1/gonum/mat"
)

// ToGonum copies m into a new gonum *mat.Dense (row-major, same shape).
func ToGonum(m *Dense) *mat.Dense {
	data := make([]float64, 0, m.r*m.c)
	for _, row := range m.rows {
		data = append(data, row...)
	}

	return mat.NewDense(m.r, m.c, data)
}

// FromGonum copies any gonum matrix into a new Dense.
// Errors: ErrInvalidDimensions for an empty gonum matrix.
func FromGonum(g mat.Matrix) (*Dense, error) {
	r, c := g.Dims()
	m, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	if raw, ok := g.(mat.RawMatrixer); ok {
		blas := raw.RawMatrix()
		for i, row := range m.rows {
			copy(row, blas.Data[i*blas.Stride:i*blas.Stride+c])
		}
		return m, nil
	}
	for i, row := range m.rows {
		for j := range row {
			row[j] = g.At(i, j)
		}
	}

	return m, nil
}
