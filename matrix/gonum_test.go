// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGonumRoundTrip(t *testing.T) {
	m, err := matrix.Random(5, 3, newRNG(1))
	require.NoError(t, err)

	g := matrix.ToGonum(m)
	r, c := g.Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 3, c)

	back, err := matrix.FromGonum(g)
	require.NoError(t, err)
	require.Equal(t, m.RawRows(), back.RawRows())

	// ToGonum copies: later writes do not alias.
	g.Set(0, 0, 1234)
	v, _ := m.At(0, 0)
	require.NotEqual(t, 1234.0, v)
}

// Non-raw gonum matrices go through At.
func TestFromGonumGeneric(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	tr, err := matrix.FromGonum(matrix.ToGonum(m).T())
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, tr.RawRows())

	// a sub-view has a stride wider than its column count
	big := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})
	sub, err := matrix.FromGonum(big.Slice(1, 3, 1, 3))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{6, 7}, {10, 11}}, sub.RawRows())

	_, err = matrix.FromGonum(&mat.Dense{})
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}
