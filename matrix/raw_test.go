// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetRaw(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		want float64
	}{
		{"1x1", [][]float64{{-7}}, -7},
		{"2x2", [][]float64{{2, 1}, {1, 1}}, 1},
		{"3x3 pivoting", [][]float64{{0, 1, 2}, {1, 0, 3}, {4, -3, 8}}, -2},
		{"3x3 singular", [][]float64{{1, 2, 3}, {2, 4, 6}, {1, 0, 1}}, 0},
		{"4x4 diag", [][]float64{{2, 0, 0, 0}, {0, 3, 0, 0}, {0, 0, 4, 0}, {0, 0, 0, 5}}, 120},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			det, err := matrix.DetRaw(mustRows(t, tc.rows))
			require.NoError(t, err)
			assert.Equal(t, tc.want, det)
		})
	}

	_, err := matrix.DetRaw(mustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

// Cofactor expansion agrees with the factorization on small inputs.
func TestRawMatchesPLU(t *testing.T) {
	for n := 1; n <= 6; n++ {
		a := randomInvertible(t, n, uint64(40+n))

		dr, err := matrix.DetRaw(a)
		require.NoError(t, err)
		dp, err := matrix.DetPLU(a)
		require.NoError(t, err)
		require.InEpsilon(t, dr, dp, 1e-9, "n=%d", n)

		ir, err := matrix.InverseRaw(a)
		require.NoError(t, err)
		ip, err := matrix.InversePLU(a)
		require.NoError(t, err)
		requireClose(t, ip, ir, 1e-9)
	}
}

func TestCofactorAdjugate(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})

	c, err := matrix.Cofactor(a)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{4, -3}, {-2, 1}}, c.RawRows())

	adj, err := matrix.Adjugate(a)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{4, -2}, {-3, 1}}, adj.RawRows())
}

func TestInverseRawSingular(t *testing.T) {
	_, err := matrix.InverseRaw(mustRows(t, [][]float64{{1, 2}, {2, 4}}))
	require.ErrorIs(t, err, matrix.ErrSingular)
	_, err = matrix.SolveRaw(mustRows(t, [][]float64{{1, 2}, {2, 4}}), mustDense(t, 2, 1))
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestSolveRaw(t *testing.T) {
	x, err := matrix.SolveRaw(mustRows(t, [][]float64{{2, 1}, {1, 1}}), mustRows(t, [][]float64{{1}, {2}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{-1}, {3}}, x.RawRows())

	_, err = matrix.SolveRaw(identity(t, 2), mustDense(t, 3, 1))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
