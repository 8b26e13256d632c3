// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/katalvlaran/linalg/pool"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestSolveLowerUpperKnown(t *testing.T) {
	// The other triangle holds junk that must be ignored.
	lower := mustRows(t, [][]float64{{2, 99}, {1, 4}})
	x, err := matrix.SolveLower(lower, mustRows(t, [][]float64{{2}, {9}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1}, {2}}, x.RawRows())

	upper := mustRows(t, [][]float64{{2, 1}, {-7, 4}})
	x, err = matrix.SolveUpper(upper, mustRows(t, [][]float64{{4}, {8}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1}, {2}}, x.RawRows())
}

// triangularFixture returns a well-conditioned triangle of size n.
func triangularFixture(t *testing.T, n int, lower bool, seed uint64) *matrix.Dense {
	t.Helper()
	m, err := matrix.Random(n, n, newRNG(seed))
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case i == j:
				v, _ := m.At(i, j)
				require.NoError(t, m.Set(i, j, 10+math.Abs(v)))
			case (j > i) == lower:
				require.NoError(t, m.Set(i, j, 0))
			}
		}
	}

	return m
}

func TestSolveTriangularResidual(t *testing.T) {
	for _, lower := range []bool{true, false} {
		a := triangularFixture(t, 33, lower, 12)
		b, err := matrix.Random(33, 4, newRNG(13))
		require.NoError(t, err)

		solve := matrix.SolveUpper
		if lower {
			solve = matrix.SolveLower
		}
		x, err := solve(a, b)
		require.NoError(t, err)
		ax, err := matrix.Mul(a, x)
		require.NoError(t, err)
		requireClose(t, b, ax, 1e-9)

		// block size never changes the arithmetic
		xb, err := solve(a, b, matrix.WithBlockSize(3))
		require.NoError(t, err)
		require.Equal(t, x.RawRows(), xb.RawRows(), "lower=%v", lower)
	}
}

func TestSolveTriangularSingular(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 0}, {3, 0}})
	_, err := matrix.SolveLower(a, mustDense(t, 2, 1))
	require.ErrorIs(t, err, matrix.ErrSingular)
	_, err = matrix.SolveUpper(a, mustDense(t, 2, 1))
	require.ErrorIs(t, err, matrix.ErrSingular)

	tiny := mustRows(t, [][]float64{{1e-14, 0}, {0, 1}})
	_, err = matrix.SolveLower(tiny, mustDense(t, 2, 1))
	require.NoError(t, err, "exact test accepts a tiny diagonal")
	_, err = matrix.SolveLower(tiny, mustDense(t, 2, 1), matrix.WithSingularTolerance(1e-12))
	require.ErrorIs(t, err, matrix.ErrSingular)

	// overflow to ±Inf is reported as singular
	over := mustRows(t, [][]float64{{1e-300, 0}, {1, 1}})
	_, err = matrix.SolveLower(over, mustRows(t, [][]float64{{1e300}, {0}}))
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestSolveTriangularValidation(t *testing.T) {
	_, err := matrix.SolveLower(mustDense(t, 2, 3), mustDense(t, 2, 1))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
	_, err = matrix.SolveUpper(identity(t, 2), mustDense(t, 3, 1))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.SolveUpper(nil, identity(t, 2))
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// Columns solved on the pool match the inline solve exactly.
func TestSolveTriangularWithPool(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p, err := pool.New(4, pool.WithLogger(logger))
	require.NoError(t, err)
	defer p.Close()

	a := triangularFixture(t, 20, true, 21)
	b, err := matrix.Random(20, 40, newRNG(22))
	require.NoError(t, err)

	seq, err := matrix.SolveLower(a, b)
	require.NoError(t, err)
	par, err := matrix.SolveLower(hide{a}, b, matrix.WithPool(p), matrix.WithParallelThreshold(4), matrix.WithBlockSize(3))
	require.NoError(t, err)
	require.Equal(t, seq.RawRows(), par.RawRows())
}

func TestTriangularRejectsNonFinite(t *testing.T) {
	b := mustRows(t, [][]float64{{1}, {1}})
	_, err := matrix.SolveLower(mustRows(t, [][]float64{{math.NaN(), 0}, {1, 1}}), b)
	require.ErrorIs(t, err, matrix.ErrNaNInf)
	_, err = matrix.SolveUpper(identity(t, 2), mustRows(t, [][]float64{{math.Inf(1)}, {0}}))
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}
