// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/katalvlaran/linalg/pool"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCholeskyWorkedExample(t *testing.T) {
	a := mustRows(t, [][]float64{
		{4, 12, -16},
		{12, 37, -43},
		{-16, -43, 98},
	})

	det, err := matrix.DetCholesky(a)
	require.NoError(t, err)
	assert.Equal(t, 36.0, det)

	// A·[1,1,1]ᵗ = [0,6,39]ᵗ
	b := mustRows(t, [][]float64{{0}, {6}, {39}})
	x, err := matrix.SolveCholesky(a, b)
	require.NoError(t, err)
	requireClose(t, mustRows(t, [][]float64{{1}, {1}, {1}}), x, 1e-12)
}

// Cholesky and PLU agree on SPD inputs.
func TestCholeskyMatchesPLU(t *testing.T) {
	for _, n := range []int{1, 2, 5, 10, 25} {
		a := randomSPD(t, n, uint64(100+n))

		dc, err := matrix.DetCholesky(a, matrix.WithStrictPositiveDefinite())
		require.NoError(t, err)
		dp, err := matrix.DetPLU(a)
		require.NoError(t, err)
		require.InEpsilon(t, dp, dc, 2e-3, "n=%d", n)

		ic, err := matrix.InverseCholesky(a)
		require.NoError(t, err)
		prod, err := matrix.Mul(a, ic)
		require.NoError(t, err)
		requireClose(t, identity(t, n), prod, 1e-9)
	}
}

func TestSolveCholeskyMultipleColumns(t *testing.T) {
	a := randomSPD(t, 12, 4)
	b, err := matrix.Random(12, 5, newRNG(5))
	require.NoError(t, err)

	x, err := matrix.SolveCholesky(a, b)
	require.NoError(t, err)
	ax, err := matrix.Mul(a, x)
	require.NoError(t, err)
	requireClose(t, b, ax, 1e-9)

	xp, err := matrix.SolvePLU(a, b)
	require.NoError(t, err)
	requireClose(t, xp, x, 1e-9)
}

// Indefinite symmetric input still solves through the complex factor.
func TestCholeskyIndefiniteTolerated(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {2, 1}})

	det, err := matrix.DetCholesky(a)
	require.NoError(t, err)
	assert.InDelta(t, -3.0, det, 1e-12)

	x, err := matrix.SolveCholesky(a, mustRows(t, [][]float64{{3}, {3}}))
	require.NoError(t, err)
	requireClose(t, mustRows(t, [][]float64{{1}, {1}}), x, 1e-12)

	_, err = matrix.DetCholesky(a, matrix.WithStrictPositiveDefinite())
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
	_, err = matrix.InverseCholesky(a, matrix.WithStrictPositiveDefinite())
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
}

func TestCholeskyAsymmetry(t *testing.T) {
	a := mustRows(t, [][]float64{{4, 1}, {1 + 1e-12, 3}})

	_, err := matrix.DetCholesky(a)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)
	_, err = matrix.SolveCholesky(a, mustDense(t, 2, 1))
	require.ErrorIs(t, err, matrix.ErrAsymmetry)
	_, err = matrix.InverseCholesky(a)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)

	det, err := matrix.DetCholesky(a, matrix.WithSymmetryTolerance(1e-9))
	require.NoError(t, err)
	assert.InDelta(t, 11.0, det, 1e-9)
}

// A zero diagonal root: det is 0, solves refuse.
func TestCholeskySingular(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 1}, {1, 1}})

	det, err := matrix.DetCholesky(a)
	require.NoError(t, err)
	assert.Zero(t, det)

	_, err = matrix.InverseCholesky(a)
	require.ErrorIs(t, err, matrix.ErrSingular)
	_, err = matrix.SolveCholesky(a, mustDense(t, 2, 2))
	require.ErrorIs(t, err, matrix.ErrSingular)
}

// Error priority: nil, then shape, then the right-hand side.
func TestCholeskyValidation(t *testing.T) {
	_, err := matrix.DetCholesky(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = matrix.DetCholesky(mustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
	_, err = matrix.SolveCholesky(identity(t, 3), mustDense(t, 2, 1))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.SolveCholesky(identity(t, 3), nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestCholeskyWithPool(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p, err := pool.New(3, pool.WithLogger(logger))
	require.NoError(t, err)
	defer p.Close()

	a := randomSPD(t, 70, 77)
	opts := []matrix.Option{matrix.WithPool(p), matrix.WithParallelThreshold(8), matrix.WithBlockSize(5)}

	seq, err := matrix.InverseCholesky(a)
	require.NoError(t, err)
	par, err := matrix.InverseCholesky(a, opts...)
	require.NoError(t, err)
	require.Equal(t, seq.RawRows(), par.RawRows())

	ds, err := matrix.DetCholesky(a)
	require.NoError(t, err)
	dp, err := matrix.DetCholesky(a, opts...)
	require.NoError(t, err)
	require.Equal(t, ds, dp)
}

func TestCholeskyRejectsNonFinite(t *testing.T) {
	nan := mustRows(t, [][]float64{{math.NaN(), 0}, {0, 1}})
	_, err := matrix.DetCholesky(nan)
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	// off-diagonal NaN is a value problem, not an asymmetry
	off := mustRows(t, [][]float64{{1, math.NaN()}, {math.NaN(), 1}})
	_, err = matrix.InverseCholesky(off)
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.SolveCholesky(identity(t, 2), mustRows(t, [][]float64{{1}, {math.Inf(-1)}}))
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}
