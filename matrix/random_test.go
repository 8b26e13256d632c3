// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/stretchr/testify/require"
)

func TestRandomDeterministicAndBounded(t *testing.T) {
	a, err := matrix.Random(8, 9, newRNG(5))
	require.NoError(t, err)
	b, err := matrix.Random(8, 9, newRNG(5))
	require.NoError(t, err)
	require.Equal(t, a.RawRows(), b.RawRows())

	a.Do(func(_, _ int, v float64) bool {
		require.Equal(t, math.Trunc(v), v)
		require.Less(t, math.Abs(v), 10.0)
		return true
	})

	_, err = matrix.Random(0, 3, nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.Random(3, 3, nil)
	require.NoError(t, err)
}

func TestRandomSymmetricAndSPD(t *testing.T) {
	s, err := matrix.RandomSymmetric(11, newRNG(9))
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(s, 0))

	spd := randomSPD(t, 11, 9)
	require.NoError(t, matrix.ValidateSymmetric(spd, 0))
	_, err = matrix.DetCholesky(spd, matrix.WithStrictPositiveDefinite())
	require.NoError(t, err)
}
