// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures (seeded random matrices, literal
//     matrices) and a gonum oracle for the kernels under test.

package matrix_test

import (
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// relTol is the relative tolerance used for factorization identities.
const relTol = 1e-9

// hide WRAPS any Matrix to hide its concrete type from type assertions,
// forcing the materializing (non-*Dense) path in code under test.
type hide struct{ matrix.Matrix }

// mustRows builds a *Dense from a literal or fails the test.
func mustRows(tb testing.TB, rows [][]float64) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(tb, err)

	return m
}

// mustDense allocates an r×c zero matrix or fails the test.
func mustDense(tb testing.TB, r, c int) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(tb, err)

	return m
}

// newRNG returns a deterministic generator for the given seed.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// randomInvertible draws random n×n matrices until gonum reports a
// comfortably non-singular one.
func randomInvertible(tb testing.TB, n int, seed uint64) *matrix.Dense {
	tb.Helper()
	rng := newRNG(seed)
	for attempt := 0; attempt < 100; attempt++ {
		m, err := matrix.Random(n, n, rng)
		require.NoError(tb, err)
		if n == 1 {
			if v, _ := m.At(0, 0); v != 0 {
				return m
			}
			continue
		}
		if mat.Cond(matrix.ToGonum(m), 1) < 1e4 {
			return m
		}
	}
	tb.Fatalf("no invertible %dx%d matrix found", n, n)

	return nil
}

// randomSPD returns a seeded symmetric positive-definite matrix.
func randomSPD(tb testing.TB, n int, seed uint64) *matrix.Dense {
	tb.Helper()
	m, err := matrix.RandomSPD(n, newRNG(seed))
	require.NoError(tb, err)

	return m
}

// requireClose asserts AllClose(got, want, relTol, atol).
func requireClose(tb testing.TB, want, got matrix.Matrix, atol float64) {
	tb.Helper()
	ok, err := matrix.AllClose(got, want, relTol, atol)
	require.NoError(tb, err)
	if !ok {
		tb.Fatalf("matrices differ:\nwant:\n%v\ngot:\n%v", want, got)
	}
}

// gonumDet is the oracle determinant.
func gonumDet(m *matrix.Dense) float64 { return mat.Det(matrix.ToGonum(m)) }

// gonumInverse is the oracle inverse.
func gonumInverse(tb testing.TB, m *matrix.Dense) *matrix.Dense {
	tb.Helper()
	var inv mat.Dense
	require.NoError(tb, inv.Inverse(matrix.ToGonum(m)))
	out, err := matrix.FromGonum(&inv)
	require.NoError(tb, err)

	return out
}

// identity returns I(n) or fails.
func identity(tb testing.TB, n int) *matrix.Dense {
	tb.Helper()
	id, err := matrix.NewIdentity(n)
	require.NoError(tb, err)

	return id
}
