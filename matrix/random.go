// SPDX-License-Identifier: MIT

package matrix

import (
	"math/rand/v2"
)

// randomCoeffSpan bounds the magnitude of generated coefficients: each
// value is an integer in (-randomCoeffSpan, randomCoeffSpan).
const randomCoeffSpan = 10

// Random returns an r×c matrix of small random integers in (-10, 10).
// A nil rng draws from the global source; pass a seeded *rand.Rand for
// reproducible matrices.
func Random(r, c int, rng *rand.Rand) (*Dense, error) {
	m, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	for _, row := range m.rows {
		for j := range row {
			row[j] = randomCoeff(rng)
		}
	}

	return m, nil
}

// RandomSymmetric returns an n×n symmetric matrix with the same
// coefficient distribution as Random.
func RandomSymmetric(n int, rng *rand.Rand) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := randomCoeff(rng)
			m.rows[i][j], m.rows[j][i] = v, v
		}
	}

	return m, nil
}

// RandomSPD returns an n×n symmetric positive-definite matrix R·Rᵗ + n·I.
func RandomSPD(n int, rng *rand.Rand) (*Dense, error) {
	r, err := Random(n, n, rng)
	if err != nil {
		return nil, err
	}
	rt, err := Transpose(r)
	if err != nil {
		return nil, err
	}
	spd, err := Mul(r, rt)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		spd.rows[i][i] += float64(n)
	}
	// Exact symmetry: copy the lower triangle over the upper one.
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			spd.rows[j][i] = spd.rows[i][j]
		}
	}

	return spd, nil
}

func randomCoeff(rng *rand.Rand) float64 {
	var v, s int
	if rng == nil {
		v, s = rand.IntN(randomCoeffSpan), rand.IntN(2)
	} else {
		v, s = rng.IntN(randomCoeffSpan), rng.IntN(2)
	}
	if s == 1 {
		v = -v
	}

	return float64(v)
}
