// SPDX-License-Identifier: MIT

// Package matrix: pool-backed variants of Mul and Transpose.
//
// Partitioning:
//   - The output is split into row blocks of BlockSize() rows (Mul) or the
//     source into row blocks whose images are disjoint column strips of the
//     result (Transpose). Each block start is queued as one indexed work
//     item; no two items write the same cell, so the shared result needs no
//     locking.
//   - Each block runs the same row kernel as the sequential path, so the
//     results are bit-identical.
package matrix

import (
	"github.com/katalvlaran/linalg/pool"
)

const (
	opMulParallel       = "MulParallel"
	opTransposeParallel = "TransposeParallel"
)

// MulParallel returns a·b, distributing row blocks of the result over p.
// With a nil pool, or fewer than DefaultParallelThreshold result rows, it
// runs Mul inline.
//
// The pool's Wait is used as the barrier, so it also waits for unrelated
// work other goroutines queued on the same pool.
func MulParallel(p *pool.Pool, a, b Matrix) (*Dense, error) {
	da, db, res, err := prepareMul(a, b)
	if err != nil {
		return nil, err
	}
	if p == nil || da.r < DefaultParallelThreshold {
		mulRows(res, da, db, 0, da.r)
		return res, nil
	}
	err = p.ParallelFor(da.r, BlockSize(), func(start, end int) {
		mulRows(res, da, db, start, end)
	})
	if err != nil {
		return nil, matrixErrorf(opMulParallel, err)
	}

	return res, nil
}

// TransposeParallel returns mᵀ using p for source row blocks.
func TransposeParallel(p *pool.Pool, m Matrix) (*Dense, error) {
	d, res, err := prepareTranspose(m)
	if err != nil {
		return nil, err
	}
	bs := BlockSize()
	if p == nil || d.r < DefaultParallelThreshold {
		transposeRows(res, d, 0, d.r, bs)
		return res, nil
	}
	err = p.ParallelFor(d.r, bs, func(start, end int) {
		transposeRows(res, d, start, end, bs)
	})
	if err != nil {
		return nil, matrixErrorf(opTransposeParallel, err)
	}

	return res, nil
}

// forRows runs fn over [from, to) either inline or in pool row blocks,
// depending on the options. Indices passed to fn are absolute.
func (o *Options) forRows(from, to int, fn func(start, end int)) error {
	n := to - from
	if n <= 0 {
		return nil
	}
	if !o.parallel(n) {
		fn(from, to)
		return nil
	}

	return o.pool.ParallelFor(n, o.block, func(start, end int) {
		fn(from+start, from+end)
	})
}
