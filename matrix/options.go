// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the decomposition engines
// and the triangular solvers. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Numeric policy:
//   - Every tolerance defaults to 0, i.e. the exact comparisons of the
//     reference algorithms (pivot != 0, A[i][j] == A[j][i], diag != 0).
//     A positive tolerance widens what is rejected or treated as zero and
//     therefore changes which matrices are accepted; it is opt-in.
//   - Parallelism is opt-in via WithPool; results are bit-identical with
//     and without a pool.
package matrix

import (
	"github.com/katalvlaran/linalg/pool"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultPivotTolerance: |pivot| <= tol counts as zero during PLU.
	DefaultPivotTolerance = 0.0

	// DefaultSymmetryTolerance: |A[i][j]-A[j][i]| > tol rejects a Cholesky input.
	DefaultSymmetryTolerance = 0.0

	// DefaultSingularTolerance: |diag| <= tol makes a triangular solve singular.
	DefaultSingularTolerance = 0.0

	// DefaultStrictPositiveDefinite keeps the tolerant complex-root behavior.
	DefaultStrictPositiveDefinite = false

	// DefaultParallelThreshold is the smallest dimension for which a pool
	// is actually used; below it kernels run inline.
	DefaultParallelThreshold = 64

	// DefaultValidateNaNInf toggles finite-value validation in Dense.Set.
	DefaultValidateNaNInf = true
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicToleranceInvalid = "matrix: tolerance must be finite, non-negative"
	panicThresholdInvalid = "matrix: WithParallelThreshold: threshold must be > 0"
	panicBlockInvalid     = "matrix: WithBlockSize: block must be > 0"
)

// ---------- Public option type (functional) ----------

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	pivotTol    float64
	symTol      float64
	singularTol float64
	strictPD    bool

	pool      *pool.Pool
	threshold int
	block     int // 0 selects BlockSize()
}

// WithPivotTolerance sets the PLU pivot tolerance.
// Implementation:
//   - Stage 1: validate tol is finite and ≥ 0.
//   - Stage 2: return a setter writing pivotTol.
//
// Notes:
//   - 0 (default) is the exact zero test; a pivot p is usable iff |p| > tol.
func WithPivotTolerance(tol float64) Option {
	mustTolerance(tol)

	return func(o *Options) { o.pivotTol = tol }
}

// WithSymmetryTolerance sets the Cholesky symmetry tolerance
// (0 = exact equality).
func WithSymmetryTolerance(tol float64) Option {
	mustTolerance(tol)

	return func(o *Options) { o.symTol = tol }
}

// WithSingularTolerance sets the triangular-solve diagonal tolerance.
func WithSingularTolerance(tol float64) Option {
	mustTolerance(tol)

	return func(o *Options) { o.singularTol = tol }
}

// WithStrictPositiveDefinite makes the Cholesky engine fail with
// ErrNotPositiveDefinite instead of continuing with complex roots.
func WithStrictPositiveDefinite() Option {
	return func(o *Options) { o.strictPD = true }
}

// WithPool distributes row blocks of the heavy loops over p.
// A nil pool is ignored. The calling goroutine takes part in every loop,
// so kernels may be called from work already running on p.
func WithPool(p *pool.Pool) Option {
	return func(o *Options) { o.pool = p }
}

// WithParallelThreshold overrides DefaultParallelThreshold.
func WithParallelThreshold(n int) Option {
	if n <= 0 {
		panic(panicThresholdInvalid)
	}

	return func(o *Options) { o.threshold = n }
}

// WithBlockSize overrides the cache-derived block size.
func WithBlockSize(n int) Option {
	if n <= 0 {
		panic(panicBlockInvalid)
	}

	return func(o *Options) { o.block = n }
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		pivotTol:    DefaultPivotTolerance,
		symTol:      DefaultSymmetryTolerance,
		singularTol: DefaultSingularTolerance,
		strictPD:    DefaultStrictPositiveDefinite,
		threshold:   DefaultParallelThreshold,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.block == 0 {
		o.block = BlockSize()
	}

	return o
}

// parallel reports whether a loop of n rows should go through the pool.
func (o *Options) parallel(n int) bool {
	return o.pool != nil && n >= o.threshold
}

func mustTolerance(tol float64) {
	if isNonFinite(tol) || tol < 0 {
		panic(panicToleranceInvalid)
	}
}
