// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. Kernels return these sentinels (optionally wrapped with an
// operation tag via matrixErrorf) and tests match them with errors.Is.
// Nothing in the package panics on user-triggered conditions; panics are
// reserved for nonsensical option values (programmer error).

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for easy grepping. Kernels
// wrap with the operation tag at the detection site, e.g.
// "DetPLU: matrix: matrix is not square".
//
// ERROR PRIORITY (enforced in tests):
// nil -> shape -> dimension mismatch -> non-finite -> structural (symmetry) -> numeric (singular).

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set/SwapRows/Row) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes, e.g. Add on
	// different shapes, Mul where a.Cols != b.Rows, or a right-hand side whose
	// row count differs from the system size.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// under the configured tolerance (exact equality by default).
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric")

	// ErrSingular is returned when a zero pivot (or zero triangular diagonal)
	// makes a solve or inverse impossible. Determinants report 0 instead.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrNotPositiveDefinite is returned by the Cholesky path under
	// WithStrictPositiveDefinite when a radicand is not strictly positive.
	ErrNotPositiveDefinite = errors.New("matrix: matrix is not positive definite")

	// ErrNaNInf signals a NaN or ±Inf value where the numeric policy requires
	// finite values (Set under validation, and every factorization or
	// triangular solve input).
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrAllocation indicates that backing storage could not be obtained
	// (shape overflow or a runtime allocation failure).
	ErrAllocation = errors.New("matrix: allocation failed")

	// ErrBadPower is returned by Pow for exponents below 1.
	ErrBadPower = errors.New("matrix: power must be >= 1")

	// ErrParse wraps malformed text input (Parse/ReadFile).
	ErrParse = errors.New("matrix: parse error")
)

// matrixErrorf prefixes err with an operation tag, preserving the sentinel.
// Tags are constants declared next to the kernels that use them.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
