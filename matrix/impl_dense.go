// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row handles over one buffer) & safe accessors.
//
// Purpose:
//   - Keep one contiguous backing buffer for locality, but address it through
//     per-row slice handles so a row swap is a handle swap (O(1)), which is
//     what partial pivoting does at every step.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Enforce a numeric policy (optional rejection of NaN/Inf) in Set.
//
// AI-Hints:
//   - Kernels inside the package read m.rows[i][j] directly; never cache
//     &m.data[i*c] since handles may have been permuted.
//   - Clone re-packs rows in their current (possibly swapped) order.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set/SwapRows: O(1); Clone: O(r*c).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt       = "At"
	ctxSet      = "Set"
	ctxSwapRows = "SwapRows"
	ctxRow      = "Row"
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Format: "Dense.<method>(row,col): %w".
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete r×c matrix.
//   - data is a flat buffer of length r*c.
//   - rows[i] is a length-c window into data; rows may be permuted by
//     SwapRows, so the logical row i lives at rows[i], not at data[i*c:].
type Dense struct {
	r, c           int
	rows           [][]float64
	data           []float64
	validateNaNInf bool
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix.
// MAIN DESCRIPTION:
//   - Public constructor with strict shape validation and default numeric policy.
//
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: allocate the zero-filled buffer (ErrAllocation on overflow or
//     a runtime allocation failure).
//   - Stage 3: carve row handles.
//
// Errors:
//   - ErrInvalidDimensions, ErrAllocation.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return newDense(rows, cols)
}

// newDense allocates without the public shape check (callers validated).
func newDense(rows, cols int) (*Dense, error) {
	if cols > 0 && rows > math.MaxInt/cols {
		return nil, ErrAllocation
	}
	buf, err := allocate(rows * cols)
	if err != nil {
		return nil, err
	}
	m := &Dense{
		r:              rows,
		c:              cols,
		rows:           make([][]float64, rows),
		data:           buf,
		validateNaNInf: DefaultValidateNaNInf,
	}
	for i := range m.rows {
		m.rows[i] = buf[i*cols : (i+1)*cols : (i+1)*cols]
	}

	return m, nil
}

// allocate converts a runtime allocation panic (e.g. "makeslice: len out of
// range") into ErrAllocation.
func allocate(n int) (buf []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()

	return make([]float64, n), nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// IsSquare reports rows == cols.
func (m *Dense) IsSquare() bool { return m.r == m.c }

func (m *Dense) inBounds(row, col int) bool {
	return row >= 0 && row < m.r && col >= 0 && col < m.c
}

// At returns the element at (row, col) or ErrOutOfRange.
func (m *Dense) At(row, col int) (float64, error) {
	if !m.inBounds(row, col) {
		return 0, denseErrorf(ctxAt, row, col, ErrOutOfRange)
	}

	return m.rows[row][col], nil
}

// Set writes v at (row, col).
// Errors:
//   - ErrOutOfRange for bad indices.
//   - ErrNaNInf when v is not finite and the matrix validates values.
func (m *Dense) Set(row, col int, v float64) error {
	if !m.inBounds(row, col) {
		return denseErrorf(ctxSet, row, col, ErrOutOfRange)
	}
	if m.validateNaNInf && isNonFinite(v) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.rows[row][col] = v

	return nil
}

// SetValidateNaNInf toggles the finite-value policy of Set.
func (m *Dense) SetValidateNaNInf(on bool) { m.validateNaNInf = on }

// SwapRows exchanges rows i and j by swapping their handles.
// Implementation:
//   - Stage 1: bounds check both indices.
//   - Stage 2: swap rows[i] and rows[j]; no element is copied.
//
// Complexity:
//   - Time O(1), Space O(1).
func (m *Dense) SwapRows(i, j int) error {
	if i < 0 || i >= m.r || j < 0 || j >= m.r {
		return denseErrorf(ctxSwapRows, i, j, ErrOutOfRange)
	}
	m.rows[i], m.rows[j] = m.rows[j], m.rows[i]

	return nil
}

// Row returns a copy of row i.
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, denseErrorf(ctxRow, i, 0, ErrOutOfRange)
	}

	return append([]float64(nil), m.rows[i]...), nil
}

// RawRows returns a deep copy of the contents as [][]float64.
func (m *Dense) RawRows() [][]float64 {
	out := make([][]float64, m.r)
	for i, row := range m.rows {
		out[i] = append([]float64(nil), row...)
	}

	return out
}

// Clone returns a deep copy packed in the current logical row order.
func (m *Dense) Clone() Matrix { return m.clone() }

func (m *Dense) clone() *Dense {
	out := m.zerosLike()
	for i, row := range m.rows {
		copy(out.rows[i], row)
	}
	out.validateNaNInf = m.validateNaNInf

	return out
}

// zerosLike returns an r×c zero matrix. The shape was allocatable once, so
// a second allocation of the same size is treated as infallible.
func (m *Dense) zerosLike() *Dense {
	out, err := newDense(m.r, m.c)
	if err != nil {
		panic(err)
	}

	return out
}

// String renders the matrix row by row with %g, one row per line.
func (m *Dense) String() string {
	var sb strings.Builder
	_ = writeDense(&sb, m, -1)

	return sb.String()
}

// Do iterates all elements in row-major order; stops if f returns false.
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	for i, row := range m.rows {
		for j, v := range row {
			if !f(i, j, v) {
				return
			}
		}
	}
}

// Apply replaces every element with f(i, j, v).
func (m *Dense) Apply(f func(i, j int, v float64) float64) error {
	for i, row := range m.rows {
		for j, v := range row {
			nv := f(i, j, v)
			if m.validateNaNInf && isNonFinite(nv) {
				return denseErrorf("Apply", i, j, ErrNaNInf)
			}
			row[j] = nv
		}
	}

	return nil
}

func isNonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
