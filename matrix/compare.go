// SPDX-License-Identifier: MIT

package matrix

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

const opDiff = "Diff"

// ANSI escapes used by Diff to highlight mismatching cells.
const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// EqualPrecision reports whether a and b have the same shape and agree to
// within 10^-digits element-wise. A NaN on either side is never equal.
func EqualPrecision(a, b Matrix, digits int) (bool, error) {
	if err := ValidateNotNil(a); err != nil {
		return false, err
	}
	if err := ValidateNotNil(b); err != nil {
		return false, err
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false, nil
	}
	da, err := asDense(a)
	if err != nil {
		return false, err
	}
	db, err := asDense(b)
	if err != nil {
		return false, err
	}
	tol := math.Pow(10, -float64(digits))
	for i := range da.rows {
		for j, va := range da.rows[i] {
			if !withinTol(va, db.rows[i][j], tol) {
				return false, nil
			}
		}
	}

	return true, nil
}

// withinTol is false whenever either side is NaN.
func withinTol(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// Diff writes a and b cell by cell at the given precision, printing
// mismatching cells as "a|b" in red, and reports whether they matched.
// A shape mismatch is reported as ErrDimensionMismatch.
func Diff(w io.Writer, a, b Matrix, digits int) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opDiff, err)
	}
	da, err := asDense(a)
	if err != nil {
		return false, matrixErrorf(opDiff, err)
	}
	db, err := asDense(b)
	if err != nil {
		return false, matrixErrorf(opDiff, err)
	}

	tol := math.Pow(10, -float64(digits))
	same := true
	bw := bufio.NewWriter(w)
	for i := range da.rows {
		for j, va := range da.rows[i] {
			vb := db.rows[i][j]
			if withinTol(va, vb, tol) {
				fmt.Fprintf(bw, "%.*g ", digits, va)
				continue
			}
			same = false
			fmt.Fprintf(bw, "%s%.*g|%.*g%s ", ansiRed, digits, va, digits, vb, ansiReset)
		}
		_ = bw.WriteByte('\n')
	}
	if err = bw.Flush(); err != nil {
		return false, matrixErrorf(opDiff, err)
	}

	return same, nil
}

const opAllClose = "AllClose"

// AllClose reports |a-b| <= atol + rtol·|b| element-wise.
// Negative tolerances are taken by magnitude; NaN/Inf tolerances yield
// ErrNaNInf and shape differences ErrDimensionMismatch.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if isNonFinite(rtol) || isNonFinite(atol) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	da, err := asDense(a)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	db, err := asDense(b)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	for i := range da.rows {
		rb := db.rows[i]
		for j, va := range da.rows[i] {
			if !(math.Abs(va-rb[j]) <= atol+rtol*math.Abs(rb[j])) {
				return false, nil
			}
		}
	}

	return true, nil
}
