// SPDX-License-Identifier: MIT

// Package matrix: plain-text matrix format.
//
// Format:
//   - One row per line, coefficients separated by blanks or tabs.
//   - A coefficient is a float or a fraction "num/den".
//   - Blank lines are ignored; shorter rows are zero-padded to the widest.
//
// Write emits the same format (precision > 0) or a bracketed, aligned
// rendering for humans (precision <= 0).
package matrix

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	opParse     = "Parse"
	opReadFile  = "ReadFile"
	opWrite     = "Write"
	opWriteFile = "WriteFile"
)

// prettyZero is the magnitude below which the human rendering prints 0.
const prettyZero = 1e-10

// prettyWidth is the column width of the human rendering.
const prettyWidth = 10

// Parse reads a matrix from r.
// Errors: ErrParse (bad token or no data), I/O errors.
func Parse(r io.Reader) (*Dense, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, matrixErrorf(opParse, err)
	}

	return ParseStrings(lines)
}

// ParseStrings parses one row per element of lines.
func ParseStrings(lines []string) (*Dense, error) {
	var (
		rows  [][]float64
		width int
	)
	for ln, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for j, tok := range fields {
			v, err := parseCoeff(tok)
			if err != nil {
				return nil, matrixErrorf(opParse, fmt.Errorf("line %d, field %d: %w", ln+1, j+1, err))
			}
			row[j] = v
		}
		width = max(width, len(row))
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, matrixErrorf(opParse, fmt.Errorf("%w: no rows", ErrParse))
	}

	m, err := NewDense(len(rows), width)
	if err != nil {
		return nil, matrixErrorf(opParse, err)
	}
	for i, row := range rows {
		copy(m.rows[i], row)
	}

	return m, nil
}

// parseCoeff accepts "x" or "num/den".
func parseCoeff(tok string) (float64, error) {
	num, den, isFrac := strings.Cut(tok, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, tok)
	}
	if !isFrac {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, tok)
	}

	return n / d, nil
}

// ReadFile parses the matrix stored at path.
func ReadFile(path string) (*Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, matrixErrorf(opReadFile, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, matrixErrorf(opReadFile, fmt.Errorf("%s: %w", path, err))
	}

	return m, nil
}

// Write renders m to w. precision > 0 writes "%.*g" coefficients that
// Parse reads back; precision <= 0 writes the aligned human form.
func Write(w io.Writer, m Matrix, precision int) error {
	d, err := asDense(m)
	if err != nil {
		return matrixErrorf(opWrite, err)
	}
	if err = writeDense(w, d, precision); err != nil {
		return matrixErrorf(opWrite, err)
	}

	return nil
}

// WriteFile writes m to path (created or truncated).
func WriteFile(path string, m Matrix, precision int) error {
	f, err := os.Create(path)
	if err != nil {
		return matrixErrorf(opWriteFile, err)
	}
	if err = Write(f, m, precision); err != nil {
		_ = f.Close()
		return matrixErrorf(opWriteFile, err)
	}
	if err = f.Close(); err != nil {
		return matrixErrorf(opWriteFile, err)
	}

	return nil
}

func writeDense(w io.Writer, m *Dense, precision int) error {
	bw := bufio.NewWriter(w)
	for _, row := range m.rows {
		if precision > 0 {
			for j, v := range row {
				if j > 0 {
					_ = bw.WriteByte(' ')
				}
				bw.WriteString(strconv.FormatFloat(v, 'g', precision, 64))
			}
			_ = bw.WriteByte('\n')
			continue
		}

		bw.WriteString("[ ")
		for _, v := range row {
			s := "0"
			if math.Abs(v) >= prettyZero || isNonFinite(v) {
				s = strconv.FormatFloat(v, 'g', 3, 64)
			}
			bw.WriteString(s)
			if pad := prettyWidth - len(s); pad > 0 {
				bw.WriteString(strings.Repeat(" ", pad))
			}
		}
		bw.WriteString("]\n")
	}

	return bw.Flush()
}
