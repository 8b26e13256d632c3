// SPDX-License-Identifier: MIT

package cli

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/stretchr/testify/require"
)

const spdText = "4 12 -16\n12 37 -43\n-16 -43 98\n"

func TestDetCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "2 1\n1 1\n")
	spd := writeFile(t, dir, "spd.txt", spdText)

	out, err := run(t, "det", a)
	require.NoError(t, err)
	require.Equal(t, "1\n", out)

	for _, m := range []string{"plu", "cholesky", "raw", "CHOLESKY"} {
		out, err = run(t, "det", spd, "--method", m)
		require.NoError(t, err, m)
		require.Equal(t, "36\n", out, m)
	}

	_, err = run(t, "det", a, "--method", "qr")
	require.ErrorContains(t, err, `unknown method "qr"`)
}

func TestInverseAndSolveCommands(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "2 1\n1 1\n")
	b := writeFile(t, dir, "b.txt", "1\n2\n")

	out, err := run(t, "inverse", a, "--precision", "6")
	require.NoError(t, err)
	require.Equal(t, "1 -1\n-1 2\n", out)

	out, err = run(t, "solve", a, b, "--precision", "6")
	require.NoError(t, err)
	require.Equal(t, "-1\n3\n", out)

	out, err = run(t, "solve", a, b, "--method", "raw", "--precision", "6")
	require.NoError(t, err)
	require.Equal(t, "-1\n3\n", out)

	// the aligned view is the default
	out, err = run(t, "solve", a, b)
	require.NoError(t, err)
	require.Equal(t, "[ -1        ]\n[ 3         ]\n", out)

	singular := writeFile(t, dir, "s.txt", "1 2\n2 4\n")
	_, err = run(t, "inverse", singular)
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestMulCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "1 2 3\n4 5 6\n")
	b := writeFile(t, dir, "b.txt", "7 8\n9 10\n11 12\n")

	out, err := run(t, "mul", a, b, "--precision", "6", "--workers", "2")
	require.NoError(t, err)
	require.Equal(t, "58 64\n139 154\n", out)

	_, err = run(t, "mul", a, a)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestArgumentErrors(t *testing.T) {
	_, err := run(t, "det")
	require.Error(t, err)

	_, err = run(t, "det", "/does/not/exist.txt")
	require.Error(t, err)

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.txt", "1 two\n")
	_, err = run(t, "det", bad)
	require.ErrorIs(t, err, matrix.ErrParse)
}

// The config file feeds the same keys as the flags; flags win.
func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	indefinite := writeFile(t, dir, "i.txt", "1 2\n2 1\n")

	out, err := run(t, "det", indefinite, "--method", "cholesky")
	require.NoError(t, err)
	det, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	require.InDelta(t, -3.0, det, 1e-12)

	cfg := writeFile(t, dir, "linalg.yaml", "method: cholesky\nstrict-pd: true\nlog-level: debug\n")
	_, err = run(t, "det", indefinite, "--config", cfg)
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)

	out, err = run(t, "det", indefinite, "--config", cfg, "--method", "plu")
	require.NoError(t, err)
	require.Equal(t, "-3\n", out)

	_, err = run(t, "det", indefinite, "--config", filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "reading config")
}

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	indefinite := writeFile(t, dir, "i.txt", "1 2\n2 1\n")

	t.Setenv("LINALG_METHOD", "cholesky")
	t.Setenv("LINALG_STRICT_PD", "true")
	_, err := run(t, "det", indefinite)
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
}

func TestInvalidSettings(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "2 1\n1 1\n")

	_, err := run(t, "det", a, "--log-level", "loud")
	require.Error(t, err)

	_, err = run(t, "det", a, "--pivot-tol=-1")
	require.ErrorContains(t, err, "--pivot-tol must be finite and >= 0")
}
