// SPDX-License-Identifier: MIT

package cli

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/stretchr/testify/require"
)

// regressFixture writes a consistent data set to a temp dir and returns
// it with the flags carrying its determinants.
func regressFixture(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()

	a := mustRows(t, [][]float64{
		{4, -2, 1, 3, 0},
		{1, 5, -1, 0, 2},
		{0, 3, 6, -2, 1},
		{2, 0, 1, 7, -3},
		{1, 1, 0, 2, 8},
	})
	sym, err := matrix.RandomSPD(5, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	b := mustRows(t, [][]float64{{1, 0}, {2, 1}, {0, -1}, {3, 2}, {1, 1}})

	must := func(m *matrix.Dense, err error) *matrix.Dense {
		t.Helper()
		require.NoError(t, err)
		return m
	}
	writeMatrix(t, dir, fileMatrix, a)
	writeMatrix(t, dir, fileMatrixSym, sym)
	writeMatrix(t, dir, fileB, b)
	writeMatrix(t, dir, fileMatrixInv, must(matrix.InversePLU(a)))
	writeMatrix(t, dir, fileMatrixSymInv, must(matrix.InverseCholesky(sym)))
	writeMatrix(t, dir, fileX, must(matrix.SolvePLU(a, b)))
	writeMatrix(t, dir, fileXSym, must(matrix.SolveCholesky(sym, b)))
	writeMatrix(t, dir, fileTransp, must(matrix.Transpose(a)))
	writeMatrix(t, dir, fileAdd, must(matrix.Add(a, a)))
	writeMatrix(t, dir, fileMult, must(matrix.Mul(a, a)))
	writeMatrix(t, dir, fileMultScalar, must(matrix.Scale(a, 0.5)))
	writeMatrix(t, dir, filePow, must(matrix.Pow(a, 3)))

	detA, err := matrix.DetPLU(a)
	require.NoError(t, err)
	detSym, err := matrix.DetPLU(sym)
	require.NoError(t, err)
	flags := []string{
		"--digits", "9",
		"--" + keyDetMatrix, strconv.FormatFloat(detA, 'g', -1, 64),
		"--" + keyDetMatrixSym, strconv.FormatFloat(detSym, 'g', -1, 64),
	}

	return dir, flags
}

func TestRegressPasses(t *testing.T) {
	dir, flags := regressFixture(t)

	out, err := run(t, append([]string{"regress", dir, "--workers", "3"}, flags...)...)
	require.NoError(t, err, out)
	require.Equal(t, len(regressCases(nil)), strings.Count(out, "[OK]"))
	require.NotContains(t, out, "[NOK]")

	// results are reported in case order whatever the concurrency
	first := strings.Index(out, "[OK]matrix_det_plu ")
	last := strings.Index(out, "[OK]matrix_pow ")
	require.True(t, first >= 0 && last > first, out)

	_, err = run(t, append([]string{"regress", dir, "--parallel", "0"}, flags...)...)
	require.NoError(t, err)
}

func TestRegressReportsFailures(t *testing.T) {
	dir, flags := regressFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileAdd+".txt"), []byte("0 0 0 0 0\n"), 0o600))

	out, err := run(t, append([]string{"regress", dir}, flags...)...)
	require.ErrorIs(t, err, ErrRegression)
	require.ErrorContains(t, err, "1 of 15 cases")
	require.Contains(t, out, "[NOK]matrix_add")
	require.Contains(t, out, "expected 1x5, got 5x5")

	// a wrong determinant fails only the determinant cases of that input
	bad := make([]string, len(flags))
	copy(bad, flags)
	bad[3] = "1"
	out, err = run(t, append([]string{"regress", dir}, bad...)...)
	require.ErrorIs(t, err, ErrRegression)
	require.Contains(t, out, "[NOK]matrix_det_plu")
	require.Contains(t, out, "[NOK]matrix_det_raw")
	require.Contains(t, out, "[OK]matrix_det_cholesky")
}

func TestRegressMissingData(t *testing.T) {
	dir, flags := regressFixture(t)
	require.NoError(t, os.Remove(filepath.Join(dir, fileB+".txt")))

	_, err := run(t, append([]string{"regress", dir}, flags...)...)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// Mismatching cells show both values.
func TestRunCaseDiffDetail(t *testing.T) {
	data := map[string]*matrix.Dense{
		"in":   mustRows(t, [][]float64{{1, 2}}),
		"want": mustRows(t, [][]float64{{2, 5}}),
	}
	c := regressCase{
		name:   "double",
		inputs: []string{"in"},
		want:   "want",
		calc: func(in []*matrix.Dense, _ []matrix.Option) (*matrix.Dense, error) {
			return matrix.Scale(in[0], 2)
		},
	}
	res := runCase(regressConfig{digits: 6}, c, data)
	require.False(t, res.ok)
	require.Contains(t, res.detail, "5|4")
}
