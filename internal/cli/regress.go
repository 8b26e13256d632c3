// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sync"
	"time"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/katalvlaran/linalg/pool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrRegression is returned by the regress command when a case fails.
var ErrRegression = errors.New("linalg: regression failures")

// detRelTol is the relative tolerance of determinant cases.
const detRelTol = 2e-3

const (
	keyDigits       = "digits"
	keyParallel     = "parallel"
	keyDetMatrix    = "det-matrix"
	keyDetMatrixSym = "det-matrix-sym"
)

// Regression data set file stems; each is read from <dir>/<stem>.txt.
const (
	fileMatrix       = "matrix"
	fileMatrixSym    = "matrix_sym"
	fileB            = "B"
	fileMatrixInv    = "matrix_inv"
	fileMatrixSymInv = "matrix_sym_inv"
	fileX            = "X"
	fileXSym         = "X_sym"
	fileTransp       = "matrix_transp"
	fileAdd          = "matrix_add"
	fileMult         = "matrix_mult"
	fileMultScalar   = "matrix_mult_scalar"
	filePow          = "matrix_pow"
)

// regressScalar and regressPower are the fixed operands of the scalar and
// power cases.
const (
	regressScalar = 0.5
	regressPower  = 3
)

// regressCase is one check. Exactly one of det and calc is set: det cases
// compare against an expected determinant, calc cases against the
// matrix stored in want.
type regressCase struct {
	name   string
	inputs []string
	want   string
	det    func(in []*matrix.Dense, opts []matrix.Option) (float64, error)
	calc   func(in []*matrix.Dense, opts []matrix.Option) (*matrix.Dense, error)
}

type regressResult struct {
	name    string
	ok      bool
	elapsed time.Duration
	detail  string
}

// regressCases lists the checks in reporting order.
func regressCases(p *pool.Pool) []regressCase {
	plu, chol, raw := methods["plu"], methods["cholesky"], methods["raw"]
	unary := func(f func(matrix.Matrix, ...matrix.Option) (*matrix.Dense, error)) func([]*matrix.Dense, []matrix.Option) (*matrix.Dense, error) {
		return func(in []*matrix.Dense, opts []matrix.Option) (*matrix.Dense, error) { return f(in[0], opts...) }
	}
	binary := func(f func(matrix.Matrix, matrix.Matrix, ...matrix.Option) (*matrix.Dense, error)) func([]*matrix.Dense, []matrix.Option) (*matrix.Dense, error) {
		return func(in []*matrix.Dense, opts []matrix.Option) (*matrix.Dense, error) { return f(in[0], in[1], opts...) }
	}
	det := func(f func(matrix.Matrix, ...matrix.Option) (float64, error)) func([]*matrix.Dense, []matrix.Option) (float64, error) {
		return func(in []*matrix.Dense, opts []matrix.Option) (float64, error) { return f(in[0], opts...) }
	}

	return []regressCase{
		{name: "matrix_det_plu", inputs: []string{fileMatrix}, det: det(plu.det)},
		{name: "matrix_det_cholesky", inputs: []string{fileMatrixSym}, det: det(chol.det)},
		{name: "matrix_det_raw", inputs: []string{fileMatrix}, det: det(raw.det)},

		{name: "matrix_transp", inputs: []string{fileMatrix}, want: fileTransp,
			calc: func(in []*matrix.Dense, _ []matrix.Option) (*matrix.Dense, error) {
				return matrix.TransposeParallel(p, in[0])
			}},
		{name: "matrix_inverse_plu", inputs: []string{fileMatrix}, want: fileMatrixInv, calc: unary(plu.inverse)},
		{name: "matrix_inverse_cholesky", inputs: []string{fileMatrixSym}, want: fileMatrixSymInv, calc: unary(chol.inverse)},
		{name: "matrix_inverse_raw", inputs: []string{fileMatrix}, want: fileMatrixInv, calc: unary(raw.inverse)},

		{name: "matrix_add", inputs: []string{fileMatrix, fileMatrix}, want: fileAdd,
			calc: func(in []*matrix.Dense, _ []matrix.Option) (*matrix.Dense, error) {
				return matrix.Add(in[0], in[1])
			}},
		{name: "matrix_mult", inputs: []string{fileMatrix, fileMatrix}, want: fileMult,
			calc: func(in []*matrix.Dense, _ []matrix.Option) (*matrix.Dense, error) {
				return matrix.MulParallel(p, in[0], in[1])
			}},
		{name: "matrix_solve_plu", inputs: []string{fileMatrix, fileB}, want: fileX, calc: binary(plu.solve)},
		{name: "matrix_sym_solve_cholesky", inputs: []string{fileMatrixSym, fileB}, want: fileXSym, calc: binary(chol.solve)},
		{name: "matrix_sym_solve_plu", inputs: []string{fileMatrixSym, fileB}, want: fileXSym, calc: binary(plu.solve)},
		{name: "matrix_solve_raw", inputs: []string{fileMatrix, fileB}, want: fileX, calc: binary(raw.solve)},

		{name: "matrix_mult_scalar", inputs: []string{fileMatrix}, want: fileMultScalar,
			calc: func(in []*matrix.Dense, _ []matrix.Option) (*matrix.Dense, error) {
				return matrix.Scale(in[0], regressScalar)
			}},
		{name: "matrix_pow", inputs: []string{fileMatrix}, want: filePow,
			calc: func(in []*matrix.Dense, _ []matrix.Option) (*matrix.Dense, error) {
				return matrix.Pow(in[0], regressPower)
			}},
	}
}

// regressConfig holds what a run needs besides the pool.
type regressConfig struct {
	dir      string
	digits   int
	parallel int
	dets     map[string]float64 // expected determinant per input stem
	opts     []matrix.Option
	log      logrus.FieldLogger
}

// runRegression loads the data set and runs every case, at most
// cfg.parallel at a time. Case failures are reported in the results;
// the error is reserved for unreadable data and cancellation.
func runRegression(ctx context.Context, cfg regressConfig, cases []regressCase) ([]regressResult, error) {
	data, err := loadDataSet(ctx, cfg.dir, cases)
	if err != nil {
		return nil, err
	}

	results := make([]regressResult, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.parallel > 0 {
		g.SetLimit(cfg.parallel)
	}
	for i, c := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runCase(cfg, c, data)
			cfg.log.WithFields(logrus.Fields{
				"case":    c.name,
				"ok":      results[i].ok,
				"elapsed": results[i].elapsed,
			}).Debug("regression case done")

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// loadDataSet reads every file the cases mention, concurrently.
func loadDataSet(ctx context.Context, dir string, cases []regressCase) (map[string]*matrix.Dense, error) {
	stems := make(map[string]struct{})
	for _, c := range cases {
		for _, in := range c.inputs {
			stems[in] = struct{}{}
		}
		if c.want != "" {
			stems[c.want] = struct{}{}
		}
	}

	var mu sync.Mutex
	data := make(map[string]*matrix.Dense, len(stems))
	g, gctx := errgroup.WithContext(ctx)
	for stem := range stems {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := matrix.ReadFile(filepath.Join(dir, stem+".txt"))
			if err != nil {
				return err
			}
			mu.Lock()
			data[stem] = m
			mu.Unlock()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return data, nil
}

func runCase(cfg regressConfig, c regressCase, data map[string]*matrix.Dense) regressResult {
	in := make([]*matrix.Dense, len(c.inputs))
	for i, stem := range c.inputs {
		in[i] = data[stem]
	}
	res := regressResult{name: c.name}
	start := time.Now()

	if c.det != nil {
		got, err := c.det(in, cfg.opts)
		res.elapsed = time.Since(start)
		if err != nil {
			res.detail = err.Error()
			return res
		}
		want := cfg.dets[c.inputs[0]]
		res.ok = math.Abs(got-want) <= detRelTol*math.Abs(want)
		if !res.ok {
			res.detail = fmt.Sprintf("expected: %g\ngot: %g\n", want, got)
		}

		return res
	}

	got, err := c.calc(in, cfg.opts)
	res.elapsed = time.Since(start)
	if err != nil {
		res.detail = err.Error()
		return res
	}
	want := data[c.want]
	if want.Rows() != got.Rows() || want.Cols() != got.Cols() {
		res.detail = fmt.Sprintf("expected %dx%d, got %dx%d", want.Rows(), want.Cols(), got.Rows(), got.Cols())
		return res
	}
	var diff bytes.Buffer
	res.ok, err = matrix.Diff(&diff, want, got, cfg.digits)
	if err != nil {
		res.ok, res.detail = false, err.Error()
		return res
	}
	if !res.ok {
		res.detail = "expected|got:\n" + diff.String()
	}

	return res
}

// reportResults prints one line per case and returns the failure count.
func reportResults(w io.Writer, results []regressResult) int {
	failed := 0
	for _, r := range results {
		if r.ok {
			fmt.Fprintf(w, "\x1b[0;32m[OK]%s (%s)\x1b[0m\n", r.name, r.elapsed.Round(time.Microsecond))
			continue
		}
		failed++
		fmt.Fprintf(w, "\x1b[0;31m[NOK]%s (%s)\x1b[0m\n", r.name, r.elapsed.Round(time.Microsecond))
		if r.detail != "" {
			fmt.Fprint(w, r.detail)
			if r.detail[len(r.detail)-1] != '\n' {
				fmt.Fprintln(w)
			}
		}
	}

	return failed
}

func (a *app) regressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regress DIR",
		Short: "Check every operation against the reference data set in DIR",
		Long: `regress reads <DIR>/<name>.txt for matrix, matrix_sym, B and the expected
results matrix_inv, matrix_sym_inv, X, X_sym, matrix_transp, matrix_add,
matrix_mult, matrix_mult_scalar (×0.5) and matrix_pow (cube), then runs every
method against them. Matrices must agree to --digits decimal places;
determinants to a relative 2e-3.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPool(cmd.Context(), func(p *pool.Pool) error {
				opts, err := a.matrixOptions(p)
				if err != nil {
					return err
				}
				cfg := regressConfig{
					dir:      args[0],
					digits:   a.v.GetInt(keyDigits),
					parallel: a.v.GetInt(keyParallel),
					dets: map[string]float64{
						fileMatrix:    a.v.GetFloat64(keyDetMatrix),
						fileMatrixSym: a.v.GetFloat64(keyDetMatrixSym),
					},
					opts: opts,
					log:  a.log,
				}
				results, err := runRegression(cmd.Context(), cfg, regressCases(p))
				if err != nil {
					return err
				}
				if failed := reportResults(cmd.OutOrStdout(), results); failed > 0 {
					return fmt.Errorf("%w: %d of %d cases", ErrRegression, failed, len(results))
				}
				a.log.WithField("cases", len(results)).Info("regression passed")

				return nil
			})
		},
	}
	f := cmd.Flags()
	f.Int(keyDigits, 15, "decimal places matrices must agree to")
	f.Int(keyParallel, 4, "cases run concurrently (0 = unbounded)")
	f.Float64(keyDetMatrix, 1.50927e+09, "expected determinant of matrix")
	f.Float64(keyDetMatrixSym, 1, "expected determinant of matrix_sym")

	return cmd
}
