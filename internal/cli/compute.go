// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/katalvlaran/linalg/pool"
	"github.com/spf13/cobra"
)

const keyMethod = "method"

// method bundles the three entry points of one factorization.
type method struct {
	det     func(m matrix.Matrix, opts ...matrix.Option) (float64, error)
	inverse func(m matrix.Matrix, opts ...matrix.Option) (*matrix.Dense, error)
	solve   func(m, b matrix.Matrix, opts ...matrix.Option) (*matrix.Dense, error)
}

// methods maps --method values to implementations. The cofactor methods
// take no options.
var methods = map[string]method{
	"plu":      {matrix.DetPLU, matrix.InversePLU, matrix.SolvePLU},
	"cholesky": {matrix.DetCholesky, matrix.InverseCholesky, matrix.SolveCholesky},
	"raw": {
		det: func(m matrix.Matrix, _ ...matrix.Option) (float64, error) {
			return matrix.DetRaw(m)
		},
		inverse: func(m matrix.Matrix, _ ...matrix.Option) (*matrix.Dense, error) {
			return matrix.InverseRaw(m)
		},
		solve: func(m, b matrix.Matrix, _ ...matrix.Option) (*matrix.Dense, error) {
			return matrix.SolveRaw(m, b)
		},
	},
}

func methodNames() string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

func (a *app) method() (method, error) {
	name := strings.ToLower(a.v.GetString(keyMethod))
	m, ok := methods[name]
	if !ok {
		return method{}, fmt.Errorf("linalg: unknown method %q (want one of %s)", name, methodNames())
	}

	return m, nil
}

func addMethodFlag(cmd *cobra.Command) {
	cmd.Flags().String(keyMethod, "plu", "factorization: "+methodNames())
}

// readAll parses every path as a matrix file.
func readAll(paths []string) ([]*matrix.Dense, error) {
	out := make([]*matrix.Dense, len(paths))
	for i, path := range paths {
		m, err := matrix.ReadFile(path)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}

	return out, nil
}

// compute reads the arguments, starts a pool and hands both to fn.
func (a *app) compute(cmd *cobra.Command, args []string, fn func(in []*matrix.Dense, p *pool.Pool, opts []matrix.Option) error) error {
	in, err := readAll(args)
	if err != nil {
		return err
	}

	return a.withPool(cmd.Context(), func(p *pool.Pool) error {
		opts, err := a.matrixOptions(p)
		if err != nil {
			return err
		}

		return fn(in, p, opts)
	})
}

func (a *app) writeMatrix(cmd *cobra.Command, m *matrix.Dense) error {
	return matrix.Write(cmd.OutOrStdout(), m, a.v.GetInt(keyPrecision))
}

func (a *app) detCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "det FILE",
		Short: "Print the determinant of the matrix in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meth, err := a.method()
			if err != nil {
				return err
			}

			return a.compute(cmd, args, func(in []*matrix.Dense, _ *pool.Pool, opts []matrix.Option) error {
				det, err := meth.det(in[0], opts...)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(det, 'g', -1, 64))

				return err
			})
		},
	}
	addMethodFlag(cmd)

	return cmd
}

func (a *app) inverseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inverse FILE",
		Short: "Print the inverse of the matrix in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meth, err := a.method()
			if err != nil {
				return err
			}

			return a.compute(cmd, args, func(in []*matrix.Dense, _ *pool.Pool, opts []matrix.Option) error {
				inv, err := meth.inverse(in[0], opts...)
				if err != nil {
					return err
				}

				return a.writeMatrix(cmd, inv)
			})
		},
	}
	addMethodFlag(cmd)

	return cmd
}

func (a *app) solveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve A B",
		Short: "Solve A·X = B and print X",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			meth, err := a.method()
			if err != nil {
				return err
			}

			return a.compute(cmd, args, func(in []*matrix.Dense, _ *pool.Pool, opts []matrix.Option) error {
				x, err := meth.solve(in[0], in[1], opts...)
				if err != nil {
					return err
				}

				return a.writeMatrix(cmd, x)
			})
		},
	}
	addMethodFlag(cmd)

	return cmd
}

func (a *app) mulCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mul A B",
		Short: "Print the product A·B",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.compute(cmd, args, func(in []*matrix.Dense, p *pool.Pool, _ []matrix.Option) error {
				c, err := matrix.MulParallel(p, in[0], in[1])
				if err != nil {
					return err
				}

				return a.writeMatrix(cmd, c)
			})
		},
	}
}
