// SPDX-License-Identifier: MIT

// Package cli implements the linalg command line: one-shot det, inverse,
// solve and mul commands on matrix files, the regression harness over a
// data directory, and the sequential-vs-pool benchmark.
//
// Configuration precedence (viper): flag > LINALG_* environment > YAML
// config file (--config) > flag default. Keys are the long flag names,
// e.g. LINALG_LOG_LEVEL or "workers: 4" in the config file.
package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/katalvlaran/linalg/pool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "LINALG"

// Configuration keys shared by every command.
const (
	keyConfig      = "config"
	keyLogLevel    = "log-level"
	keyWorkers     = "workers"
	keyPrecision   = "precision"
	keyPivotTol    = "pivot-tol"
	keySymTol      = "sym-tol"
	keySingularTol = "singular-tol"
	keyStrictPD    = "strict-pd"
)

// app carries the per-invocation configuration and logger.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

// NewRootCommand builds the linalg command tree. Every call returns an
// independent tree with its own viper instance, so tests can run several.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: logrus.New()}

	root := &cobra.Command{
		Use:           "linalg",
		Short:         "Dense linear algebra: PLU, Cholesky and cofactor solvers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String(keyConfig, "", "YAML configuration file")
	pf.String(keyLogLevel, "info", "log level: debug, info, warn or error")
	pf.Int(keyWorkers, 0, "pool workers (0 = number of CPUs)")
	pf.Int(keyPrecision, 0, "significant digits of matrix output (0 = aligned view)")
	pf.Float64(keyPivotTol, 0, "PLU pivots with |p| <= tol count as zero")
	pf.Float64(keySymTol, 0, "Cholesky symmetry tolerance")
	pf.Float64(keySingularTol, 0, "triangular diagonals with |d| <= tol count as zero")
	pf.Bool(keyStrictPD, false, "reject matrices that are not positive definite in Cholesky")

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.detCommand(),
		a.inverseCommand(),
		a.solveCommand(),
		a.mulCommand(),
		a.regressCommand(),
		a.benchCommand(),
	)

	return root
}

// setup binds the flags of the command being run, loads the optional
// config file and configures the logger.
func (a *app) setup(cmd *cobra.Command) error {
	// cmd.Flags() holds the local flags plus the merged persistent ones.
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if path := a.v.GetString(keyConfig); path != "" {
		a.v.SetConfigFile(path)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("linalg: reading config %s: %w", path, err)
		}
	}

	level, err := logrus.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return fmt.Errorf("linalg: %w", err)
	}
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	a.log.SetLevel(level)
	a.log.WithFields(logrus.Fields{
		"command": cmd.Name(),
		"config":  a.v.ConfigFileUsed(),
	}).Debug("configuration loaded")

	return nil
}

// withPool runs fn with a pool sized by the workers key and closes it.
func (a *app) withPool(ctx context.Context, fn func(p *pool.Pool) error) error {
	p, err := pool.NewContext(ctx, a.v.GetInt(keyWorkers), pool.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer p.Close()
	a.log.WithField("workers", p.NumWorkers()).Debug("pool started")

	return fn(p)
}

// matrixOptions translates the configured tolerances into matrix options.
func (a *app) matrixOptions(p *pool.Pool) ([]matrix.Option, error) {
	opts := []matrix.Option{matrix.WithPool(p)}
	tolerances := []struct {
		key  string
		with func(float64) matrix.Option
	}{
		{keyPivotTol, matrix.WithPivotTolerance},
		{keySymTol, matrix.WithSymmetryTolerance},
		{keySingularTol, matrix.WithSingularTolerance},
	}
	for _, t := range tolerances {
		tol := a.v.GetFloat64(t.key)
		if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
			return nil, fmt.Errorf("linalg: --%s must be finite and >= 0, got %v", t.key, tol)
		}
		if tol > 0 {
			opts = append(opts, t.with(tol))
		}
	}
	if a.v.GetBool(keyStrictPD) {
		opts = append(opts, matrix.WithStrictPositiveDefinite())
	}

	return opts, nil
}
