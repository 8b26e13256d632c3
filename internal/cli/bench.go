// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"slices"
	"time"

	"github.com/katalvlaran/linalg/matrix"
	"github.com/katalvlaran/linalg/pool"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrInconsistent is returned when the pool and the sequential run disagree.
var ErrInconsistent = errors.New("linalg: pool result differs from sequential result")

const (
	keySizes  = "sizes"
	keyBags   = "bags"
	keyBagLen = "bag-len"
	keySeed   = "seed"
	keyPlot   = "plot"
)

// Plot canvas size.
const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// benchPoint is one multiply timing.
type benchPoint struct {
	size       int
	sequential time.Duration
	pooled     time.Duration
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}

	return true
}

// primeBag stores the primes of [bag·size, (bag+1)·size) at the start of
// that segment of out. Bags write disjoint segments.
func primeBag(out []int, bag, size int) {
	lo := bag * size
	j := lo
	for n := lo; n < lo+size; n++ {
		if isPrime(n) {
			out[j] = n
			j++
		}
	}
}

// primeWorkload runs the prime search over bags×size integers inline and
// on p, and reports both durations. The results must match exactly.
func primeWorkload(p *pool.Pool, bags, size int) (seq, pooled time.Duration, err error) {
	want := make([]int, bags*size)
	start := time.Now()
	for bag := 0; bag < bags; bag++ {
		primeBag(want, bag, size)
	}
	seq = time.Since(start)

	got := make([]int, bags*size)
	start = time.Now()
	for bag := 0; bag < bags; bag++ {
		if err = p.QueueIndexed(func(i int) { primeBag(got, i, size) }, bag); err != nil {
			return 0, 0, err
		}
	}
	if err = p.Wait(); err != nil {
		return 0, 0, err
	}
	pooled = time.Since(start)

	if !slices.Equal(want, got) {
		return 0, 0, fmt.Errorf("%w: prime search", ErrInconsistent)
	}

	return seq, pooled, nil
}

// mulWorkload times Mul against MulParallel on random n×n operands.
func mulWorkload(p *pool.Pool, n int, rng *rand.Rand) (benchPoint, error) {
	a, err := matrix.Random(n, n, rng)
	if err != nil {
		return benchPoint{}, err
	}
	b, err := matrix.Random(n, n, rng)
	if err != nil {
		return benchPoint{}, err
	}

	pt := benchPoint{size: n}
	start := time.Now()
	want, err := matrix.Mul(a, b)
	if err != nil {
		return benchPoint{}, err
	}
	pt.sequential = time.Since(start)

	start = time.Now()
	got, err := matrix.MulParallel(p, a, b)
	if err != nil {
		return benchPoint{}, err
	}
	pt.pooled = time.Since(start)

	ok, err := matrix.Equal(want, got, 0)
	if err != nil {
		return benchPoint{}, err
	}
	if !ok {
		return benchPoint{}, fmt.Errorf("%w: %dx%d product", ErrInconsistent, n, n)
	}

	return pt, nil
}

// savePlot draws both timing series (milliseconds against size) to path;
// the extension picks the image format.
func savePlot(path string, points []benchPoint) error {
	seq := make(plotter.XYs, len(points))
	pooled := make(plotter.XYs, len(points))
	for i, pt := range points {
		seq[i].X, seq[i].Y = float64(pt.size), millis(pt.sequential)
		pooled[i].X, pooled[i].Y = float64(pt.size), millis(pt.pooled)
	}

	p := plot.New()
	p.Title.Text = "Dense multiply"
	p.X.Label.Text = "n"
	p.Y.Label.Text = "ms"
	if err := plotutil.AddLinePoints(p, "sequential", seq, "pool", pooled); err != nil {
		return err
	}

	return p.Save(plotWidth, plotHeight, path)
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func round(d time.Duration) time.Duration { return d.Round(time.Microsecond) }

func writeBenchTable(w io.Writer, points []benchPoint) {
	fmt.Fprintf(w, "%8s %14s %14s\n", "n", "sequential", "pool")
	for _, pt := range points {
		fmt.Fprintf(w, "%8d %14s %14s\n", pt.size, round(pt.sequential), round(pt.pooled))
	}
}

func (a *app) benchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare sequential and pool execution on multiply and a prime search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sizes := a.v.GetIntSlice(keySizes)
			bags, bagLen := a.v.GetInt(keyBags), a.v.GetInt(keyBagLen)
			if bags <= 0 || bagLen <= 0 {
				return fmt.Errorf("linalg: --%s and --%s must be > 0", keyBags, keyBagLen)
			}
			seed := a.v.GetUint64(keySeed)
			out := cmd.OutOrStdout()

			return a.withPool(cmd.Context(), func(p *pool.Pool) error {
				fmt.Fprintf(out, "%d CPUs, pool of %d workers\n", runtime.NumCPU(), p.NumWorkers())

				seq, pooled, err := primeWorkload(p, bags, bagLen)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "prime search, %d bags of %d: sequential %s, pool %s, results OK\n",
					bags, bagLen, round(seq), round(pooled))

				rng := rand.New(rand.NewPCG(seed, seed))
				points := make([]benchPoint, 0, len(sizes))
				for _, n := range sizes {
					pt, err := mulWorkload(p, n, rng)
					if err != nil {
						return err
					}
					a.log.WithField("n", n).Debug("multiply timed")
					points = append(points, pt)
				}
				writeBenchTable(out, points)

				if path := a.v.GetString(keyPlot); path != "" && len(points) > 0 {
					if err := savePlot(path, points); err != nil {
						return fmt.Errorf("linalg: plot: %w", err)
					}
					a.log.WithField("path", path).Info("plot written")
				}

				return nil
			})
		},
	}
	f := cmd.Flags()
	f.IntSlice(keySizes, []int{64, 128, 256}, "matrix sizes to multiply")
	f.Int(keyBags, 10, "prime search: number of work items")
	f.Int(keyBagLen, 2000, "prime search: integers per work item")
	f.Uint64(keySeed, 1, "seed of the random operands")
	f.String(keyPlot, "", "write a timing plot (png, svg, pdf) to this path")

	return cmd
}
