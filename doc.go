// Package linalg is a dense linear-algebra toolkit with its own bounded
// work queue and worker pool.
//
// Under the hood, everything is organized under these subpackages:
//
//	matrix/      Dense matrices, PLU & Cholesky engines, triangular solvers,
//	              cofactor reference methods, text I/O, gonum interop
//	fifo/        bounded, blocking MPMC queue with optional per-item index
//	pool/        fixed worker pool over fifo with Wait barrier and clean shutdown
//	cmd/linalg/  CLI: det/inverse/solve/mul, regression harness, benchmarks
//
// Quick example:
//
//	a, _ := matrix.NewFromRows([][]float64{{2, 1}, {1, 1}})
//	b, _ := matrix.NewFromRows([][]float64{{1}, {2}})
//	x, _ := matrix.SolvePLU(a, b) // [[-1] [3]]
//
// Parallel kernels take an explicit pool:
//
//	p, _ := pool.New(0) // one worker per CPU
//	defer p.Close()
//	c, _ := matrix.MulParallel(p, a, a)
//	inv, _ := matrix.InversePLU(big, matrix.WithPool(p))
package linalg
