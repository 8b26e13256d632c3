// Package matrix offers dense real matrices and the factorizations built on
// them.
//
// The matrix package provides:
//
//   - Dense, a row-handle matrix whose SwapRows is O(1), plus constructors,
//     element-wise ops, products, transposes and powers.
//   - PLU decomposition with partial pivoting (Decompose, DetPLU, SolvePLU,
//     InversePLU) and complex-rooted Cholesky (DetCholesky, SolveCholesky,
//     InverseCholesky).
//   - Forward/back substitution (SolveLower, SolveUpper).
//   - Cofactor-expansion reference methods (DetRaw, InverseRaw, SolveRaw).
//   - Pool-backed kernels (MulParallel, TransposeParallel, WithPool) that
//     split work into disjoint row blocks on a pool.Pool.
//   - A small text format (Parse, Write) and gonum interop.
//
// Nothing in this package logs; every failure is a returned error matching
// one of the Err* sentinels through errors.Is.
package matrix
