// SPDX-License-Identifier: MIT

// Command linalg runs the dense solvers on matrix files, checks them
// against a reference data set (regress) and benchmarks the worker pool.
//
// Usage:
//
//	linalg det matrix.txt --method cholesky
//	linalg solve A.txt B.txt --precision 12
//	linalg regress ./data --digits 12
//	linalg bench --sizes 64,128,256 --plot bench.png
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/linalg/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
