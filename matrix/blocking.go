// SPDX-License-Identifier: MIT

package matrix

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// defaultBlockSize is used when the cache line size is unknown.
const defaultBlockSize = 16

// blockSize is computed once: two L1 cache lines worth of float64.
var blockSize = func() int {
	line := int(unsafe.Sizeof(cpu.CacheLinePad{}))
	if n := 2 * line / int(unsafe.Sizeof(float64(0))); n > 0 {
		return n
	}

	return defaultBlockSize
}()

// BlockSize returns the row/column strip width used by the blocked kernels
// (2 × cache line ÷ 8 bytes, 16 when the platform reports no line size).
func BlockSize() int { return blockSize }
