package util

import "runtime"

// GetOptimalPoolSize returns the worker count for CPU-bound batches.
//
// Formula: min(max(runtime.NumCPU(), 2), 16)
//
// Resolution is pure computation with no I/O, so more workers than cores
// only adds scheduling overhead.
//
// Examples:
//   - 1 core: 2 (minimum enforced)
//   - 8 cores: 8
//   - 32 cores: 16 (maximum enforced)
//
// Used for the matrix pool (full request matrix, audits).
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU()

	if poolSize < 2 {
		poolSize = 2
	}
	if poolSize > 16 {
		poolSize = 16
	}

	return poolSize
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
