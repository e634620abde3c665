package config

import "runtime"

// Worker limit resolution chain (highest priority first):
//   1. CLI flag (--max-workers)
//   2. Environment variable (FANOUT_MAX_WORKERS)
//   3. Platform process limit (RLIMIT_NPROC where available)
//   4. CPU-based estimate (this file)

const (
	// MaxDefaultWorkers bounds the derived limit when the platform reports
	// no limit at all.
	MaxDefaultWorkers = 4096
	// workersPerCPU scales the CPU-based estimate.
	workersPerCPU = 256
)

// ApplyPlatformLimits fills in MaxWorkers from the platform when it was
// left at zero, preserving any user-specified value.
func ApplyPlatformLimits(cfg AppConfig) AppConfig {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = EstimateMaxWorkers()
	}
	return cfg
}

// EstimateMaxWorkers returns the default concurrent worker cap. The platform
// limit on processes/threads wins when it is finite; otherwise the cap is
// derived from the CPU count.
func EstimateMaxWorkers() int {
	if n, ok := platformWorkerLimit(); ok {
		return clampWorkers(n)
	}
	return estimateFromCPU(runtime.NumCPU())
}

func estimateFromCPU(numCPU int) int {
	if numCPU < 1 {
		numCPU = 1
	}
	return clampWorkers(uint64(numCPU) * workersPerCPU)
}

func clampWorkers(n uint64) int {
	switch {
	case n < 1:
		return 1
	case n > MaxDefaultWorkers:
		return MaxDefaultWorkers
	default:
		return int(n)
	}
}
