//go:build !linux && !darwin

package config

func platformWorkerLimit() (uint64, bool) {
	return 0, false
}
