// Package sysmon reads host-wide CPU and memory usage for the dashboard
// footer.
package sysmon

import (
	"context"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one host-wide usage reading, both values in 0..100.
type Stats struct {
	CPUPercent float64
	MemPercent float64
}

// String renders the reading for a status line.
func (s Stats) String() string {
	return fmt.Sprintf("cpu %.0f%%  mem %.0f%%", s.CPUPercent, s.MemPercent)
}

// Read takes a reading. CPU usage is measured since the previous call
// (interval 0), so the first reading of a process may be 0. A failed probe
// leaves its value at 0 and is reported in the joined error.
func Read(ctx context.Context) (Stats, error) {
	var s Stats
	var errs []error

	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("cpu usage: %w", err))
	case len(pcts) > 0:
		s.CPUPercent = clampPercent(pcts[0])
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("memory usage: %w", err))
	case vm != nil:
		s.MemPercent = clampPercent(vm.UsedPercent)
	}

	return s, errors.Join(errs...)
}

// Sample is Read without a deadline, dropping the error.
func Sample() Stats {
	s, _ := Read(context.Background())
	return s
}

func clampPercent(p float64) float64 {
	return min(max(p, 0), 100)
}
