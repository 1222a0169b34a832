// Package sysmon samples system-wide CPU and memory usage.
package sysmon

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU is the usage since the previous call. Fields are zero when the
// platform cannot report them.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = clamp(pcts[0])
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = clamp(vmem.UsedPercent)
	}
	return s
}

// String renders the snapshot as "CPU 12.5%, memory 40.1% used".
func (s Stats) String() string {
	return fmt.Sprintf("CPU %.1f%%, memory %.1f%% used", s.CPUPercent, s.MemPercent)
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
