// Package health reports server liveness metrics for the health resource.
package health

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ConnectionCounter reports the number of open WebSocket connections
type ConnectionCounter interface {
	Count() int
}

// Snapshot represents server health at one point in time
type Snapshot struct {
	Uptime          int64     `json:"uptime_seconds"`
	Timestamp       time.Time `json:"timestamp"`
	Connections     int       `json:"connections"`
	Goroutines      int       `json:"goroutines"`
	ProcessMemoryMB uint64    `json:"process_memory_mb"`
	HostMemoryUsed  float64   `json:"host_memory_used_percent"`
	HostCPUUsed     float64   `json:"host_cpu_used_percent"`
}

// Monitor tracks server health metrics
type Monitor struct {
	startTime time.Time
	counter   ConnectionCounter
}

// NewMonitor creates a new health monitor
func NewMonitor(counter ConnectionCounter) *Monitor {
	return &Monitor{
		startTime: time.Now(),
		counter:   counter,
	}
}

// Snapshot returns the current server health
func (m *Monitor) Snapshot() *Snapshot {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	snap := &Snapshot{
		Uptime:          int64(time.Since(m.startTime).Seconds()),
		Timestamp:       time.Now(),
		Goroutines:      runtime.NumGoroutine(),
		ProcessMemoryMB: stats.Alloc / 1024 / 1024,
	}

	if m.counter != nil {
		snap.Connections = m.counter.Count()
	}

	// Host stats are best effort; a failing probe leaves the field at zero.
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.HostMemoryUsed = vm.UsedPercent
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		snap.HostCPUUsed = percents[0]
	}

	return snap
}
