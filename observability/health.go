// Package observability exposes the runtime health of the process:
// memory and CPU figures sampled from the OS plus Go runtime counters.
package observability

import (
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthReport is the payload of the health endpoint.
type HealthReport struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	RSSMemMb      uint64  `json:"rss_mem_mb"`
	AllocMemMb    uint64  `json:"alloc_mem_mb"`
	CPUPercent    float64 `json:"cpu_percent"`
	NumGoroutine  int     `json:"num_goroutine"`
	NumGC         uint32  `json:"num_gc"`
}

// HealthMonitor samples process statistics on demand.
type HealthMonitor struct {
	log     *slog.Logger
	proc    *process.Process
	started time.Time
}

func NewHealthMonitor(log *slog.Logger) *HealthMonitor {
	hm := &HealthMonitor{log: log, started: time.Now()}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		// OS stats become zero values; runtime counters still report.
		log.Warn("process handle unavailable", "err", err)
		return hm
	}
	hm.proc = proc
	return hm
}

// Report gathers the current figures. Sampling failures degrade the
// report instead of failing it: health must stay reachable.
func (hm *HealthMonitor) Report() HealthReport {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	report := HealthReport{
		Status:        "ok",
		UptimeSeconds: time.Since(hm.started).Seconds(),
		AllocMemMb:    mem.Alloc / 1024 / 1024,
		NumGoroutine:  runtime.NumGoroutine(),
		NumGC:         mem.NumGC,
	}

	if hm.proc == nil {
		return report
	}

	if memInfo, err := hm.proc.MemoryInfo(); err == nil {
		report.RSSMemMb = memInfo.RSS / 1024 / 1024
	} else {
		hm.log.Warn("memory sampling failed", "err", err)
	}

	if cpu, err := hm.proc.CPUPercent(); err == nil {
		report.CPUPercent = cpu
	} else {
		hm.log.Warn("cpu sampling failed", "err", err)
	}

	return report
}
