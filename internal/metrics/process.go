package metrics

import (
	"math"
	"runtime"
	"time"

	"github.com/prometheus/procfs"
)

type ProcessStats struct {
	HeapUsedBytes  uint64
	HeapTotalBytes uint64
	// CPU time in microseconds; zero where /proc is unavailable.
	CPUUserMicros   int64
	CPUSystemMicros int64
	Uptime          time.Duration
}

// ProcessSampler reads memory from the Go runtime and CPU time from /proc.
type ProcessSampler struct {
	started time.Time
}

func NewProcessSampler() *ProcessSampler {
	return &ProcessSampler{started: time.Now()}
}

func (p *ProcessSampler) Sample() ProcessStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	st := ProcessStats{
		HeapUsedBytes:  ms.HeapAlloc,
		HeapTotalBytes: ms.HeapSys,
		Uptime:         time.Since(p.started),
	}
	proc, err := procfs.Self()
	if err != nil {
		return st
	}
	stat, err := proc.Stat()
	if err != nil {
		return st
	}
	st.CPUUserMicros, st.CPUSystemMicros = splitCPUTime(stat.CPUTime(), stat.UTime, stat.STime)
	return st
}

// splitCPUTime divides total CPU seconds between user and system time in
// the proportion of their tick counts.
func splitCPUTime(totalSeconds float64, userTicks, systemTicks uint) (user, system int64) {
	ticks := userTicks + systemTicks
	if ticks == 0 {
		return 0, 0
	}
	totalMicros := totalSeconds * 1e6
	user = int64(math.Round(totalMicros * float64(userTicks) / float64(ticks)))
	return user, int64(math.Round(totalMicros)) - user
}
