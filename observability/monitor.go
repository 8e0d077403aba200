package observability

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// StatSource yields the store counters reported alongside process metrics.
type StatSource interface {
	Counts() (users int, channels int, messages uint64)
}

// Monitor periodically logs store and process health. It satisfies the
// supervisor Worker contract so a crash in metric collection gets restarted
// like any other background job.
type Monitor struct {
	log      *slog.Logger
	source   StatSource
	interval time.Duration
}

func NewMonitor(log *slog.Logger, source StatSource, interval time.Duration) *Monitor {
	return &Monitor{
		log:      log,
		source:   source,
		interval: interval,
	}
}

// Run executes the main loop of the monitor, reporting metrics at each tick
// until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("Starting service monitor", "interval", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.report(p)
		}
	}
}

func (m *Monitor) report(p *process.Process) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	users, channels, messages := m.source.Counts()

	fields := []any{
		"users", users,
		"channels", channels,
		"messages", messages,
		"goroutines", runtime.NumGoroutine(),
		"alloc_mb", mem.Alloc / 1024 / 1024,
		"num_gc", mem.NumGC,
	}

	rss, cpu, err := selfStats(p)
	if err != nil {
		m.log.Warn("Failed to collect process stats", "err", err)
	} else {
		fields = append(fields, "rss_mb", rss/1024/1024, "cpu_percent", cpu)
	}

	m.log.Info("📊 Service stats", fields...)
}

// selfStats retrieves technical metrics (Memory and CPU) for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
