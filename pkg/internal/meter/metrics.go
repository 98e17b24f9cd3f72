package meter

import (
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

func (m *Meter) ensureCounter(metricName string) *uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counts[metricName]
	if !ok {
		c = new(uint64)
		m.counts[metricName] = c
	}
	return c
}

// IncrementCount adds one to a metric, registering it on first use.
func (m *Meter) IncrementCount(metricName string) {
	atomic.AddUint64(m.ensureCounter(metricName), 1)
}

// AddCount adds n to a metric, registering it on first use.
func (m *Meter) AddCount(metricName string, n uint64) {
	atomic.AddUint64(m.ensureCounter(metricName), n)
}

// GetMetricCount returns the current count, 0 for unknown metrics.
func (m *Meter) GetMetricCount(metricName string) uint64 {
	m.mu.Lock()
	c, ok := m.counts[metricName]
	m.mu.Unlock()
	if !ok {
		return 0
	}
	return atomic.LoadUint64(c)
}

// ObserveStage accumulates time spent in a pipeline stage across recordings.
func (m *Meter) ObserveStage(stage string, d time.Duration) {
	m.mu.Lock()
	m.stages[stage] += d
	m.mu.Unlock()
}

// GetStageDuration returns the accumulated time for stage.
func (m *Meter) GetStageDuration(stage string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stages[stage]
}

// ResetMetrics zeroes every counter and stage timer and restarts the clock.
func (m *Meter) ResetMetrics() {
	m.mu.Lock()
	for _, c := range m.counts {
		atomic.StoreUint64(c, 0)
	}
	m.stages = make(map[string]time.Duration)
	m.startTime = time.Now()
	m.mu.Unlock()
}

// Snapshot copies the counters and stage timings and, unless disabled, samples host CPU and
// memory usage.
func (m *Meter) Snapshot() types.MeterSnapshot {
	m.mu.Lock()
	snap := types.MeterSnapshot{
		StartTime:      m.startTime,
		Elapsed:        time.Since(m.startTime),
		Counts:         make(map[string]uint64, len(m.counts)),
		StageDurations: make(map[string]time.Duration, len(m.stages)),
	}
	for name, c := range m.counts {
		snap.Counts[name] = atomic.LoadUint64(c)
	}
	for stage, d := range m.stages {
		snap.StageDurations[stage] = d
	}
	hostStats, interval := m.hostStats, m.cpuInterval
	m.mu.Unlock()

	if hostStats {
		snap.CPUPercent, snap.RAMPercent = sampleHost(interval)
	}
	return snap
}

func sampleHost(interval time.Duration) (cpuPct, ramPct float64) {
	if pcts, err := cpu.Percent(interval, false); err == nil && len(pcts) > 0 {
		cpuPct = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		ramPct = vm.UsedPercent
	}
	return cpuPct, ramPct
}
