package health

import (
	"context"
	"time"

	"github.com/coder/quartz"
)

// DefaultInterval is the probe period used when none is configured.
const DefaultInterval = 30 * time.Second

// Monitor probes one server periodically.
type Monitor struct {
	prober   *Prober
	baseURL  string
	interval time.Duration
	clock    quartz.Clock
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithInterval sets the probe period.
func WithInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithMonitorClock sets the clock that schedules probes.
func WithMonitorClock(c quartz.Clock) MonitorOption {
	return func(m *Monitor) {
		if c != nil {
			m.clock = c
		}
	}
}

// NewMonitor creates a Monitor for baseURL.
func NewMonitor(p *Prober, baseURL string, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		prober:   p,
		baseURL:  baseURL,
		interval: DefaultInterval,
		clock:    quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Interval returns the probe period.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Probe runs one probe now.
func (m *Monitor) Probe(ctx context.Context) bool {
	return m.prober.CheckServerHealth(ctx, m.baseURL)
}

// Run probes immediately and then once per interval until ctx is done. It
// returns the context's error.
func (m *Monitor) Run(ctx context.Context) error {
	m.Probe(ctx)

	w := m.clock.TickerFunc(ctx, m.interval, func() error {
		m.Probe(ctx)
		return nil
	}, "health", "monitor")
	if err := w.Wait(); ctx.Err() == nil {
		return err
	}
	return ctx.Err()
}
