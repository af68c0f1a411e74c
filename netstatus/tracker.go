package netstatus

import (
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
)

// Status is a point-in-time snapshot of network health.
type Status struct {
	// Connected reports whether the host has network connectivity.
	Connected bool `json:"connected"`

	// ServerReachable reports whether the last health probe succeeded.
	ServerReachable bool `json:"server_reachable"`

	// LastChecked is when the most recent probe completed. Zero until the
	// first probe.
	LastChecked time.Time `json:"last_checked"`
}

// Checked reports whether any probe has been recorded.
func (s Status) Checked() bool {
	return !s.LastChecked.IsZero()
}

// Online reports whether requests are expected to reach the server.
func (s Status) Online() bool {
	return s.Connected && s.ServerReachable
}

// Tracker holds the current Status. It is safe for concurrent use.
type Tracker struct {
	clock quartz.Clock
	cur   atomic.Pointer[Status]
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock used by RecordProbeNow.
func WithClock(c quartz.Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// NewTracker creates a Tracker. Until a probe is recorded the tracker
// optimistically reports the host connected and the server reachable.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(t)
	}
	t.cur.Store(&Status{Connected: true, ServerReachable: true})
	return t
}

// Status returns a copy of the current snapshot.
func (t *Tracker) Status() Status {
	return *t.cur.Load()
}

// RecordProbe stores the result of a health probe completed at at. A
// result older than LastChecked is dropped, so ServerReachable always
// belongs to the probe stamped LastChecked.
func (t *Tracker) RecordProbe(reachable bool, at time.Time) {
	t.update(func(s *Status) {
		if at.Before(s.LastChecked) {
			return
		}
		s.ServerReachable = reachable
		s.LastChecked = at
	})
}

// RecordProbeNow is RecordProbe stamped with the tracker's clock.
func (t *Tracker) RecordProbeNow(reachable bool) {
	t.RecordProbe(reachable, t.clock.Now())
}

// SetConnected stores the host connectivity signal.
func (t *Tracker) SetConnected(connected bool) {
	t.update(func(s *Status) {
		s.Connected = connected
	})
}

// update applies fn to a copy of the current snapshot and swaps it in,
// retrying if another writer got there first.
func (t *Tracker) update(fn func(*Status)) {
	for {
		old := t.cur.Load()
		next := *old
		fn(&next)
		if t.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}
