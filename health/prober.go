package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/netresilience/netstatus"
	"github.com/jonwraymond/netresilience/observe"
	"github.com/jonwraymond/netresilience/resilience"
)

const (
	// ProbeTimeout bounds a single health probe.
	ProbeTimeout = 5 * time.Second

	// ProbePath is appended to the base URL to form the health endpoint.
	ProbePath = "/health"

	// maxDrain caps how much of a probe response body is read before close.
	maxDrain = 64 << 10
)

// Prober checks server reachability and records every result in a
// netstatus.Tracker. It is safe for concurrent use; concurrent probes of
// the same base URL share one request.
type Prober struct {
	tracker *netstatus.Tracker
	client  *http.Client
	clock   quartz.Clock
	timeout time.Duration
	metrics observe.Metrics
	logger  observe.Logger

	group singleflight.Group
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithHTTPClient sets the client used for probe requests.
func WithHTTPClient(c *http.Client) ProberOption {
	return func(p *Prober) {
		if c != nil {
			p.client = c
		}
	}
}

// WithProbeClock sets the clock that drives the probe deadline and
// timestamps.
func WithProbeClock(c quartz.Clock) ProberOption {
	return func(p *Prober) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithProbeTimeout overrides ProbeTimeout.
func WithProbeTimeout(d time.Duration) ProberOption {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithProbeInstruments sets metrics and logger from inst.
func WithProbeInstruments(inst observe.Instruments) ProberOption {
	return func(p *Prober) {
		if inst.Metrics != nil {
			p.metrics = inst.Metrics
		}
		if inst.Logger != nil {
			p.logger = inst.Logger
		}
	}
}

// NewProber creates a Prober that writes to tracker. A nil tracker gets a
// fresh one, available through Tracker.
func NewProber(tracker *netstatus.Tracker, opts ...ProberOption) *Prober {
	if tracker == nil {
		tracker = netstatus.NewTracker()
	}
	p := &Prober{
		tracker: tracker,
		client:  http.DefaultClient,
		clock:   quartz.NewReal(),
		timeout: ProbeTimeout,
		metrics: observe.NoopMetrics(),
		logger:  observe.NoopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tracker returns the tracker this prober writes to.
func (p *Prober) Tracker() *netstatus.Tracker {
	return p.tracker
}

// CheckServerHealth reports whether GET <baseURL>/health answers with a
// 2xx status within the probe timeout. Every other outcome, including an
// unusable baseURL, reports false. The tracker is updated either way.
func (p *Prober) CheckServerHealth(ctx context.Context, baseURL string) bool {
	return p.check(ctx, baseURL).Reachable
}

// Checker adapts probes of baseURL to the Checker interface.
func (p *Prober) Checker(baseURL string) Checker {
	return CheckFunc(func(ctx context.Context) Result {
		return p.check(ctx, baseURL)
	})
}

// check joins the in-flight probe of baseURL or starts one. The shared
// probe is detached from ctx so one caller going away cannot fail it for
// the others; it stays bounded by the probe timeout. A caller whose ctx
// ends first gets an unreachable Result and the tracker is left to the
// shared probe.
func (p *Prober) check(ctx context.Context, baseURL string) Result {
	ch := p.group.DoChan(baseURL, func() (any, error) {
		return p.probe(context.WithoutCancel(ctx), baseURL), nil
	})

	select {
	case r := <-ch:
		return r.Val.(Result)
	case <-ctx.Done():
		return Result{
			BaseURL:   baseURL,
			Err:       ctx.Err(),
			CheckedAt: p.clock.Now(),
		}
	}
}

func (p *Prober) probe(ctx context.Context, baseURL string) Result {
	start := p.clock.Now()

	target, err := healthURL(baseURL)
	if err == nil {
		_, err = resilience.Within(ctx, p.clock, p.timeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, p.get(ctx, target)
		})
		if errors.Is(err, resilience.ErrTimeout) {
			err = fmt.Errorf("%w after %s", ErrProbeTimeout, p.timeout)
		}
	}

	end := p.clock.Now()
	result := Result{
		BaseURL:   baseURL,
		Reachable: err == nil,
		Err:       err,
		Duration:  end.Sub(start),
		CheckedAt: end,
	}

	p.tracker.RecordProbe(result.Reachable, end)
	p.metrics.RecordProbe(ctx, baseURL, result.Reachable, result.Duration)

	fields := []observe.Field{
		{Key: "base_url", Value: baseURL},
		{Key: "duration_ms", Value: result.Duration.Milliseconds()},
	}
	if result.Reachable {
		p.logger.Debug(ctx, "health probe succeeded", fields...)
	} else {
		fields = append(fields,
			observe.Field{Key: "reason", Value: result.Reason()},
			observe.Field{Key: "error", Value: err.Error()},
		)
		p.logger.Warn(ctx, "health probe failed", fields...)
	}
	return result
}

func (p *Prober) get(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnhealthyStatus, resp.StatusCode)
	}
	return nil
}

// healthURL joins baseURL and ProbePath, ignoring trailing slashes on
// baseURL.
func healthURL(baseURL string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}
	return base + ProbePath, nil
}
