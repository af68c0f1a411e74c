package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/netresilience/cache"
	"github.com/jonwraymond/netresilience/client"
	"github.com/jonwraymond/netresilience/config"
	"github.com/jonwraymond/netresilience/health"
	"github.com/jonwraymond/netresilience/netstatus"
	"github.com/jonwraymond/netresilience/observe"
	"github.com/jonwraymond/netresilience/observe/exporters"
	"github.com/jonwraymond/netresilience/resilience"
	"github.com/jonwraymond/netresilience/transport"
)

// app holds the components built from one configuration.
type app struct {
	cfg      *config.Config
	observer observe.Observer
	registry *prometheus.Registry
	inst     observe.Instruments

	tracker *netstatus.Tracker
	prober  *health.Prober
	client  *client.Client
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obs, err := observe.NewObserver(ctx, cfg.Observe, exporters.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("observer: %w", err)
	}
	inst, err := observe.NewInstruments(obs)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, fmt.Errorf("instruments: %w", err)
	}

	tracker := netstatus.NewTracker()
	prober := health.NewProber(tracker, health.WithProbeInstruments(inst))

	topts := []transport.Option{
		transport.WithTimeout(cfg.Server.RequestTimeout),
		transport.WithLogger(inst.Logger),
	}
	for k, v := range cfg.Server.Headers {
		topts = append(topts, transport.WithHeader(k, v))
	}
	tc, err := transport.New(cfg.Server.BaseURL, topts...)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	store, err := cache.NewStore(cache.NewMemoryCache(cfg.Cache), nil, cfg.Cache, nil)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	c := client.New(tc,
		client.WithStore(store),
		client.WithExecutor(resilience.NewExecutor(resilience.WithInstruments(inst))),
		client.WithLogger(inst.Logger),
	)

	return &app{
		cfg:      cfg,
		observer: obs,
		registry: registry,
		inst:     inst,
		tracker:  tracker,
		prober:   prober,
		client:   c,
	}, nil
}

// handler serves the status, probe and metrics endpoints.
func (a *app) handler() http.Handler {
	mux := http.NewServeMux()
	health.RegisterHandlers(mux, a.tracker, a.prober.Checker(a.cfg.Server.BaseURL))
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))
	return mux
}

func (a *app) close(ctx context.Context) error {
	return a.observer.Shutdown(ctx)
}
