// Package health probes server reachability.
//
// A Prober issues GET <baseURL>/health bounded by a five second deadline
// by default. A 2xx answer means reachable; a timeout, a transport
// failure, an unusable base URL or any other status means unreachable.
// Probes never return errors to the caller. Every result is written to a
// netstatus.Tracker.
//
// # Basic Usage
//
//	tracker := netstatus.NewTracker()
//	prober := health.NewProber(tracker)
//
//	if !prober.CheckServerHealth(ctx, "https://api.example.com") {
//	    log.Println("server unreachable")
//	}
//
// # Periodic Probing
//
// A Monitor probes once immediately and then on a fixed interval:
//
//	mon := health.NewMonitor(prober, baseURL, health.WithInterval(time.Minute))
//	go mon.Run(ctx)
//
// # HTTP Endpoints
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Last known network status, no probe
//	http.Handle("/status", health.StatusHandler(tracker))
//
//	// Probe on demand
//	http.Handle("/probe", health.ProbeHandler(prober.Checker(baseURL)))
package health
