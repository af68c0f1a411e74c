// Package observe provides observability primitives for the resilience layer.
//
// It is a pure instrumentation library: no retries, no transport, no I/O
// beyond exporter setup. The resilience executor and the health prober
// record spans, metrics and log lines through the interfaces defined here;
// everything defaults to a no-op so callers that do not care about
// telemetry pay nothing.
//
// Request identity travels in the context:
//
//	ctx = observe.ContextWithRequest(ctx, observe.RequestMeta{
//	    Name:     "profile.get",
//	    Method:   http.MethodGet,
//	    Endpoint: "/v1/profile",
//	})
package observe
