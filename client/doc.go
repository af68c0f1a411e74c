// Package client composes transport, cache and resilience into a
// request API that serves the last known good response when the server
// cannot be reached.
//
//	tc, _ := transport.New("https://api.example.com")
//	store, _ := cache.NewStore(cache.NewMemoryCache(cache.DefaultPolicy()), nil, cache.DefaultPolicy(), nil)
//	c := client.New(tc, client.WithStore(store))
//
//	out, err := client.GetJSON(ctx, c, "/profile", Profile{}, resilience.DefaultPolicy())
//	if err != nil {
//	    return err
//	}
//	if out.IsOffline {
//	    showBanner(out.Error)
//	}
//
// The fallback handed to the retry loop is the remembered body for the
// same method and path when one exists, and the caller's value otherwise.
package client
