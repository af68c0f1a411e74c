// Package transport performs HTTP requests and reports failures in the
// shape the classify package understands.
//
// Non-2xx answers become a *classify.Failure carrying the status and the
// server's message. Failures below HTTP carry no status and a message
// prefix that the offline check recognizes:
//
//	ECONNREFUSED: ...             connection refused
//	timeout: ...                  deadline exceeded while dialing or waiting
//	network request failed: ...   anything else
//
// A cancelled context is returned as the context's error.
//
// Every request carries an X-Request-ID header. The ID comes from the
// observe.RequestMeta in the context when set, and is generated otherwise.
package transport
