// Package cache remembers the last successful response for an endpoint so
// it can be served as fallback data when the server is unreachable.
//
// Keys are derived by HashKey from the method, endpoint and request
// parameters. A Store applies a Policy and skips non-idempotent methods
// unless the policy allows them.
package cache
