// Package httpx holds the client-side request pipeline: a terminal transport
// that turns non-2xx responses into *Error values, and the interceptors that
// wrap it (logging, rate limiting, error enrichment).
//
// Interceptors compose with Chain. The first interceptor passed to Chain is
// the outermost: it sees the request first and the outcome last.
package httpx

import "net/http"

// Handler sends a request and returns either a 2xx response or an error.
// Non-2xx responses are always reported as errors.
type Handler func(req *http.Request) (*http.Response, error)

// Interceptor wraps a Handler with behavior applied to every request and
// its outcome.
type Interceptor func(next Handler) Handler

// Chain builds final wrapped by interceptors, outermost first.
func Chain(final Handler, interceptors ...Interceptor) Handler {
	h := final
	for i := len(interceptors) - 1; i >= 0; i-- {
		if interceptors[i] == nil {
			continue
		}
		h = interceptors[i](h)
	}
	return h
}
