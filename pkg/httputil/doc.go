// Package httputil provides HTTP utilities for standardized request/response handling.
//
// Response helpers write consistent JSON envelopes; request helpers
// parse bodies and path/query parameters with uniform error responses;
// the middleware chain adds request ids, structured request logging,
// panic recovery, and prometheus instrumentation.
package httputil
