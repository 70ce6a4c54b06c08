// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import "net/http"

// RetryTransport is an http.RoundTripper that applies DoWithRetry to
// every request. The bot's API client is constructed with it so
// transport-level rate limiting never reaches the message handlers.
type RetryTransport struct {
	// Base is the underlying transport; nil means
	// http.DefaultTransport.
	Base http.RoundTripper

	// MaxRetries bounds the retry attempts; 0 means the package
	// default.
	MaxRetries int
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	client := &http.Client{Transport: base}
	return DoWithRetry(req.Context(), client, req, t.MaxRetries)
}

// NewRetryClient returns an http.Client backed by a RetryTransport.
func NewRetryClient(maxRetries int) *http.Client {
	return &http.Client{Transport: &RetryTransport{MaxRetries: maxRetries}}
}
