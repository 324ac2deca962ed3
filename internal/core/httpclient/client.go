// Package httpclient builds the HTTP clients used against the courier
// portal and upstream APIs. Every client logs request timing, which is the
// main debugging tool when the portal slows down or starts redirecting.
package httpclient

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
)

// LoggingRoundTripper wraps a transport and logs each request's outcome and
// duration at debug level, failures at error level.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	log := logger.Get()
	start := time.Now()

	log.Debug("HTTP request started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Error("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("HTTP request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", elapsed),
	)

	return resp, nil
}

// NewClient returns an http.Client with the logging transport.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}

// NewNoRedirectClient returns a logging client that does not follow
// redirects. The pincode report endpoint signals an expired session with a
// 302, so callers need to observe the redirect instead of following it.
func NewNoRedirectClient(timeout time.Duration) *http.Client {
	c := NewClient(timeout)
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}
