package httpclient

import (
	"net/http"
	"time"

	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details. Query strings are not logged.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", target),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// BearerRoundTripper adds an Authorization header to every request.
type BearerRoundTripper struct {
	Token   string
	Proxied http.RoundTripper
}

// RoundTrip clones the request before setting the header, as RoundTrippers must not mutate it.
func (b *BearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+b.Token)
	return b.Proxied.RoundTrip(r)
}

// Option customizes the client returned by NewClient.
type Option func(*options)

type options struct {
	proxy  proxy.Settings
	bearer string
}

// WithProxy routes requests through the given outbound proxy.
func WithProxy(p proxy.Settings) Option {
	return func(o *options) { o.proxy = p }
}

// WithBearerToken authenticates every request with the given token.
func WithBearerToken(token string) Option {
	return func(o *options) { o.bearer = token }
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = o.proxy.Func()
	if o.proxy.HasProxy() {
		logger.Get().Info("Using outbound proxy", zap.String("proxy", o.proxy.HostPort()))
	}

	var rt http.RoundTripper = &LoggingRoundTripper{Proxied: transport}
	if o.bearer != "" {
		rt = &BearerRoundTripper{Token: o.bearer, Proxied: rt}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
	}
}
