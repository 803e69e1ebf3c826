package feedapi

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedTransport delays outgoing requests so the client never exceeds
// the configured request rate against the feed service.
type RateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient wraps http.DefaultTransport with a token bucket.
// A non-positive rate disables limiting.
func NewRateLimitedHTTPClient(requestsPerSecond float64, burst int, timeout time.Duration) *http.Client {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &http.Client{
		Transport: &RateLimitedTransport{
			transport: http.DefaultTransport,
			limiter:   rate.NewLimiter(limit, burst),
		},
		Timeout: timeout,
	}
}
