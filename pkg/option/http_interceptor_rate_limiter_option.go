package option

import (
	"net/http"

	"go.uber.org/ratelimit"
)

// HTTPInterceptorRateLimiter holds what httpinterceptor.NewRateLimiterTransport builds from.
type HTTPInterceptorRateLimiter struct {
	Transport   http.RoundTripper
	RateLimiter ratelimit.Limiter
}

type HTTPInterceptorRateLimiterOption interface {
	Apply(*HTTPInterceptorRateLimiter)
}

type httpInterceptorRateLimiterOptionFunc func(*HTTPInterceptorRateLimiter)

func (f httpInterceptorRateLimiterOptionFunc) Apply(rl *HTTPInterceptorRateLimiter) {
	f(rl)
}

// WithHTTPInterceptorRateLimiterTransport sets the RoundTripper that sends paced requests.
// A nil transport keeps http.DefaultTransport.
func WithHTTPInterceptorRateLimiterTransport(transport http.RoundTripper) HTTPInterceptorRateLimiterOption {
	return httpInterceptorRateLimiterOptionFunc(func(rl *HTTPInterceptorRateLimiter) {
		if transport != nil {
			rl.Transport = transport
		}
	})
}

// WithHTTPInterceptorRateLimiterRateLimiter replaces the default 100 requests per second.
func WithHTTPInterceptorRateLimiterRateLimiter(rateLimiter ratelimit.Limiter) HTTPInterceptorRateLimiterOption {
	return httpInterceptorRateLimiterOptionFunc(func(rl *HTTPInterceptorRateLimiter) {
		rl.RateLimiter = rateLimiter
	})
}
