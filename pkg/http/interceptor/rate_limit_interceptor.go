package httpinterceptor

import (
	"net/http"
	"time"

	"github.com/kinkando/blog-auth-service/pkg/option"
	"go.uber.org/ratelimit"
)

// RateLimiterTransport paces outgoing requests before handing them to Transport.
type RateLimiterTransport struct {
	Transport   http.RoundTripper
	RateLimiter ratelimit.Limiter
}

func NewRateLimiterTransport(opts ...option.HTTPInterceptorRateLimiterOption) *RateLimiterTransport {
	hi := &option.HTTPInterceptorRateLimiter{
		Transport:   http.DefaultTransport,
		RateLimiter: ratelimit.New(100, ratelimit.Per(time.Second)),
	}
	for _, opt := range opts {
		opt.Apply(hi)
	}
	if hi.Transport == nil {
		hi.Transport = http.DefaultTransport
	}
	if hi.RateLimiter == nil {
		hi.RateLimiter = ratelimit.NewUnlimited()
	}

	return &RateLimiterTransport{
		Transport:   hi.Transport,
		RateLimiter: hi.RateLimiter,
	}
}

func (rt *RateLimiterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	rt.RateLimiter.Take()
	return rt.Transport.RoundTrip(req)
}
