package authclient

import (
	"net/http"

	"go.uber.org/ratelimit"
)

type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (o optionFunc) apply(c *Client) {
	o(c)
}

// WithTransport sets the RoundTripper underneath the rate limiter.
func WithTransport(transport http.RoundTripper) Option {
	return optionFunc(func(c *Client) {
		c.transport = transport
	})
}

// WithRateLimiter caps outgoing requests.
func WithRateLimiter(limiter ratelimit.Limiter) Option {
	return optionFunc(func(c *Client) {
		c.rateLimiter = limiter
	})
}

// WithCookieJar shares a jar, and with it the refresh cookie, between clients.
func WithCookieJar(jar http.CookieJar) Option {
	return optionFunc(func(c *Client) {
		c.jar = jar
	})
}
