package httpinterceptor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kinkando/blog-auth-service/pkg/option"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	taken atomic.Int32
}

func (l *countingLimiter) Take() time.Time {
	l.taken.Add(1)
	return time.Now()
}

func TestRateLimiterTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	limiter := &countingLimiter{}
	client := &http.Client{Transport: NewRateLimiterTransport(
		option.WithHTTPInterceptorRateLimiterRateLimiter(limiter),
	)}

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()
	}
	require.EqualValues(t, 3, limiter.taken.Load())
}

func TestRateLimiterTransport_CanceledContext(t *testing.T) {
	limiter := &countingLimiter{}
	rt := NewRateLimiterTransport(option.WithHTTPInterceptorRateLimiterRateLimiter(limiter))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1:1", nil)
	require.NoError(t, err)

	_, err = rt.RoundTrip(req)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, limiter.taken.Load())
}
