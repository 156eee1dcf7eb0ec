package authclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	apphttp "github.com/kinkando/blog-auth-service/http"
	httpmiddleware "github.com/kinkando/blog-auth-service/pkg/http/middleware"
	"github.com/kinkando/blog-auth-service/pkg/password"
	"github.com/kinkando/blog-auth-service/pkg/session"
	"github.com/kinkando/blog-auth-service/repository"
	"github.com/kinkando/blog-auth-service/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/ratelimit"
	"golang.org/x/crypto/bcrypt"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	url          string
	clock        *clock
	refreshHits  atomic.Int32
	hold         atomic.Bool
	holdRefresh  chan struct{}
	refreshStart chan struct{}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		clock:        &clock{now: time.Now()},
		holdRefresh:  make(chan struct{}),
		refreshStart: make(chan struct{}, 16),
	}

	jwtService, err := service.NewJWTService("access-secret", "refresh-secret",
		service.DefaultAccessTokenExpireTime, service.DefaultRefreshTokenExpireTime, service.WithClock(ts.clock.Now))
	require.NoError(t, err)
	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	users := repository.NewMemoryUserRepository()
	gate := httpmiddleware.NewProfileProvider(jwtService)

	e := echo.New()
	e.HTTPErrorHandler = apphttp.HTTPErrorHandler
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == "/auth/refresh" {
				ts.refreshHits.Add(1)
				select {
				case ts.refreshStart <- struct{}{}:
				default:
				}
				if ts.hold.Load() {
					<-ts.holdRefresh
				}
			}
			return next(c)
		}
	})
	apphttp.NewAuthenHandler(e, validator.New(),
		service.NewAuthenService(users, repository.NewCacheRepository(nil, time.Minute), jwtService, hasher, 0),
		service.NewUserService(users),
		session.NewCookieManager(false, jwtService.RefreshTokenTTL()),
		gate,
	)
	e.GET("/posts/mine", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"posts": []string{}})
	}, gate)
	e.GET("/always-unauthorized", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	ts.url = srv.URL
	return ts
}

func newClient(t *testing.T, ts *testServer, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithRateLimiter(ratelimit.NewUnlimited())}, opts...)
	c, err := New(ts.url, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("/auth")
	require.Error(t, err)
}

func TestClient_RegisterLoginLogout(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	ctx := context.Background()

	state, err := c.Register(ctx, "alice", "alice@example.com", "pw12345678")
	require.NoError(t, err)
	require.True(t, state.IsAuthenticated())
	require.Equal(t, "alice", state.User.Username)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", me.Email)
	require.False(t, me.CreatedAt.IsZero())

	require.NoError(t, c.Logout(ctx))
	require.False(t, c.IsAuthenticated())

	_, err = c.Refresh(ctx)
	require.True(t, IsUnauthorized(err), "cookie is gone after logout")

	state, err = c.Login(ctx, "alice@example.com", "pw12345678")
	require.NoError(t, err)
	require.True(t, state.IsAuthenticated())

	_, err = c.Login(ctx, "alice@example.com", "wrong-password")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid email or password", apiErr.Message)
	require.True(t, c.IsAuthenticated(), "a failed login does not drop the existing session")
}

func TestClient_Init(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	t.Run("no cookie is the logged out state", func(t *testing.T) {
		c := newClient(t, ts)
		state := c.Init(ctx)
		require.False(t, state.IsAuthenticated())
		require.Equal(t, State{}, c.State())
	})

	t.Run("restores from the refresh cookie", func(t *testing.T) {
		first := newClient(t, ts)
		_, err := first.Register(ctx, "bob", "bob@example.com", "pw12345678")
		require.NoError(t, err)

		// a new client sharing the jar is a page reload
		second := newClient(t, ts, WithCookieJar(first.jar))
		state := second.Init(ctx)
		require.True(t, state.IsAuthenticated())
		require.Equal(t, "bob", state.User.Username)
		require.NotEqual(t, first.State().AccessToken, state.AccessToken)
	})
}

func TestClient_DoRefreshesOnceOnExpiredToken(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	ctx := context.Background()

	_, err := c.Register(ctx, "carol", "carol@example.com", "pw12345678")
	require.NoError(t, err)
	stale := c.State().AccessToken

	ts.clock.Advance(service.DefaultAccessTokenExpireTime + time.Minute)

	req, err := c.NewRequest(ctx, http.MethodGet, "/posts/mine", nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, ts.refreshHits.Load())
	require.NotEqual(t, stale, c.State().AccessToken)
	require.Equal(t, "carol", c.State().User.Username, "refresh keeps the user")
}

func TestClient_DoGivesUpAfterOneRetry(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	ctx := context.Background()

	_, err := c.Register(ctx, "dave", "dave@example.com", "pw12345678")
	require.NoError(t, err)

	req, err := c.NewRequest(ctx, http.MethodGet, "/always-unauthorized", nil)
	require.NoError(t, err)
	_, err = c.Do(req)

	require.ErrorIs(t, err, ErrLoggedOut)
	require.True(t, IsUnauthorized(err))
	require.EqualValues(t, 1, ts.refreshHits.Load())
	require.False(t, c.IsAuthenticated())
}

func TestClient_DoWithoutSession(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "/posts/mine", nil)
	require.NoError(t, err)
	_, err = c.Do(req)

	require.ErrorIs(t, err, ErrLoggedOut)
	require.True(t, IsUnauthorized(err))
	require.EqualValues(t, 1, ts.refreshHits.Load())
}

func TestClient_ConcurrentRefreshesShareOneRequest(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	ctx := context.Background()

	_, err := c.Register(ctx, "erin", "erin@example.com", "pw12345678")
	require.NoError(t, err)

	ts.hold.Store(true)

	const callers = 8
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = c.Refresh(ctx)
		}(i)
	}

	<-ts.refreshStart
	time.Sleep(50 * time.Millisecond)
	close(ts.holdRefresh)
	wg.Wait()

	require.EqualValues(t, 1, ts.refreshHits.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, tokens[0], tokens[i])
	}
	require.Equal(t, tokens[0], c.State().AccessToken)
}

func TestClient_CancelledCallerDoesNotFailSharedRefresh(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)

	_, err := c.Register(context.Background(), "frank", "frank@example.com", "pw12345678")
	require.NoError(t, err)
	ts.hold.Store(true)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Refresh(firstCtx)
		firstErr <- err
	}()
	<-ts.refreshStart

	type result struct {
		token string
		err   error
	}
	second := make(chan result, 1)
	go func() {
		token, err := c.Refresh(context.Background())
		second <- result{token, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(ts.holdRefresh)
	got := <-second
	require.NoError(t, got.err)
	require.NotEmpty(t, got.token)

	require.EqualValues(t, 1, ts.refreshHits.Load())
	require.True(t, c.IsAuthenticated())
	require.Equal(t, got.token, c.State().AccessToken)
}

func TestClient_DoCancelledDuringRefreshKeepsSession(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)

	_, err := c.Register(context.Background(), "grace", "grace@example.com", "pw12345678")
	require.NoError(t, err)
	stale := c.State().AccessToken

	ts.clock.Advance(service.DefaultAccessTokenExpireTime + time.Minute)
	ts.hold.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := c.NewRequest(ctx, http.MethodGet, "/posts/mine", nil)
	require.NoError(t, err)

	doErr := make(chan error, 1)
	go func() {
		_, err := c.Do(req)
		doErr <- err
	}()
	<-ts.refreshStart

	cancel()
	err = <-doErr
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, ErrLoggedOut)

	close(ts.holdRefresh)
	require.Eventually(t, func() bool {
		state := c.State()
		return state.IsAuthenticated() && state.AccessToken != stale
	}, 2*time.Second, 10*time.Millisecond, "the refresh completes after its caller left")
}

func TestClient_RefreshPublishesTokenAndUserTogether(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	first := newClient(t, ts)
	_, err := first.Register(ctx, "heidi", "heidi@example.com", "pw12345678")
	require.NoError(t, err)

	second := newClient(t, ts, WithCookieJar(first.jar))
	require.Equal(t, State{}, second.State())

	token, err := second.Refresh(ctx)
	require.NoError(t, err)

	state := second.State()
	require.Equal(t, token, state.AccessToken)
	require.NotNil(t, state.User)
	require.Equal(t, "heidi", state.User.Username)
}

func TestClient_RefreshTransportFailureKeepsSession(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)

	_, err := c.Register(context.Background(), "ivan", "ivan@example.com", "pw12345678")
	require.NoError(t, err)
	before := c.State()

	offline := newClient(t, ts, WithCookieJar(c.jar), WithTransport(failingTransport{}))
	offline.state = before

	_, err = offline.Refresh(context.Background())
	require.Error(t, err)
	require.False(t, IsUnauthorized(err))
	require.Equal(t, before, offline.State(), "a transport failure is not a rejection")
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network is unreachable")
}
