package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kinkando/blog-auth-service/model"
	httpinterceptor "github.com/kinkando/blog-auth-service/pkg/http/interceptor"
	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/kinkando/blog-auth-service/pkg/option"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// Client keeps one user's session against the auth service. It is safe for
// concurrent use; concurrent refreshes share a single request.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	transport   http.RoundTripper
	rateLimiter ratelimit.Limiter
	jar         http.CookieJar

	refreshGroup singleflight.Group

	mu    sync.RWMutex
	state State
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("authclient: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("authclient: base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:     u,
		transport:   http.DefaultTransport,
		rateLimiter: ratelimit.New(50, ratelimit.Per(time.Second)),
	}
	for _, opt := range opts {
		opt.apply(c)
	}

	if c.jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("authclient: cookie jar: %w", err)
		}
		c.jar = jar
	}

	c.httpClient = &http.Client{
		Jar: c.jar,
		Transport: httpinterceptor.NewRateLimiterTransport(
			option.WithHTTPInterceptorRateLimiterTransport(c.transport),
			option.WithHTTPInterceptorRateLimiterRateLimiter(c.rateLimiter),
		),
		Timeout: 30 * time.Second,
	}
	return c, nil
}

// State returns a snapshot; token and user always come from the same update.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) IsAuthenticated() bool {
	return c.State().IsAuthenticated()
}

// Init restores a session from the refresh cookie, if there is one. Any
// failure leaves the client logged out; no session is the common case.
func (c *Client) Init(ctx context.Context) State {
	if _, err := c.Refresh(ctx); err != nil {
		logger.Context(ctx).Debugf("authclient: no session to restore: %v", err)
		c.clear()
		return State{}
	}
	return c.State()
}

func (c *Client) Login(ctx context.Context, email, password string) (State, error) {
	var res model.SessionResponse
	if err := c.post(ctx, "/auth/login", model.LoginRequest{Email: email, Password: password}, &res); err != nil {
		return State{}, err
	}
	return c.setSession(res), nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (State, error) {
	var res model.SessionResponse
	req := model.RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.post(ctx, "/auth/register", req, &res); err != nil {
		return State{}, err
	}
	return c.setSession(res), nil
}

// Logout always ends the local session, even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.clear()

	var res model.MessageResponse
	return c.post(ctx, "/auth/logout", nil, &res)
}

// Refresh exchanges the refresh cookie for a new access token. Callers that
// overlap share one request. The shared request is detached from every
// caller's context, so a caller that gives up does not fail the others and
// the refresh still completes and updates the state. Only a rejection by the
// service logs the client out.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.refreshGroup.DoChan(refreshKey, func() (any, error) {
		return c.refresh(detached)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// refresh publishes token and user in one update. Without a known user the
// profile is fetched with the new token first.
func (c *Client) refresh(ctx context.Context) (string, error) {
	var res model.RefreshResponse
	if err := c.post(ctx, "/auth/refresh", nil, &res); err != nil {
		c.clearOnRejection(err)
		return "", err
	}

	user := c.State().User
	if user == nil {
		me, err := c.fetchMe(ctx, res.AccessToken)
		if err != nil {
			c.clearOnRejection(err)
			return "", err
		}
		user = &me
	}

	c.mu.Lock()
	c.state = State{AccessToken: res.AccessToken, User: user}
	c.mu.Unlock()
	return res.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (model.UserProfile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return model.UserProfile{}, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return model.UserProfile{}, err
	}

	var res model.UserResponse
	if err := decodeResponse(resp, &res); err != nil {
		return model.UserProfile{}, err
	}

	c.mu.Lock()
	if c.state.AccessToken != "" {
		c.state.User = &res.User
	}
	c.mu.Unlock()
	return res.User, nil
}

func (c *Client) fetchMe(ctx context.Context, accessToken string) (model.UserProfile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return model.UserProfile{}, err
	}

	resp, err := c.send(req, accessToken)
	if err != nil {
		return model.UserProfile{}, err
	}

	var res model.UserResponse
	if err := decodeResponse(resp, &res); err != nil {
		return model.UserProfile{}, err
	}
	return res.User, nil
}

// Do sends req with the current access token. A 401 triggers one refresh and
// one retry; if that also fails the client is logged out and the returned
// error matches ErrLoggedOut. The caller closes the body of a returned response.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	retry, replayErr := cloneRequest(req)

	resp, err := c.send(req, c.State().AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if replayErr != nil {
		return nil, fmt.Errorf("%w: %w", replayErr, decodeResponse(resp, nil))
	}
	drain(resp)

	accessToken, err := c.Refresh(req.Context())
	if err != nil {
		if isRejection(err) {
			return nil, fmt.Errorf("%w: %w", ErrLoggedOut, err)
		}
		return nil, err
	}

	resp, err = c.send(retry, accessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		err := decodeResponse(resp, nil)
		c.clear()
		return nil, fmt.Errorf("%w: %w", ErrLoggedOut, err)
	}
	return resp, nil
}

func (c *Client) send(req *http.Request, accessToken string) (*http.Response, error) {
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authclient: %s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}

	resp, err := c.send(req, "")
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// NewRequest builds a request against the service; pass it to Do.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	return c.newRequest(ctx, method, path, body)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("authclient: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return nil, fmt.Errorf("authclient: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) setSession(res model.SessionResponse) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{
		AccessToken: res.AccessToken,
		User: &model.UserProfile{
			ID:       res.User.ID,
			Username: res.User.Username,
			Email:    res.User.Email,
		},
	}
	return c.state
}

func (c *Client) clear() {
	c.mu.Lock()
	c.state = State{}
	c.mu.Unlock()
}

// clearOnRejection logs out only when the service answered; transport and
// context failures leave the session for a later attempt.
func (c *Client) clearOnRejection(err error) {
	if isRejection(err) {
		c.clear()
	}
}

func isRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func cloneRequest(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("authclient: request body cannot be replayed")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("authclient: replay request body: %w", err)
	}
	retry.Body = body
	return retry, nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var res model.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&res)
		return &APIError{StatusCode: resp.StatusCode, Message: res.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("authclient: decode response: %w", err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
