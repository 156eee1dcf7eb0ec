package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCookieManager_Set(t *testing.T) {
	m := NewCookieManager(true, 7*24*time.Hour)
	c, rec := newContext()

	m.Set(c, "token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	require.Equal(t, RefreshTokenCookieName, cookie.Name)
	require.Equal(t, "token-value", cookie.Value)
	require.Equal(t, 604800, cookie.MaxAge)
	require.Equal(t, "/", cookie.Path)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestCookieManager_SetInsecure(t *testing.T) {
	m := NewCookieManager(false, time.Hour)
	c, rec := newContext()

	m.Set(c, "token-value")

	header := rec.Header().Get(echo.HeaderSetCookie)
	require.NotContains(t, header, "Secure")
	require.Contains(t, header, "HttpOnly")
	require.Contains(t, header, "SameSite=Strict")
}

func TestCookieManager_Clear(t *testing.T) {
	m := NewCookieManager(true, time.Hour)
	c, rec := newContext()

	m.Clear(c)

	header := rec.Header().Get(echo.HeaderSetCookie)
	require.True(t, strings.HasPrefix(header, RefreshTokenCookieName+"=;"))
	require.Contains(t, header, "Max-Age=0")
	require.Contains(t, header, "Path=/")
	require.Contains(t, header, "HttpOnly")
	require.Contains(t, header, "Secure")
	require.Contains(t, header, "SameSite=Strict")
}

func TestCookieManager_Get(t *testing.T) {
	m := NewCookieManager(false, time.Hour)
	e := echo.New()

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
		ok     bool
	}{
		{"absent", nil, "", false},
		{"empty", &http.Cookie{Name: RefreshTokenCookieName, Value: ""}, "", false},
		{"other cookie", &http.Cookie{Name: "theme", Value: "dark"}, "", false},
		{"present", &http.Cookie{Name: RefreshTokenCookieName, Value: "abc.def.ghi"}, "abc.def.ghi", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			got, ok := m.Get(c)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
