package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const RefreshTokenCookieName = "refresh_token"

// CookieManager owns the refresh token cookie. Nothing else writes it.
type CookieManager struct {
	secure bool
	maxAge time.Duration
}

func NewCookieManager(secure bool, maxAge time.Duration) *CookieManager {
	return &CookieManager{
		secure: secure,
		maxAge: maxAge,
	}
}

func (m *CookieManager) Set(c echo.Context, refreshToken string) {
	c.SetCookie(m.cookie(refreshToken, int(m.maxAge.Seconds())))
}

func (m *CookieManager) Get(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Clear expires the cookie immediately. net/http renders a negative MaxAge as "Max-Age=0".
func (m *CookieManager) Clear(c echo.Context) {
	c.SetCookie(m.cookie("", -1))
}

func (m *CookieManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshTokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
