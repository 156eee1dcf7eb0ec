package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kinkando/blog-auth-service/pkg/profile"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const validToken = "header.payload.signature"

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(token string) (profile.Profile, bool) {
	if token != validToken {
		return profile.Profile{}, false
	}
	return profile.Profile{UserID: "u1", Username: "alice", Email: "alice@example.com"}, true
}

func serve(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	invoked := false
	e := echo.New()
	e.GET("/auth/me", func(c echo.Context) error {
		invoked = true

		fromCtx, err := profile.UseProfile(c.Request().Context())
		require.NoError(t, err)
		fromEcho, ok := c.Get(profile.ProfileKey).(profile.Profile)
		require.True(t, ok)
		require.Equal(t, fromCtx, fromEcho)

		return c.JSON(http.StatusTeapot, fromCtx)
	}, NewProfileProvider(stubVerifier{}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, invoked
}

func TestNewProfileProvider_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"absent header", "", ErrAuthenticationRequired},
		{"scheme only", "Bearer", ErrAuthenticationRequired},
		{"scheme with trailing space", "Bearer ", ErrAuthenticationRequired},
		{"wrong scheme", "Basic " + validToken, ErrAuthenticationRequired},
		{"lowercase scheme", "bearer " + validToken, ErrAuthenticationRequired},
		{"double space", "Bearer  " + validToken, ErrAuthenticationRequired},
		{"token with extra part", "Bearer " + validToken + " extra", ErrAuthenticationRequired},
		{"unverifiable token", "Bearer forged.token.value", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, invoked := serve(t, tt.header)

			require.False(t, invoked, "handler must not run")
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.message, body["error"])
		})
	}
}

func TestNewProfileProvider_Admits(t *testing.T) {
	rec, invoked := serve(t, "Bearer "+validToken)

	require.True(t, invoked)
	require.Equal(t, http.StatusTeapot, rec.Code, "handler result is returned unchanged")

	var got profile.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "alice", got.Username)
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID)
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("requestID").(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set(echo.HeaderXRequestID, "fixed-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, "fixed-id", rec.Body.String())
	require.Equal(t, "fixed-id", rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
