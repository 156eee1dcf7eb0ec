package httpmiddleware

import (
	"net/http"
	"strings"

	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/kinkando/blog-auth-service/pkg/profile"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

const (
	ErrAuthenticationRequired = "Authentication required"
	ErrInvalidToken           = "Invalid or expired token"
)

type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (profile.Profile, bool)
}

// NewProfileProvider admits a request only when it carries a valid access
// token as "Bearer <token>". The verified profile is put on the request
// context and on the echo context. No storage is consulted, so an account
// deleted after issuance keeps passing until its token expires.
func NewProfileProvider(verifier AccessTokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			tokenString, ok := extractBearerToken(req.Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c, ErrAuthenticationRequired)
			}

			userProfile, ok := verifier.VerifyAccessToken(tokenString)
			if !ok {
				logger.Context(ctx).Debugf("rejected access token for %s %s", req.Method, req.URL.Path)
				return unauthorized(c, ErrInvalidToken)
			}

			c.Set(profile.ProfileKey, userProfile)
			*req = *req.WithContext(profile.WithProfile(ctx, userProfile))

			return next(c)
		}
	}
}

func extractBearerToken(authHeader string) (string, bool) {
	token, found := strings.CutPrefix(authHeader, bearerPrefix)
	if !found || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func unauthorized(c echo.Context, message string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": message})
}
