package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/blog-auth-service/model"
	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

var internalServerErrorMessage = capitalize(model.ErrInternal.Error())

// responseError maps a flow error to its status and a client-safe message.
// Anything outside the taxonomy is logged in full and answered generically.
func responseError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	var conflict *model.ConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, model.ErrorResponse{Error: fmt.Sprintf("User with this %s already exists", conflict.Field)})
	case errors.Is(err, model.ErrValidation):
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: capitalize(err.Error())})
	case errors.Is(err, model.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, model.ErrTooManyAttempts):
		return c.JSON(http.StatusTooManyRequests, model.ErrorResponse{Error: capitalize(err.Error())})
	case errors.Is(err, model.ErrRefreshTokenMissing):
		return c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Refresh token not found"})
	case errors.Is(err, model.ErrRefreshTokenInvalid):
		return c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Invalid or expired refresh token"})
	case errors.Is(err, model.ErrSessionUserNotFound):
		return c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "User not found"})
	case errors.Is(err, model.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Authentication required"})
	case errors.Is(err, model.ErrNotFound):
		return c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "User not found"})
	}

	logger.Context(ctx).Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: internalServerErrorMessage})
}

// validationError renders the first failing field of a validator error.
func validationError(c echo.Context, err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body"})
	}

	fe := fieldErrors[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]

	var message string
	switch fe.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", field)
	case "email":
		message = fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		message = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		message = fmt.Sprintf("%s is invalid", field)
	}
	return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: capitalize(message)})
}

// HTTPErrorHandler is the outermost boundary: framework errors keep their
// status, anything else becomes a generic 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		if err := c.JSON(he.Code, model.ErrorResponse{Error: message}); err != nil {
			logger.Context(c.Request().Context()).Error(err)
		}
		return
	}

	if err := responseError(c, err); err != nil {
		logger.Context(c.Request().Context()).Error(err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
