package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/blog-auth-service/model"
	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/kinkando/blog-auth-service/pkg/session"
	"github.com/kinkando/blog-auth-service/service"
	"github.com/labstack/echo/v4"
)

type AuthenHandler struct {
	authenService service.Authen
	userService   service.User
	cookieManager *session.CookieManager
	validate      *validator.Validate
}

func NewAuthenHandler(
	e *echo.Echo,
	validate *validator.Validate,
	authenService service.Authen,
	userService service.User,
	cookieManager *session.CookieManager,
	profileProvider echo.MiddlewareFunc,
) {
	handler := &AuthenHandler{
		authenService: authenService,
		userService:   userService,
		cookieManager: cookieManager,
		validate:      validate,
	}

	route := e.Group("/auth")
	route.POST("/login", handler.login)
	route.POST("/register", handler.register)
	route.POST("/refresh", handler.refresh)
	route.POST("/logout", handler.logout)
	route.GET("/me", handler.me, profileProvider)
}

func (h *AuthenHandler) login(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Warn(err)
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body"})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	session, err := h.authenService.Login(ctx, req)
	if err != nil {
		return responseError(c, err)
	}

	h.cookieManager.Set(c, session.RefreshToken)
	return c.JSON(http.StatusOK, model.SessionResponse{
		Message:     "Login successful",
		AccessToken: session.AccessToken,
		User:        session.User,
	})
}

func (h *AuthenHandler) register(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Warn(err)
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body"})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	session, err := h.authenService.Register(ctx, req)
	if err != nil {
		return responseError(c, err)
	}

	h.cookieManager.Set(c, session.RefreshToken)
	return c.JSON(http.StatusCreated, model.SessionResponse{
		Message:     "User registered successfully",
		AccessToken: session.AccessToken,
		User:        session.User,
	})
}

func (h *AuthenHandler) refresh(c echo.Context) error {
	ctx := c.Request().Context()

	refreshToken, _ := h.cookieManager.Get(c)
	session, err := h.authenService.Refresh(ctx, refreshToken)
	if err != nil {
		return responseError(c, err)
	}

	h.cookieManager.Set(c, session.RefreshToken)
	return c.JSON(http.StatusOK, model.RefreshResponse{
		Message:     "Token refreshed successfully",
		AccessToken: session.AccessToken,
	})
}

// logout is idempotent and needs no credentials: it only expires the cookie.
func (h *AuthenHandler) logout(c echo.Context) error {
	h.cookieManager.Clear(c)
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Successfully logged out"})
}

func (h *AuthenHandler) me(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.GetUserInfo(ctx)
	if err != nil {
		return responseError(c, err)
	}

	return c.JSON(http.StatusOK, model.UserResponse{User: user})
}
