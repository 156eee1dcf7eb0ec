package httpmiddleware

import (
	"context"

	"github.com/kinkando/blog-auth-service/pkg/generator"
	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, res, ctx := c.Request(), c.Response(), c.Request().Context()
		traceID := req.Header.Get(echo.HeaderXRequestID)
		if traceID == "" {
			traceID = generator.UUID()
		}
		res.Header().Set(echo.HeaderXRequestID, traceID)
		c.Set(string(logger.RequestIDKey), traceID)

		ctx = context.WithValue(ctx, logger.RequestIDKey, traceID)
		*req = *req.WithContext(ctx)
		return next(c)
	}
}
