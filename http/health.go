package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinkando/blog-auth-service/model"
	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 5 * time.Second

// HealthzHandler probes only the backends that were configured; a nil pool
// or client means that backend is not in use.
type HealthzHandler struct {
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
}

func NewHealthzHandler(e *echo.Echo, pgPool *pgxpool.Pool, redisClient *redis.Client) {
	healthzHandler := HealthzHandler{pgPool: pgPool, redisClient: redisClient}

	e.GET("/livez", healthzHandler.Livez)
	e.GET("/readyz", healthzHandler.Readyz)
}

func (hh *HealthzHandler) Livez(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (hh *HealthzHandler) Readyz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	if hh.pgPool != nil {
		if err := hh.pgPool.Ping(ctx); err != nil {
			logger.Context(ctx).Errorf("readyz: postgresql: %v", err)
			return c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "postgresql is unavailable"})
		}
	}

	if hh.redisClient != nil {
		if err := hh.redisClient.Ping(ctx).Err(); err != nil {
			logger.Context(ctx).Errorf("readyz: redis: %v", err)
			return c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "redis is unavailable"})
		}
	}

	return c.NoContent(http.StatusOK)
}
