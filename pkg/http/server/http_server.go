package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type contextKey string

const responseKey contextKey = "response"

// HTTPServer is the top-level wrapper instance of Echo.
type HTTPServer interface {
	ListenAndServe()
	GracefulShutdown()
	Routers() *echo.Echo
}

// Option wraps an apply method to bind optional arguments to HTTP server
type Option interface {
	apply(*httpServer)
}

type optionFunc func(*httpServer)

func (o optionFunc) apply(hs *httpServer) {
	o(hs)
}

// WithPort binds a port that will listen and serve an HTTP
func WithPort(port int) Option {
	return optionFunc(func(hs *httpServer) {
		hs.port = port
	})
}

// WithMiddlewares binds middlewares to HTTP server
func WithMiddlewares(middlewares ...echo.MiddlewareFunc) Option {
	return optionFunc(func(hs *httpServer) {
		hs.middlewares = append(hs.middlewares, middlewares...)
	})
}

// WithCORSConfig binds CORS configuration to HTTP server. Credentialed
// requests cannot use a wildcard origin, so an empty list keeps the defaults.
func WithCORSConfig(cors *CORSConfig) Option {
	return optionFunc(func(hs *httpServer) {
		if len(cors.AllowOrigins) > 0 {
			hs.corsConfig.AllowOrigins = cors.AllowOrigins
		}
		if len(cors.AllowHeaders) > 0 {
			hs.corsConfig.AllowHeaders = cors.AllowHeaders
		}
		if len(cors.AllowMethods) > 0 {
			hs.corsConfig.AllowMethods = cors.AllowMethods
		}
	})
}

// WithLoggingSkipper binds logging skipper to HTTP server
func WithLoggingSkipper(skipper *LoggingSkipper) Option {
	return optionFunc(func(hs *httpServer) {
		hs.loggingSkipper = skipper
	})
}

// WithHTTPErrorHandler replaces echo's default error handler
func WithHTTPErrorHandler(handler echo.HTTPErrorHandler) Option {
	return optionFunc(func(hs *httpServer) {
		hs.errorHandler = handler
	})
}

type CORSConfig struct {
	AllowOrigins []string
	AllowHeaders []string
	AllowMethods []string
}

type httpServer struct {
	// port is the port that the server will listen and serve
	port int
	// router is the instance of Echo
	router *echo.Echo
	// middlewares is the list of middlewares that will be applied to the server
	middlewares []echo.MiddlewareFunc
	// corsConfig is the CORS configuration of the server
	corsConfig *CORSConfig
	// loggingSkipper is the skipper for logging
	loggingSkipper *LoggingSkipper
	// errorHandler renders errors returned by handlers and middlewares
	errorHandler echo.HTTPErrorHandler
}

type LoggingSkipper struct {
	LoggingSkipper     echomiddleware.Skipper
	BeforeNextSkippers []echomiddleware.Skipper
	LogValuesSkippers  []echomiddleware.Skipper
}

// New creates an instance of HTTPServer
func New(options ...Option) HTTPServer {
	hs := &httpServer{
		port: 3000,
		corsConfig: &CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
		},
		loggingSkipper: &LoggingSkipper{
			LoggingSkipper:     HealthCheckSkipper,
			BeforeNextSkippers: make([]echomiddleware.Skipper, 0),
			LogValuesSkippers:  make([]echomiddleware.Skipper, 0),
		},
	}
	for _, o := range options {
		o.apply(hs)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if hs.errorHandler != nil {
		e.HTTPErrorHandler = hs.errorHandler
	}

	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Context(c.Request().Context()).With(zap.ByteString("stacktrace", stack)).Errorf("panic recovered: %v", err)
			return err
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     hs.corsConfig.AllowOrigins,
		AllowHeaders:     hs.corsConfig.AllowHeaders,
		AllowMethods:     hs.corsConfig.AllowMethods,
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.GzipWithConfig(echomiddleware.GzipConfig{Level: 6}))
	e.Use(echomiddleware.RemoveTrailingSlash())

	// request id must run before the request logger reads it from the context
	if len(hs.middlewares) > 0 {
		e.Use(hs.middlewares...)
	}

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper: hs.loggingSkipper.LoggingSkipper,
		BeforeNextFunc: func(c echo.Context) {
			if hs.loggingSkipper != nil {
				for _, skipper := range hs.loggingSkipper.BeforeNextSkippers {
					if skipper(c) {
						return
					}
				}
			}

			req := c.Request()
			ctx := req.Context()
			method, path := req.Method, req.URL.Path
			logWiths := make([]any, 0)

			requestCustomObject := map[string]any{
				"headers": transformHeader(req.Header),
			}

			if query := req.URL.Query(); len(query) != 0 {
				requestCustomObject["query"] = query
			}

			if req.Header.Get(echo.HeaderContentType) == echo.MIMEApplicationJSON && req.Body != nil {
				body, err := io.ReadAll(req.Body)
				if err != nil {
					logWiths = append(logWiths, zap.Any("request", requestCustomObject))
					logger.Context(ctx).With(logWiths...).Infof("handling request %s %s", method, path)
					return
				}
				defer req.Body.Close()

				// Restore the request body for further use
				req.Body = io.NopCloser(bytes.NewReader(body))

				var payload any
				if err = json.Unmarshal(body, &payload); err == nil && payload != nil {
					requestCustomObject["payload"] = redactPayload(payload)
				}
			}

			logWiths = append(logWiths, zap.Any("request", requestCustomObject))

			logger.Context(ctx).With(logWiths...).Infof("handling %s %s", method, path)
		},
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			for _, skipper := range hs.loggingSkipper.LogValuesSkippers {
				if skipper(c) {
					return nil
				}
			}

			req := c.Request()
			ctx := req.Context()

			fields := []any{
				zap.String("method", v.Method),
				zap.String("url", v.URI),
				zap.String("status", fmt.Sprintf("%d %s", v.Status, http.StatusText(v.Status))),
				zap.String("latency", v.Latency.String()),
				zap.String("userAgent", v.UserAgent),
				zap.Time("time", v.StartTime),
			}
			if queryParams := req.URL.Query(); len(queryParams) > 0 {
				fields = append(fields, zap.Any("query", queryParams))
			}

			if response := ctx.Value(responseKey); response != nil {
				fields = append(fields, zap.Any("response", response))
			}

			if v.Error != nil && !errors.Is(v.Error, http.ErrBodyNotAllowed) {
				fields = append(fields, zap.Error(v.Error))
			}

			logger.Context(ctx).With(fields...).Infof("handled %s %s %d %s %s", v.Method, req.URL.Path, v.Status, http.StatusText(v.Status), v.Latency.String())
			return nil
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogError:     true,
		LogUserAgent: true,
	}))

	e.Use(echomiddleware.BodyDumpWithConfig(echomiddleware.BodyDumpConfig{
		Skipper: HealthCheckSkipper,
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			req, ctx := c.Request(), c.Request().Context()
			responseCustomObject := map[string]any{
				"headers": transformHeader(c.Response().Header()),
			}

			if req.Method != http.MethodGet && len(resBody) > 0 {
				var data any
				if err := json.Unmarshal(resBody, &data); err == nil && data != nil {
					responseCustomObject["data"] = redactPayload(data)
				}
			}

			ctx = context.WithValue(ctx, responseKey, responseCustomObject)
			*req = *req.WithContext(ctx)
		},
	}))

	hs.router = e

	return hs
}

func (hs *httpServer) ListenAndServe() {
	go func() {
		if err := hs.router.Start(":" + strconv.Itoa(hs.port)); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("httpserver: listen and serve at port %d: %s", hs.port, err.Error())
		}
	}()
	logger.Infof("httpserver: listening at port %d", hs.port)
}

func (hs *httpServer) GracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-quit
	logger.Info("received a sigterm, sigint, or os interrupt signal -> graceful shutting down")
	logger.Info("httpserver: shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.router.Shutdown(ctx); err != nil {
		logger.Fatalf("httpserver: shutdown: %s", err.Error())
	}
	logger.Info("httpserver: shutdown")
}

func (hs *httpServer) Routers() *echo.Echo {
	return hs.router
}

func HealthCheckSkipper(c echo.Context) bool {
	req := c.Request()
	return (req.Method == http.MethodGet && req.URL.Path == "/livez") ||
		(req.Method == http.MethodGet && req.URL.Path == "/readyz")
}
