package main

import (
	"context"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinkando/blog-auth-service/config"
	"github.com/kinkando/blog-auth-service/http"
	"github.com/kinkando/blog-auth-service/pkg/database/postgresql"
	"github.com/kinkando/blog-auth-service/pkg/database/redis"
	"github.com/kinkando/blog-auth-service/pkg/envconfig"
	httpmiddleware "github.com/kinkando/blog-auth-service/pkg/http/middleware"
	httpserver "github.com/kinkando/blog-auth-service/pkg/http/server"
	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/kinkando/blog-auth-service/pkg/password"
	"github.com/kinkando/blog-auth-service/pkg/session"
	"github.com/kinkando/blog-auth-service/repository"
	"github.com/kinkando/blog-auth-service/service"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	var cfg config.Config
	if err := envconfig.Parse(&cfg); err != nil {
		log.Fatal(err)
	}
	logger.New(cfg.App.Environment)
	defer logger.Sync()

	ctx := context.Background()

	jwtService, err := service.NewJWTService(
		cfg.App.AccessTokenSecret,
		cfg.App.RefreshTokenSecret,
		cfg.App.AccessTokenExpired,
		cfg.App.RefreshTokenExpired,
	)
	if err != nil {
		logger.Fatal(err)
	}

	pgPool, userRepository := newUserRepository(ctx, cfg.PostgreSQL)
	if pgPool != nil {
		defer postgresql.Shutdown(pgPool)
	}

	redisClient := newRedisClient(ctx, cfg.Redis)
	if redisClient != nil {
		defer redis.Shutdown(redisClient)
	}

	passwordHasher, err := password.NewHasher(cfg.App.BcryptCost)
	if err != nil {
		logger.Fatal(err)
	}

	cacheRepository := repository.NewCacheRepository(redisClient, cfg.App.LoginAttemptWindow)

	authenService := service.NewAuthenService(userRepository, cacheRepository, jwtService, passwordHasher, cfg.App.LoginMaxAttempts)
	userService := service.NewUserService(userRepository)

	httpServer := httpserver.New(
		httpserver.WithPort(cfg.App.Port),
		httpserver.WithCORSConfig(&httpserver.CORSConfig{AllowOrigins: cfg.App.CORSAllowOrigins}),
		httpserver.WithMiddlewares(httpmiddleware.RequestID),
		httpserver.WithHTTPErrorHandler(http.HTTPErrorHandler),
	)

	e := httpServer.Routers()
	validate := validator.New()
	cookieManager := session.NewCookieManager(cfg.App.IsProduction(), jwtService.RefreshTokenTTL())
	profileProvider := httpmiddleware.NewProfileProvider(jwtService)

	http.NewHealthzHandler(e, pgPool, redisClient)
	http.NewAuthenHandler(e, validate, authenService, userService, cookieManager, profileProvider)

	httpServer.ListenAndServe()
	httpServer.GracefulShutdown()
}

func newUserRepository(ctx context.Context, cfg config.PostgreSQLConfig) (*pgxpool.Pool, repository.User) {
	if cfg.Host == "" {
		logger.Warn("postgresql host is not set, users are kept in memory")
		return nil, repository.NewMemoryUserRepository()
	}

	pgPool, err := postgresql.New(ctx,
		postgresql.WithHost(cfg.Host),
		postgresql.WithPort(cfg.Port),
		postgresql.WithUsername(cfg.Username),
		postgresql.WithPassword(cfg.Password),
		postgresql.WithDBName(cfg.DBName),
		postgresql.WithQueryString("sslmode", cfg.SSLMode),
		postgresql.WithMaxConnLifetime(time.Duration(cfg.MaxConnLifetime)*time.Minute),
		postgresql.WithMaxOpenConns(cfg.MaxOpenConns),
		postgresql.WithMaxIdleConns(cfg.MaxIdleConns),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := postgresql.Migrate(ctx, pgPool, repository.Schema); err != nil {
		logger.Fatal(err)
	}

	return pgPool, repository.NewUserRepository(pgPool)
}

func newRedisClient(ctx context.Context, cfg config.RedisConfig) *goredis.Client {
	if cfg.Host == "" {
		logger.Warn("redis host is not set, login throttling is disabled")
		return nil
	}

	redisClient, err := redis.NewClient(ctx,
		redis.WithHost(cfg.Host),
		redis.WithPort(cfg.Port),
		redis.WithUsername(cfg.Username),
		redis.WithPassword(cfg.Password),
		redis.WithDB(cfg.DB),
		redis.WithMaxRetries(cfg.MaxRetries),
		redis.WithMaxIdleConns(cfg.MaxIdleConns),
	)
	if err != nil {
		logger.Fatal(err)
	}
	return redisClient
}
