package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kinkando/blog-auth-service/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultMaxRetries          = 3
	defaultMaxIdleConnLifetime = 30 * time.Minute
)

type Option interface {
	apply(*redis)
}

type optionFunc func(*redis)

func (o optionFunc) apply(r *redis) {
	o(r)
}

func WithHost(host string) Option {
	return optionFunc(func(r *redis) {
		r.host = host
	})
}

func WithPort(port int) Option {
	return optionFunc(func(r *redis) {
		r.port = port
	})
}

func WithUsername(username string) Option {
	return optionFunc(func(r *redis) {
		r.username = username
	})
}

func WithPassword(password string) Option {
	return optionFunc(func(r *redis) {
		r.password = password
	})
}

func WithDB(db int) Option {
	return optionFunc(func(r *redis) {
		r.db = db
	})
}

func WithMaxRetries(n int) Option {
	return optionFunc(func(r *redis) {
		r.maxRetries = n
	})
}

func WithMaxIdleConns(n int) Option {
	return optionFunc(func(r *redis) {
		r.maxIdleConns = n
	})
}

type redis struct {
	host                string
	port                int
	username            string
	password            string
	db                  int
	maxRetries          int
	maxIdleConns        int
	maxIdleConnLifetime time.Duration
}

// NewClient connects and pings redis.
func NewClient(ctx context.Context, options ...Option) (*goredis.Client, error) {
	r := &redis{
		port:                6379,
		maxRetries:          defaultMaxRetries,
		maxIdleConnLifetime: defaultMaxIdleConnLifetime,
	}
	for _, o := range options {
		o.apply(r)
	}

	addr := net.JoinHostPort(r.host, strconv.Itoa(r.port))
	logger.Infof("redis: connecting to %s", addr)

	client := goredis.NewClient(&goredis.Options{
		Addr:            addr,
		Username:        r.username,
		Password:        r.password,
		DB:              r.db,
		MaxRetries:      r.maxRetries,
		MaxIdleConns:    r.maxIdleConns,
		ConnMaxIdleTime: r.maxIdleConnLifetime,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	logger.Infof("redis: connected to %s", addr)
	return client, nil
}

func Shutdown(r *goredis.Client) {
	logger.Info("redis: shutting down")
	if err := r.Close(); err != nil {
		logger.Errorf("redis: close: %s", err.Error())
		return
	}
	logger.Info("redis: shutdown")
}
