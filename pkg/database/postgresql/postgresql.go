package postgresql

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinkando/blog-auth-service/pkg/logger"
)

type Option interface {
	apply(*postgreSQL)
}

type optionFunc func(*postgreSQL)

func (o optionFunc) apply(pgsql *postgreSQL) {
	o(pgsql)
}

func WithHost(host string) Option {
	return optionFunc(func(pgsql *postgreSQL) {
		pgsql.host = host
	})
}

func WithPort(port int) Option {
	return optionFunc(func(pgsql *postgreSQL) {
		pgsql.port = port
	})
}

func WithUsername(username string) Option {
	return optionFunc(func(pgsql *postgreSQL) {
		pgsql.username = username
	})
}

func WithPassword(password string) Option {
	return optionFunc(func(pgsql *postgreSQL) {
		pgsql.password = password
	})
}

func WithDBName(dbName string) Option {
	return optionFunc(func(pgsql *postgreSQL) {
		pgsql.dbName = dbName
	})
}

func WithQueryString(key, value string) Option {
	return optionFunc(func(pgsql *postgreSQL) {
		pgsql.queryString.Set(key, value)
	})
}

func WithMaxConnLifetime(d time.Duration) Option {
	return optionFunc(func(pgsql *postgreSQL) {
		pgsql.maxConnLifetime = d
	})
}

func WithMaxOpenConns(maxOpenConns int32) Option {
	return optionFunc(func(pgsql *postgreSQL) {
		pgsql.maxOpenConns = maxOpenConns
	})
}

func WithMaxIdleConns(maxIdleConns int32) Option {
	return optionFunc(func(pgsql *postgreSQL) {
		pgsql.maxIdleConns = maxIdleConns
	})
}

type postgreSQL struct {
	host                string
	port                int
	username            string
	password            string
	dbName              string
	queryString         url.Values
	maxOpenConns        int32
	maxConnLifetime     time.Duration
	maxIdleConns        int32
	maxIdleConnLifetime time.Duration
}

// New opens and pings a connection pool.
func New(ctx context.Context, options ...Option) (*pgxpool.Pool, error) {
	pgsql := postgreSQL{
		port:                5432,
		queryString:         url.Values{},
		maxOpenConns:        10,
		maxConnLifetime:     15 * time.Minute,
		maxIdleConnLifetime: 15 * time.Minute,
	}
	for _, o := range options {
		o.apply(&pgsql)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pgURL := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(pgsql.username, pgsql.password),
		Host:     net.JoinHostPort(pgsql.host, strconv.Itoa(pgsql.port)),
		Path:     "/" + pgsql.dbName,
		RawQuery: pgsql.queryString.Encode(),
	}

	logger.Infof("postgresql: connecting to %s", pgURL.Redacted())

	pgCfg, err := pgxpool.ParseConfig(pgURL.String())
	if err != nil {
		return nil, fmt.Errorf("postgresql: parse config: %w", err)
	}
	pgCfg.ConnConfig.Config.ConnectTimeout = 10 * time.Second
	pgCfg.MaxConnLifetime = pgsql.maxConnLifetime
	pgCfg.MaxConns = pgsql.maxOpenConns
	if pgsql.maxIdleConns > pgsql.maxOpenConns {
		pgsql.maxIdleConns = pgsql.maxOpenConns
	}
	pgCfg.MaxConnIdleTime = pgsql.maxIdleConnLifetime
	pgCfg.MinConns = pgsql.maxIdleConns

	pgPool, err := pgxpool.NewWithConfig(connectCtx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("postgresql: connect: %w", err)
	}

	if err = pgPool.Ping(connectCtx); err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("postgresql: ping: %w", err)
	}

	logger.Infof("postgresql: connected to %s:%d/%s", pgsql.host, pgsql.port, pgsql.dbName)
	return pgPool, nil
}

func Shutdown(pgPool *pgxpool.Pool) {
	logger.Info("postgresql: shutting down")
	pgPool.Close()
	logger.Info("postgresql: shutdown")
}
