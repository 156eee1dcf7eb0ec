package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kinkando/blog-auth-service/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const applicationPrefix = "BLOG_AUTH"

// Cache counts failed logins per account. A nil redis client disables it.
type Cache interface {
	LoginFailures(ctx context.Context, email string) (int64, error)
	AddLoginFailure(ctx context.Context, email string) (int64, error)
	ResetLoginFailures(ctx context.Context, email string) error
}

type cache struct {
	db                 *goredis.Client
	loginAttemptWindow time.Duration
}

func NewCacheRepository(client *goredis.Client, loginAttemptWindow time.Duration) Cache {
	return &cache{
		db:                 client,
		loginAttemptWindow: loginAttemptWindow,
	}
}

func loginAttemptKey(email string) string {
	return fmt.Sprintf("%s:LOGIN_ATTEMPT:%s", applicationPrefix, email)
}

func (r *cache) LoginFailures(ctx context.Context, email string) (int64, error) {
	if r.db == nil {
		return 0, nil
	}

	count, err := r.db.Get(ctx, loginAttemptKey(email)).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		logger.Context(ctx).Error(err)
		return 0, err
	}
	return count, nil
}

func (r *cache) AddLoginFailure(ctx context.Context, email string) (int64, error) {
	if r.db == nil {
		return 0, nil
	}

	key := loginAttemptKey(email)
	count, err := r.db.Incr(ctx, key).Result()
	if err != nil {
		logger.Context(ctx).Error(err)
		return 0, err
	}

	if count == 1 {
		if err := r.db.Expire(ctx, key, r.loginAttemptWindow).Err(); err != nil {
			logger.Context(ctx).Error(err)
			return 0, err
		}
	}
	return count, nil
}

func (r *cache) ResetLoginFailures(ctx context.Context, email string) error {
	if r.db == nil {
		return nil
	}

	if err := r.db.Del(ctx, loginAttemptKey(email)).Err(); err != nil {
		logger.Context(ctx).Error(err)
		return err
	}
	return nil
}
