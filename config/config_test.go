package config

import (
	"testing"
	"time"

	"github.com/kinkando/blog-auth-service/pkg/envconfig"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ACCESS_TOKEN_SECRET", "access")
	t.Setenv("APP_REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("REDIS_MAX_RETRIES", "5")

	var cfg Config
	require.NoError(t, envconfig.Parse(&cfg))

	require.Equal(t, 15*time.Minute, cfg.App.AccessTokenExpired)
	require.Equal(t, 7*24*time.Hour, cfg.App.RefreshTokenExpired)
	require.True(t, cfg.App.IsProduction())
	require.Equal(t, "disable", cfg.PostgreSQL.SSLMode)
	require.Equal(t, 5, cfg.Redis.MaxRetries)
	require.Equal(t, 2, cfg.Redis.MaxIdleConns)
}

func TestConfig_SecretsAreRequired(t *testing.T) {
	t.Setenv("APP_ACCESS_TOKEN_SECRET", "")
	t.Setenv("APP_REFRESH_TOKEN_SECRET", "")

	var cfg Config
	require.Error(t, envconfig.Parse(&cfg))
}
