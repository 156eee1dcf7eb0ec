package config

// Config is read once at startup; only App is mandatory.
type Config struct {
	App        AppConfig        `envPrefix:"APP_"`
	Redis      RedisConfig      `envPrefix:"REDIS_"`
	PostgreSQL PostgreSQLConfig `envPrefix:"POSTGRESQL_"`
}
