package config

// RedisConfig is optional; without a host the login throttle is disabled.
type RedisConfig struct {
	Host         string `env:"HOST"`
	Port         int    `env:"PORT" envDefault:"6379"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	DB           int    `env:"DB"`
	MaxRetries   int    `env:"MAX_RETRIES" envDefault:"3"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNECTIONS" envDefault:"2"`
}
