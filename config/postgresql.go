package config

// PostgreSQLConfig is optional; an empty host keeps users in memory.
type PostgreSQLConfig struct {
	Host            string `env:"HOST"`
	Port            int    `env:"PORT" envDefault:"5432"`
	Username        string `env:"USERNAME"`
	Password        string `env:"PASSWORD"`
	DBName          string `env:"DATABASE"`
	SSLMode         string `env:"SSL_MODE" envDefault:"disable"`
	MaxConnLifetime int    `env:"MAX_CONNECTION_LIFE_TIME" envDefault:"15"`
	MaxOpenConns    int32  `env:"MAX_OPEN_CONNECTIONS" envDefault:"10"`
	MaxIdleConns    int32  `env:"MAX_IDLE_CONNECTIONS" envDefault:"2"`
}
