package config

import "time"

type AppConfig struct {
	Environment         string        `env:"ENVIRONMENT" envDefault:"prod"`
	Port                int           `env:"PORT" envDefault:"3000"`
	AccessTokenSecret   string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenSecret  string        `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`
	AccessTokenExpired  time.Duration `env:"ACCESS_TOKEN_EXPIRED" envDefault:"15m"`
	RefreshTokenExpired time.Duration `env:"REFRESH_TOKEN_EXPIRED" envDefault:"168h"`
	BcryptCost          int           `env:"BCRYPT_COST" envDefault:"10"`
	LoginMaxAttempts    int64         `env:"LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	LoginAttemptWindow  time.Duration `env:"LOGIN_ATTEMPT_WINDOW" envDefault:"15m"`
	CORSAllowOrigins    []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// IsProduction reports whether cookies must carry the Secure flag.
func (c AppConfig) IsProduction() bool {
	return c.Environment == "prod"
}
