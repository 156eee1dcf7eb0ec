package envconfig

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Parse loads an optional .env file and then fills cfg from the environment.
// Missing required variables are reported as an error.
func Parse[T any](cfg *T) error {
	if err := godotenv.Load(); err != nil {
		log.Warnf("unable to load configuration: %+v", err)
	}

	return env.Parse(cfg)
}
