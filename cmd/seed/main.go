package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/kinkando/blog-auth-service/config"
	"github.com/kinkando/blog-auth-service/model"
	"github.com/kinkando/blog-auth-service/pkg/database/postgresql"
	"github.com/kinkando/blog-auth-service/pkg/envconfig"
	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/kinkando/blog-auth-service/pkg/password"
	"github.com/kinkando/blog-auth-service/repository"
)

type seedConfig struct {
	Environment string                  `env:"APP_ENVIRONMENT" envDefault:"local"`
	BcryptCost  int                     `env:"APP_BCRYPT_COST" envDefault:"10"`
	File        string                  `env:"SEED_FILE" envDefault:"cmd/seed/users.csv"`
	PostgreSQL  config.PostgreSQLConfig `envPrefix:"POSTGRESQL_"`
}

func main() {
	var cfg seedConfig
	if err := envconfig.Parse(&cfg); err != nil {
		log.Fatal(err)
	}
	logger.New(cfg.Environment)
	defer logger.Sync()

	if cfg.PostgreSQL.Host == "" {
		logger.Fatal("POSTGRESQL_HOST is required to seed users")
	}

	ctx := context.Background()
	pgPool, err := postgresql.New(ctx,
		postgresql.WithHost(cfg.PostgreSQL.Host),
		postgresql.WithPort(cfg.PostgreSQL.Port),
		postgresql.WithUsername(cfg.PostgreSQL.Username),
		postgresql.WithPassword(cfg.PostgreSQL.Password),
		postgresql.WithDBName(cfg.PostgreSQL.DBName),
		postgresql.WithQueryString("sslmode", cfg.PostgreSQL.SSLMode),
		postgresql.WithMaxConnLifetime(time.Duration(cfg.PostgreSQL.MaxConnLifetime)*time.Minute),
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer postgresql.Shutdown(pgPool)

	if err := postgresql.Migrate(ctx, pgPool, repository.Schema); err != nil {
		logger.Fatal(err)
	}

	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		logger.Fatal(err)
	}

	rows, err := readUsers(cfg.File)
	if err != nil {
		logger.Fatal(err)
	}

	created, skipped := seed(ctx, repository.NewUserRepository(pgPool), hasher, rows)
	logger.Infof("seed: %d users created, %d skipped", created, skipped)
}

func readUsers(path string) ([]model.UserCSV, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []model.UserCSV
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// seed creates every row that does not exist yet, so it can be run repeatedly.
func seed(ctx context.Context, userRepository repository.User, hasher *password.Hasher, rows []model.UserCSV) (created, skipped int) {
	for _, row := range rows {
		hash, err := hasher.Hash(row.Password)
		if err != nil {
			logger.Errorf("seed: hash password for %s: %v", row.Username, err)
			skipped++
			continue
		}

		user, err := userRepository.CreateUser(ctx, model.User{
			Username:     strings.TrimSpace(row.Username),
			Email:        strings.ToLower(strings.TrimSpace(row.Email)),
			PasswordHash: hash,
		})
		if errors.Is(err, model.ErrConflict) {
			logger.Infof("seed: %s already exists", row.Username)
			skipped++
			continue
		}
		if err != nil {
			logger.Errorf("seed: create %s: %v", row.Username, err)
			skipped++
			continue
		}

		logger.Infof("seed: created %s (%s)", user.Username, user.UserID)
		created++
	}
	return created, skipped
}
