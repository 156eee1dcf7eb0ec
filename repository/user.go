package repository

import (
	"context"
	_ "embed"
	"errors"
	"strings"
	"time"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	genmodel "github.com/kinkando/blog-auth-service/gen/blog/public/model"
	"github.com/kinkando/blog-auth-service/gen/blog/public/table"
	"github.com/kinkando/blog-auth-service/model"
	"github.com/kinkando/blog-auth-service/pkg/database/postgresql"
	"github.com/kinkando/blog-auth-service/pkg/generator"
	"github.com/kinkando/blog-auth-service/pkg/logger"
)

const uniqueViolationCode = "23505"

//go:embed schema.sql
var Schema string

// User is the account store. GetUser reports model.ErrUserNotFound for a
// missing record and CreateUser reports *model.ConflictError for a taken
// username or email.
type User interface {
	GetUser(ctx context.Context, filter model.UserFilter) (model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
}

type user struct {
	pgPool *pgxpool.Pool
}

func NewUserRepository(pgPool *pgxpool.Pool) User {
	return &user{
		pgPool: pgPool,
	}
}

func (r *user) GetUser(ctx context.Context, filter model.UserFilter) (model.User, error) {
	users := table.Users

	var condition postgres.BoolExpression
	if filter.UserID != "" {
		userID, err := uuid.Parse(filter.UserID)
		if err != nil {
			return model.User{}, model.ErrUserNotFound
		}
		condition = users.UserID.EQ(postgres.UUID(userID))
	} else if filter.Email != "" {
		condition = users.Email.EQ(postgres.String(filter.Email))
	} else {
		err := errors.New("filter must be provided")
		logger.Context(ctx).Error(err)
		return model.User{}, err
	}

	query, args := users.
		SELECT(users.UserID, users.Username, users.Email, users.Password, users.Xp, users.Level, users.CreatedAt).
		WHERE(condition).
		LIMIT(1).
		Sql()

	var row genmodel.Users
	err := r.pgPool.QueryRow(ctx, query, args...).Scan(&row.UserID, &row.Username, &row.Email, &row.Password, &row.Xp, &row.Level, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.User{}, err
	}

	return toUser(row), nil
}

func (r *user) CreateUser(ctx context.Context, req model.User) (model.User, error) {
	row := genmodel.Users{
		UserID:    uuid.MustParse(generator.UUID()),
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.PasswordHash,
		Xp:        0,
		Level:     1,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	err := postgresql.Commit(ctx, r.pgPool, func(ctx context.Context, tx pgx.Tx) error {
		if field, err := r.findConflict(ctx, tx, row.Username, row.Email); err != nil {
			return err
		} else if field != "" {
			return &model.ConflictError{Field: field}
		}

		users := table.Users
		stmt, args := users.
			INSERT(users.UserID, users.Username, users.Email, users.Password, users.Xp, users.Level, users.CreatedAt).
			MODEL(row).
			Sql()
		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			if field, ok := conflictField(err); ok {
				return &model.ConflictError{Field: field}
			}
			return err
		}
		return nil
	})
	if err != nil {
		var conflict *model.ConflictError
		if !errors.As(err, &conflict) {
			logger.Context(ctx).Error(err)
		}
		return model.User{}, err
	}

	return toUser(row), nil
}

// findConflict reports which unique field is already taken. Email wins when both are.
func (r *user) findConflict(ctx context.Context, tx pgx.Tx, username, email string) (string, error) {
	users := table.Users
	query, args := users.
		SELECT(users.Username, users.Email).
		WHERE(users.Email.EQ(postgres.String(email)).OR(users.Username.EQ(postgres.String(username)))).
		LIMIT(2).
		Sql()

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	existing := make([]genmodel.Users, 0, 2)
	for rows.Next() {
		var row genmodel.Users
		if err := rows.Scan(&row.Username, &row.Email); err != nil {
			return "", err
		}
		existing = append(existing, row)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return takenField(existing, email), nil
}

// takenField names the field that collides with existing rows; email wins.
func takenField(existing []genmodel.Users, email string) string {
	field := ""
	for _, row := range existing {
		if row.Email == email {
			return "email"
		}
		field = "username"
	}
	return field
}

// conflictField names the column behind a unique violation, which covers an
// insert racing past findConflict.
func conflictField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return "", false
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return "email", true
	}
	return "username", true
}

func toUser(row genmodel.Users) model.User {
	return model.User{
		UserID:       row.UserID.String(),
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.Password,
		XP:           row.Xp,
		Level:        row.Level,
		CreatedAt:    row.CreatedAt,
	}
}
