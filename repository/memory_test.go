package repository

import (
	"context"
	"testing"

	"github.com/kinkando/blog-auth-service/model"
	"github.com/stretchr/testify/require"
)

func TestMemoryUser(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepository()

	created, err := r.CreateUser(ctx, model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	require.NotEmpty(t, created.UserID)
	require.Equal(t, int32(1), created.Level)
	require.False(t, created.CreatedAt.IsZero())

	byID, err := r.GetUser(ctx, model.UserFilter{UserID: created.UserID})
	require.NoError(t, err)
	require.Equal(t, created, byID)

	byEmail, err := r.GetUser(ctx, model.UserFilter{Email: "alice@example.com"})
	require.NoError(t, err)
	require.Equal(t, created, byEmail)

	t.Run("conflicts name the field", func(t *testing.T) {
		_, err := r.CreateUser(ctx, model.User{Username: "alice", Email: "new@example.com"})
		var conflict *model.ConflictError
		require.ErrorAs(t, err, &conflict)
		require.Equal(t, "username", conflict.Field)

		_, err = r.CreateUser(ctx, model.User{Username: "alice2", Email: "alice@example.com"})
		require.ErrorAs(t, err, &conflict)
		require.Equal(t, "email", conflict.Field)

		_, err = r.CreateUser(ctx, model.User{Username: "alice", Email: "alice@example.com"})
		require.ErrorAs(t, err, &conflict)
		require.Equal(t, "email", conflict.Field)
	})

	t.Run("deleted user is not found", func(t *testing.T) {
		r.DeleteUser(ctx, created.UserID)
		_, err := r.GetUser(ctx, model.UserFilter{UserID: created.UserID})
		require.ErrorIs(t, err, model.ErrUserNotFound)
		_, err = r.GetUser(ctx, model.UserFilter{Email: "alice@example.com"})
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})
}
