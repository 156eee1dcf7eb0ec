package repository

import (
	"context"
	"sync"
	"time"

	"github.com/kinkando/blog-auth-service/model"
	"github.com/kinkando/blog-auth-service/pkg/generator"
)

// MemoryUser keeps accounts in process memory. It backs local runs without
// PostgreSQL and the flow tests.
type MemoryUser struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
	byName  map[string]string
}

func NewMemoryUserRepository() *MemoryUser {
	return &MemoryUser{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}
}

func (r *MemoryUser) GetUser(ctx context.Context, filter model.UserFilter) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID := filter.UserID
	if userID == "" {
		userID = r.byEmail[filter.Email]
	}

	user, ok := r.byID[userID]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryUser) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return model.User{}, &model.ConflictError{Field: "email"}
	}
	if _, ok := r.byName[user.Username]; ok {
		return model.User{}, &model.ConflictError{Field: "username"}
	}

	user.UserID = generator.UUID()
	user.Level = 1
	user.CreatedAt = time.Now().UTC()

	r.byID[user.UserID] = user
	r.byEmail[user.Email] = user.UserID
	r.byName[user.Username] = user.UserID
	return user, nil
}

// DeleteUser removes an account; tokens issued for it stay verifiable until they expire.
func (r *MemoryUser) DeleteUser(ctx context.Context, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return
	}
	delete(r.byID, userID)
	delete(r.byEmail, user.Email)
	delete(r.byName, user.Username)
}
