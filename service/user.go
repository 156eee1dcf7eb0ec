package service

import (
	"context"
	"fmt"

	"github.com/kinkando/blog-auth-service/model"
	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/kinkando/blog-auth-service/pkg/profile"
	"github.com/kinkando/blog-auth-service/repository"
)

type User interface {
	GetUserInfo(ctx context.Context) (model.UserProfile, error)
}

type user struct {
	userRepository repository.User
}

func NewUserService(userRepository repository.User) User {
	return &user{
		userRepository: userRepository,
	}
}

// GetUserInfo loads the account of the authenticated principal in ctx.
func (s *user) GetUserInfo(ctx context.Context) (model.UserProfile, error) {
	userProfile, err := profile.UseProfile(ctx)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("%w: %v", model.ErrUnauthorized, err)
	}

	userInfo, err := s.userRepository.GetUser(ctx, model.UserFilter{UserID: userProfile.UserID})
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.UserProfile{}, err
	}

	return userInfo.Profile(), nil
}
