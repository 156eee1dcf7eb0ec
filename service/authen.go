package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kinkando/blog-auth-service/model"
	"github.com/kinkando/blog-auth-service/pkg/logger"
	"github.com/kinkando/blog-auth-service/pkg/password"
	"github.com/kinkando/blog-auth-service/pkg/profile"
	"github.com/kinkando/blog-auth-service/repository"
)

// Authen runs the login, register and refresh flows. It produces a
// model.Session and never touches cookies; the transport commits the
// refresh token only after a flow has fully succeeded.
type Authen interface {
	Login(ctx context.Context, req model.LoginRequest) (model.Session, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (model.Session, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
	CompareDummy(plain string)
}

type authen struct {
	userRepository   repository.User
	cacheRepository  repository.Cache
	jwtService       JWTService
	passwordHasher   PasswordHasher
	loginMaxAttempts int64
}

func NewAuthenService(
	userRepository repository.User,
	cacheRepository repository.Cache,
	jwtService JWTService,
	passwordHasher PasswordHasher,
	loginMaxAttempts int64,
) Authen {
	return &authen{
		userRepository:   userRepository,
		cacheRepository:  cacheRepository,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		loginMaxAttempts: loginMaxAttempts,
	}
}

func (s *authen) Login(ctx context.Context, req model.LoginRequest) (model.Session, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return model.Session{}, fmt.Errorf("%w: email and password are required", model.ErrValidation)
	}

	if s.isThrottled(ctx, email) {
		logger.Context(ctx).Warnf("login: too many failed attempts for %s", email)
		return model.Session{}, model.ErrTooManyAttempts
	}

	user, err := s.userRepository.GetUser(ctx, model.UserFilter{Email: email})
	if errors.Is(err, model.ErrUserNotFound) {
		s.passwordHasher.CompareDummy(req.Password)
		s.recordLoginFailure(ctx, email)
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("login: get user: %w", err)
	}

	if err := s.passwordHasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.recordLoginFailure(ctx, email)
			return model.Session{}, model.ErrInvalidCredentials
		}
		return model.Session{}, fmt.Errorf("login: compare password: %w", err)
	}

	if err := s.cacheRepository.ResetLoginFailures(ctx, email); err != nil {
		logger.Context(ctx).Warnf("login: reset failed attempts: %v", err)
	}

	return s.createSession(user)
}

func (s *authen) Register(ctx context.Context, req model.RegisterRequest) (model.Session, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return model.Session{}, fmt.Errorf("%w: username, email, and password are required", model.ErrValidation)
	}

	hash, err := s.passwordHasher.Hash(req.Password)
	if err != nil {
		return model.Session{}, fmt.Errorf("register: %w", err)
	}

	user, err := s.userRepository.CreateUser(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		var conflict *model.ConflictError
		if errors.As(err, &conflict) {
			return model.Session{}, conflict
		}
		return model.Session{}, fmt.Errorf("register: create user: %w", err)
	}

	logger.Context(ctx).Infof("register: created user %s", user.UserID)
	return s.createSession(user)
}

func (s *authen) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	if refreshToken == "" {
		return model.Session{}, model.ErrRefreshTokenMissing
	}

	claims, ok := s.jwtService.VerifyRefreshToken(refreshToken)
	if !ok {
		return model.Session{}, model.ErrRefreshTokenInvalid
	}

	user, err := s.userRepository.GetUser(ctx, model.UserFilter{UserID: claims.UserID})
	if errors.Is(err, model.ErrUserNotFound) {
		logger.Context(ctx).Warnf("refresh: user %s no longer exists", claims.UserID)
		return model.Session{}, model.ErrSessionUserNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("refresh: get user: %w", err)
	}

	return s.createSession(user)
}

// createSession issues a fresh token pair from the user's current identity.
func (s *authen) createSession(user model.User) (model.Session, error) {
	p := profile.Profile{UserID: user.UserID, Username: user.Username, Email: user.Email}

	accessToken, err := s.jwtService.IssueAccessToken(p)
	if err != nil {
		return model.Session{}, err
	}

	refreshToken, err := s.jwtService.IssueRefreshToken(p)
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Summary(),
	}, nil
}

// isThrottled fails open: a cache outage must not lock everyone out.
func (s *authen) isThrottled(ctx context.Context, email string) bool {
	if s.loginMaxAttempts <= 0 {
		return false
	}

	failures, err := s.cacheRepository.LoginFailures(ctx, email)
	if err != nil {
		logger.Context(ctx).Warnf("login: read failed attempts: %v", err)
		return false
	}
	return failures >= s.loginMaxAttempts
}

func (s *authen) recordLoginFailure(ctx context.Context, email string) {
	if _, err := s.cacheRepository.AddLoginFailure(ctx, email); err != nil {
		logger.Context(ctx).Warnf("login: record failed attempt: %v", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
