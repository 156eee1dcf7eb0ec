package profile

import (
	"context"
	"errors"
)

type contextKey string

// ProfileKey is used both as the request context key and as the echo context key.
const ProfileKey = "profile"

const profileContextKey contextKey = ProfileKey

// Profile is the identity payload carried inside every access and refresh token.
type Profile struct {
	UserID   string `json:"userId" mapstructure:"userId"`
	Username string `json:"username" mapstructure:"username"`
	Email    string `json:"email" mapstructure:"email"`
}

// Valid reports whether every identity field is populated.
func (p Profile) Valid() bool {
	return p.UserID != "" && p.Username != "" && p.Email != ""
}

func WithProfile(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, profileContextKey, p)
}

func UseProfile(ctx context.Context) (Profile, error) {
	profile, ok := ctx.Value(profileContextKey).(Profile)
	if !ok {
		return Profile{}, errors.New("unable to retrieve profile from context")
	}
	return profile, nil
}
