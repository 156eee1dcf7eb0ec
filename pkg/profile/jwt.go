package profile

import (
	"github.com/golang-jwt/jwt"
)

type TokenType string

const (
	Access  TokenType = "access"
	Refresh TokenType = "refresh"
)

// Claims is the signed body of both token kinds. Only Type and the signing
// secret tell an access token apart from a refresh token.
type Claims struct {
	jwt.StandardClaims
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Type     TokenType `json:"type"`
}

func NewClaims(p Profile, tokenType TokenType, standard jwt.StandardClaims) Claims {
	return Claims{
		StandardClaims: standard,
		UserID:         p.UserID,
		Username:       p.Username,
		Email:          p.Email,
		Type:           tokenType,
	}
}
