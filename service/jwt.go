package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/kinkando/blog-auth-service/pkg/generator"
	"github.com/kinkando/blog-auth-service/pkg/profile"
	"github.com/mitchellh/mapstructure"
)

const (
	DefaultAccessTokenExpireTime  = 15 * time.Minute
	DefaultRefreshTokenExpireTime = 7 * 24 * time.Hour
)

// JWTService issues and verifies the two token kinds. Verification never
// fails loudly: a token that does not check out is simply not accepted.
type JWTService interface {
	IssueAccessToken(p profile.Profile) (string, error)
	IssueRefreshToken(p profile.Profile) (string, error)
	VerifyAccessToken(token string) (profile.Profile, bool)
	VerifyRefreshToken(token string) (profile.Profile, bool)
	RefreshTokenTTL() time.Duration
}

type JWTOption func(*jwtService)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) JWTOption {
	return func(s *jwtService) {
		s.now = now
	}
}

type jwtService struct {
	accessSecret           []byte
	refreshSecret          []byte
	accessTokenExpireTime  time.Duration
	refreshTokenExpireTime time.Duration
	now                    func() time.Time
}

func NewJWTService(accessSecret, refreshSecret string, accessTokenExpireTime, refreshTokenExpireTime time.Duration, opts ...JWTOption) (JWTService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("jwt: access and refresh token secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("jwt: access and refresh token secrets must differ")
	}
	if accessTokenExpireTime <= 0 || refreshTokenExpireTime <= 0 {
		return nil, errors.New("jwt: token expire times must be positive")
	}

	s := &jwtService{
		accessSecret:           []byte(accessSecret),
		refreshSecret:          []byte(refreshSecret),
		accessTokenExpireTime:  accessTokenExpireTime,
		refreshTokenExpireTime: refreshTokenExpireTime,
		now:                    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *jwtService) IssueAccessToken(p profile.Profile) (string, error) {
	return s.sign(p, profile.Access, s.accessTokenExpireTime, s.accessSecret)
}

func (s *jwtService) IssueRefreshToken(p profile.Profile) (string, error) {
	return s.sign(p, profile.Refresh, s.refreshTokenExpireTime, s.refreshSecret)
}

func (s *jwtService) VerifyAccessToken(token string) (profile.Profile, bool) {
	return s.verify(token, profile.Access, s.accessSecret)
}

func (s *jwtService) VerifyRefreshToken(token string) (profile.Profile, bool) {
	return s.verify(token, profile.Refresh, s.refreshSecret)
}

func (s *jwtService) RefreshTokenTTL() time.Duration {
	return s.refreshTokenExpireTime
}

func (s *jwtService) sign(p profile.Profile, tokenType profile.TokenType, ttl time.Duration, secret []byte) (string, error) {
	now := s.now()
	claims := profile.NewClaims(p, tokenType, jwt.StandardClaims{
		Id:        generator.UUID(),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign %s token: %w", tokenType, err)
	}
	return signedToken, nil
}

func (s *jwtService) verify(token string, tokenType profile.TokenType, secret []byte) (profile.Profile, bool) {
	if token == "" {
		return profile.Profile{}, false
	}

	claims, err := s.decodeJWT(token, secret)
	if err != nil {
		return profile.Profile{}, false
	}

	if claims["type"] != string(tokenType) {
		return profile.Profile{}, false
	}

	var p profile.Profile
	if err := mapstructure.Decode(claims, &p); err != nil || !p.Valid() {
		return profile.Profile{}, false
	}
	return p, true
}

// decodeJWT checks the signature with secret and the expiry against the
// service clock. Claims validation is skipped inside the parser because it
// reads the package-level jwt.TimeFunc instead of s.now.
func (s *jwtService) decodeJWT(jwtToken string, secret []byte) (jwt.MapClaims, error) {
	parser := &jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	jwtClaims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(jwtToken, jwtClaims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error parsing jwt token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid jwt token")
	}

	if !jwtClaims.VerifyExpiresAt(s.now().Unix(), true) {
		return nil, errors.New("jwt token is expired")
	}

	return jwtClaims, nil
}
