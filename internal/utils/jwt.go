// internal/utils/jwt.go
package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/otakughor/backend/internal/config"
)

const (
	TokenTypeAdmin = "admin"
	TokenTypeUser  = "user"

	tokenIssuer = "otaku-ghor"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// JWTClaims is shared by access and refresh tokens. Type is optional on
// admin access tokens issued before the claim existed.
type JWTClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs admin access tokens, user access tokens and refresh
// tokens with three separate secrets.
type TokenManager struct {
	adminSecret   []byte
	userSecret    []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		adminSecret:   []byte(cfg.AdminSecret),
		userSecret:    []byte(cfg.UserSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		now:           time.Now,
	}
}

func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

func (m *TokenManager) GenerateAccessToken(id, username, role, tokenType string) (string, error) {
	secret := m.adminSecret
	if tokenType == TokenTypeUser {
		secret = m.userSecret
	}
	return m.sign(id, username, role, tokenType, m.accessTTL, secret)
}

func (m *TokenManager) GenerateRefreshToken(id, username, role, tokenType string) (string, error) {
	return m.sign(id, username, role, tokenType, m.refreshTTL, m.refreshSecret)
}

func (m *TokenManager) sign(id, username, role, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := m.now()
	claims := JWTClaims{
		ID:       id,
		Username: username,
		Role:     role,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   id,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken picks the secret from the unverified type claim and
// then fully verifies the token against it.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	var unverified JWTClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &unverified); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	secret := m.adminSecret
	if unverified.Type == TokenTypeUser {
		secret = m.userSecret
	}
	return m.validate(tokenString, secret)
}

func (m *TokenManager) ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return m.validate(tokenString, m.refreshSecret)
}

func (m *TokenManager) validate(tokenString string, secret []byte) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})

	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) &&
			validationErr.Errors&jwt.ValidationErrorExpired != 0 &&
			validationErr.Errors&jwt.ValidationErrorSignatureInvalid == 0 {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid && claims.ID != "" {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
