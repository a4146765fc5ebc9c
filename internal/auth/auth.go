package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/jayjaytrn/storefront/config"
	"github.com/jayjaytrn/storefront/models"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	TokenType string      `json:"typ"`
}

// Issuer signs access and refresh tokens with separate secrets and tags each
// with its type, so a refresh token never passes as an access token even when
// both secrets are configured to the same value.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(cfg *config.Config) *Issuer {
	return &Issuer{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

func (i *Issuer) IssuePair(username string, role models.Role) (models.Tokens, error) {
	access, err := buildJWT(username, role, tokenAccess, i.accessSecret, i.accessTTL)
	if err != nil {
		return models.Tokens{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := buildJWT(username, role, tokenRefresh, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return models.Tokens{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return models.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) ParseAccess(tokenString string) (models.Actor, error) {
	return validateJWT(tokenString, tokenAccess, i.accessSecret)
}

func (i *Issuer) ParseRefresh(tokenString string) (models.Actor, error) {
	return validateJWT(tokenString, tokenRefresh, i.refreshSecret)
}

func buildJWT(username string, role models.Role, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username:  username,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	})

	return token.SignedString(secret)
}

func validateJWT(tokenString, tokenType string, secret []byte) (models.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
	if err != nil {
		return models.Actor{}, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	if !token.Valid || claims.Username == "" {
		return models.Actor{}, fmt.Errorf("%w: token is not valid", models.ErrUnauthorized)
	}

	if claims.TokenType != tokenType {
		return models.Actor{}, fmt.Errorf("%w: expected %s token, got %q", models.ErrUnauthorized, tokenType, claims.TokenType)
	}

	return models.Actor{Username: claims.Username, Role: claims.Role}, nil
}
