package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-medpoint-api/config"
	"github.com/FACorreiaa/go-medpoint-api/internal/api"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var (
	ErrTokenIssuer   = errors.New("invalid token issuer")
	ErrTokenAudience = errors.New("invalid token audience")
)

// TokenManager issues and validates HS256 bearer tokens.
type TokenManager struct {
	secretKey []byte
	issuer    string
	audience  string
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key cannot be empty")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("jwt token ttl must be positive")
	}
	return &TokenManager{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		ttl:       cfg.TokenTTL,
		now:       time.Now,
	}, nil
}

// Issue signs a token carrying the account's id, username and role.
func (m *TokenManager) Issue(user types.UserAccount) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := types.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	if m.audience != "" {
		claims.Audience = jwt.ClaimStrings{m.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates signature, lifetime, issuer and audience and returns the claims.
func (m *TokenManager) Parse(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Issuer != m.issuer {
		return nil, ErrTokenIssuer
	}
	if !api.VerifyAudience(claims.Audience, m.audience) {
		return nil, ErrTokenAudience
	}
	return claims, nil
}
