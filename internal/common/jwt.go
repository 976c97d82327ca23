package common

import (
	"errors"
	"strconv"
	"time"

	"campusbingo/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the accounts service puts into an access token.
type Claims struct {
	UserID uint64 `json:"user_id"`
	Handle string `json:"handle"` //custom claim
	jwt.RegisteredClaims
}

// TokenManager validates access tokens. Tokens are minted by the accounts service;
// GenerateToken exists for tooling and tests sharing the same secret.
type TokenManager struct {
	secret []byte
	issuer string
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Auth.JWTSecret),
		issuer: cfg.Auth.Issuer,
	}
}

func (m *TokenManager) GenerateToken(userID uint64, handle string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   strconv.FormatUint(userID, 10),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

// ValidToken parses tokenString and returns its claims when the signature, expiry and issuer check out.
func (m *TokenManager) ValidToken(tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.UserID == 0 {
			return nil, errors.New("token has no user id")
		}
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
