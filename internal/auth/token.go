package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/avtale/avtale/internal/config"
	"github.com/avtale/avtale/internal/utils"
	"github.com/avtale/avtale/pkg/user"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Uid      string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates the HS256 session tokens handed out at login.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	clock  utils.Clock
}

func NewTokenIssuer(cfg config.Auth, clock utils.Clock) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(cfg.Secret),
		expiry: cfg.TokenExpiry,
		clock:  clock,
	}
}

func (i *TokenIssuer) Issue(u user.User) (string, error) {
	now := i.clock.Now()
	claims := Claims{
		Uid:      u.Uid,
		Username: u.Username,
		Role:     string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return token, nil
}

func (i *TokenIssuer) Validate(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.clock.Now))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
