package services

import (
	"context"
	"errors"
	"time"

	"viralbite/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CustomClaims struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Role models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Denylist records revoked token IDs until their natural expiry. Logout is
// the only writer; the authentication middleware is the only reader.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	Revoked(ctx context.Context, jti string) (bool, error)
}

type RedisDenylist struct {
	client redis.UniversalClient
}

func NewRedisDenylist(client redis.UniversalClient) *RedisDenylist {
	return &RedisDenylist{client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, DBKeyRevokedToken(jti), 1, ttl).Err()
}

func (d *RedisDenylist) Revoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, DBKeyRevokedToken(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type Authentication struct {
	secret   string
	denylist Denylist
}

func NewAuthentication(secret string, denylist Denylist) (*Authentication, error) {
	if secret == "" {
		return nil, errors.New("empty jwt secret")
	}
	return &Authentication{secret, denylist}, nil
}

func (authentication *Authentication) CreateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		ID:   user.ID,
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TOKEN_TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authentication.secret))
}

func (authentication *Authentication) Validate(ctx context.Context, token string) (*models.UserFromAuth, error) {
	claims, err := authentication.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := authentication.denylist.Revoked(ctx, claims.RegisteredClaims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errors.New("token revoked")
	}

	return &models.UserFromAuth{
		ID:   claims.ID,
		Name: claims.Name,
		Role: claims.Role,
	}, nil
}

// Revoke denylists the token until it would have expired anyway.
func (authentication *Authentication) Revoke(ctx context.Context, token string) error {
	claims, err := authentication.parse(token)
	if err != nil {
		// nothing worth revoking
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	return authentication.denylist.Revoke(ctx, claims.RegisteredClaims.ID, ttl)
}

func (authentication *Authentication) parse(token string) (*CustomClaims, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(authentication.secret), nil
	}

	jwtToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token missing expiry")
	}

	return claims, nil
}
