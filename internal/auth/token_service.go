package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrExpiredRefreshToken = errors.New("expired refresh token")
	ErrInvalidAccessToken  = errors.New("invalid access token")
	ErrExpiredAccessToken  = errors.New("expired access token")
)

type TokenService interface {
	GenerateTokens(ctx context.Context, userID int64) (accessToken, refreshToken string, accessExpiresAt int64, err error)
	ParseAccessToken(ctx context.Context, tokenStr string) (*Claims, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, int64, error)
	Revoke(ctx context.Context, refreshToken string) error
}

type tokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	redis      *redis.Client
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, rdb *redis.Client) TokenService {
	return &tokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		redis:      rdb,
	}
}

func refreshKey(jti string) string { return "refresh:" + jti }

// signAccess issues a short-lived access token. Access tokens carry no jti
// and are never stored server-side.
func (s *tokenService) signAccess(userID int64, now time.Time) (string, int64, error) {
	expiresAt := now.Add(s.accessTTL)

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, err
	}

	return token, expiresAt.Unix(), nil
}

func (s *tokenService) signRefresh(userID int64, now time.Time, jti string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *tokenService) GenerateTokens(ctx context.Context, userID int64) (string, string, int64, error) {
	now := time.Now()

	access, accessExp, err := s.signAccess(userID, now)
	if err != nil {
		return "", "", 0, err
	}

	jti := uuid.NewString()
	refresh, err := s.signRefresh(userID, now, jti)
	if err != nil {
		return "", "", 0, err
	}

	// jti -> userID, checked on refresh and deleted on rotation/revoke
	if err := s.redis.Set(ctx, refreshKey(jti), userID, s.refreshTTL).Err(); err != nil {
		return "", "", 0, err
	}

	return access, refresh, accessExp, nil
}

func (s *tokenService) ParseAccessToken(_ context.Context, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredAccessToken
		}
		return nil, ErrInvalidAccessToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidAccessToken
	}

	return claims, nil
}

func (s *tokenService) parseRefreshClaims(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredRefreshToken
		}
		return nil, ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidRefreshToken
	}

	// only refresh tokens carry a jti
	if claims.ID == "" {
		return nil, ErrInvalidRefreshToken
	}

	return claims, nil
}

func (s *tokenService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, int64, error) {
	claims, err := s.parseRefreshClaims(refreshToken)
	if err != nil {
		return "", "", 0, err
	}

	exists, err := s.redis.Exists(ctx, refreshKey(claims.ID)).Result()
	if err != nil {
		return "", "", 0, err
	}
	if exists == 0 {
		// revoked, already rotated, or expired out of redis
		return "", "", 0, ErrInvalidRefreshToken
	}

	// single-use: drop the old jti before issuing a new pair
	_ = s.redis.Del(ctx, refreshKey(claims.ID)).Err()

	return s.GenerateTokens(ctx, claims.UserID)
}

func (s *tokenService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.parseRefreshClaims(refreshToken)
	if err != nil {
		// nothing to revoke for a token we cannot attribute
		return nil
	}

	return s.redis.Del(ctx, refreshKey(claims.ID)).Err()
}
