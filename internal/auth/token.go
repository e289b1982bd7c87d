package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySigningKey は署名鍵が空の場合のエラー。
var ErrEmptySigningKey = errors.New("token signing key is empty")

// Claims はトークンに埋め込むクレーム。
// 有効期限（exp）は設定しない。署名鍵を変更するまで有効。
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService はHS256署名のBearerトークンを発行・検証する。
type TokenService struct {
	key    []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService はTokenServiceを生成する。
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySigningKey
	}
	return &TokenService{
		key: []byte(secret),
		now: time.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuedAt(),
		),
	}, nil
}

// Issue はユーザーIDを埋め込んだトークンを発行する。
func (s *TokenService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID is required")
	}

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名を検証し、埋め込まれたユーザーIDを返す。
func (s *TokenService) Verify(token string) (string, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to verify token: %w", err)
	}
	if claims.UserID == "" {
		return "", errors.New("token has no userId claim")
	}
	return claims.UserID, nil
}
