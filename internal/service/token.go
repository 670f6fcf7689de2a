package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var hs256Parser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

// JWTClaims 管理员 Token 声明
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// UserJWTClaims 买家 Token 声明（Telegram 登录签发）
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	TelegramID   int64  `json:"telegram_id"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

func lifetime(now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func signHS256(claims jwt.Claims, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("sign token: empty secret")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseHS256[C jwt.Claims](raw, secret string, claims C) (C, error) {
	token, err := hs256Parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		var zero C
		return zero, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return claims, nil
}

// ParseAdminToken 校验签名与有效期，AdminID 为 0 视为无效
func ParseAdminToken(raw, secret string) (*JWTClaims, error) {
	claims, err := parseHS256(raw, secret, &JWTClaims{})
	if err != nil {
		return nil, err
	}
	if claims.AdminID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseUserToken 校验签名与有效期，UserID 为 0 视为无效
func ParseUserToken(raw, secret string) (*UserJWTClaims, error) {
	claims, err := parseHS256(raw, secret, &UserJWTClaims{})
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
