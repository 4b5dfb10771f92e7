// Package auth issues and verifies the HMAC-signed JWTs that identify callers.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"ruya/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the lifetime of tokens issued without an explicit ttl.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrMissingSecret = errors.New("JWT secret not configured")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrIssuer        = errors.New("invalid token issuer")
	ErrAudience      = errors.New("invalid token audience")
	ErrSubject       = errors.New("invalid subject claim")
)

// Identity is the verified caller carried by a token.
type Identity struct {
	UserID    uint
	Username  string
	JTI       string
	ExpiresAt time.Time
}

// Issue signs a token for userID valid for ttl and returns it with its jti.
func Issue(cfg *config.Config, userID uint, username string, ttl time.Duration) (string, string, error) {
	if cfg.JWTSecret == "" {
		return "", "", ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      cfg.JWTIssuer,
		"aud":      cfg.JWTAudience,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      jti,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return signed, jti, nil
}

// Parse verifies the signature, expiry, issuer and audience of tokenString.
func Parse(cfg *config.Config, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if iss, err := claims.GetIssuer(); err != nil || iss != cfg.JWTIssuer {
		return nil, ErrIssuer
	}
	aud, err := claims.GetAudience()
	if err != nil || !contains(aud, cfg.JWTAudience) {
		return nil, ErrAudience
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrSubject
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrSubject
	}

	id := &Identity{UserID: uint(userID)}
	id.Username, _ = claims["username"].(string)
	id.JTI, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
