package utils

import (
	"fmt"
	"strings"
	"time"

	"campus-events/core/config"
	"campus-events/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenClaims are the JWT claims carried by access and refresh tokens.
type TokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	Scope    string    `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the given user, role and scope.
func GenerateToken(userID uuid.UUID, fullName, role, scope string, ttl time.Duration) (string, error) {
	cfg, ok := config.GetSafe()
	if !ok {
		return "", fmt.Errorf("config not initialized")
	}

	claims := &TokenClaims{
		UserID:   userID,
		FullName: fullName,
		Role:     role,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateAndParseToken verifies the signature and expiry and returns claims.
func ValidateAndParseToken(tokenString string) (*TokenClaims, error) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, fmt.Errorf("config not initialized")
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GetTokenFromHeader extracts the bearer token from the Authorization header.
func GetTokenFromHeader(ctx echo.Context) (string, *errors.AppError) {
	header := ctx.Request().Header.Get("Authorization")
	if header == "" {
		return "", errors.NewAppError(errors.ErrMissingAuthorizationHeader, "missing authorization header", nil)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.NewAppError(errors.ErrInvalidTokenFormat, "authorization header must be a bearer token", nil)
	}
	return parts[1], nil
}
