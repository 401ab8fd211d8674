// Package auth implements the token issuer/verifier and password hashing
// for the account service.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clipstream/accounts/internal/common"
	"github.com/clipstream/accounts/internal/server/models"
)

// Claims carries the identity attributes embedded in every signed token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// TokenManager issues and verifies access and refresh tokens. The two kinds
// are signed with independent secrets and carry independent lifetimes, both
// injected at construction so business logic never reads process state.
type TokenManager struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
}

// NewTokenManager constructs a TokenManager from explicit secrets and
// validity durations.
func NewTokenManager(accessSecret, refreshSecret string, accessValidity, refreshValidity time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:    []byte(accessSecret),
		refreshSecret:   []byte(refreshSecret),
		accessValidity:  accessValidity,
		refreshValidity: refreshValidity,
	}
}

// IssueAccessToken signs a short-lived access token for u.
func (m *TokenManager) IssueAccessToken(u *models.User) (string, error) {
	return generateToken(u, m.accessSecret, m.accessValidity)
}

// IssueRefreshToken signs a long-lived refresh token for u.
func (m *TokenManager) IssueRefreshToken(u *models.User) (string, error) {
	return generateToken(u, m.refreshSecret, m.refreshValidity)
}

// VerifyAccessToken validates signature and expiry of an access token and
// returns its claims.
func (m *TokenManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, m.accessSecret)
}

// VerifyRefreshToken validates signature and expiry of a refresh token and
// returns its claims.
func (m *TokenManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, m.refreshSecret)
}

func generateToken(u *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// ID makes every issued token unique even for identical
			// claims within the same second, so rotation always
			// produces a different token.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func parseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
