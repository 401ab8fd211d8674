package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/clipstream/accounts/internal/common"
	"github.com/clipstream/accounts/internal/server/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       "user-123",
		Username: "ana",
		Email:    "a@x.com",
		FullName: "Ana",
	}
}

func newTestManager(accessValidity, refreshValidity time.Duration) *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", accessValidity, refreshValidity)
}

func TestIssueAndVerifyAccessToken_Success(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Hour, 2*time.Hour)
	u := testUser()

	tok, err := m.IssueAccessToken(u)
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}

	claims, err := m.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}
	if claims.UserID != u.ID {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, u.ID)
	}
	if claims.Username != u.Username || claims.Email != u.Email || claims.FullName != u.FullName {
		t.Fatalf("identity claims mismatch: %+v", claims)
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	t.Parallel()

	m := newTestManager(-1*time.Second, time.Hour)

	tok, err := m.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}

	_, err = m.VerifyAccessToken(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerifyAccessToken_RejectsRefreshToken(t *testing.T) {
	t.Parallel()

	// The two token kinds use independent secrets, so one never
	// verifies as the other.
	m := newTestManager(time.Hour, time.Hour)

	refresh, err := m.IssueRefreshToken(testUser())
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}

	_, err = m.VerifyAccessToken(refresh)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRefreshToken_WrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Hour, time.Hour)
	other := NewTokenManager("access-secret", "different-secret", time.Hour, time.Hour)

	tok, err := m.IssueRefreshToken(testUser())
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}

	_, err = other.VerifyRefreshToken(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Hour, time.Hour)

	if _, err := m.VerifyAccessToken("not.a.jwt"); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestIssueRefreshToken_UniquePerCall(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Hour, time.Hour)
	u := testUser()

	first, err := m.IssueRefreshToken(u)
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}
	second, err := m.IssueRefreshToken(u)
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}
	if first == second {
		t.Fatalf("expected rotated tokens to differ")
	}
}
