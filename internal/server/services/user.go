// Package services contains server-side business logic. This file implements
// UserService, the session lifecycle controller: registration, login, logout,
// and refresh-token rotation.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/clipstream/accounts/internal/common"
	"github.com/clipstream/accounts/internal/logging"
	"github.com/clipstream/accounts/internal/server/auth"
	"github.com/clipstream/accounts/internal/server/media"
	"github.com/clipstream/accounts/internal/server/models"
	"github.com/clipstream/accounts/internal/server/repositories/users"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterInput carries the registration form fields plus the local staging
// paths of the uploaded media files. CoverImagePath may be empty.
type RegisterInput struct {
	Username       string
	Email          string
	FullName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// UserService provides the account lifecycle operations:
//   - Register: create users with uploaded media
//   - Login: verify credentials and mint a token pair
//   - Refresh: rotate the refresh token and mint a new pair
//   - Logout: revoke the active refresh token
//
// A user holds at most one active refresh token: every login or refresh
// replaces the stored value, which is what invalidates earlier sessions.
type UserService struct {
	repo     users.Repository
	tokens   *auth.TokenManager
	uploader media.Uploader
	logger   logging.Logger
}

// NewUserService constructs a UserService from its collaborators.
func NewUserService(repo users.Repository, tokens *auth.TokenManager, uploader media.Uploader, logger logging.Logger) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		uploader: uploader,
		logger:   logger.With("module", "users"),
	}
}

// Register validates the input, pushes the staged media to remote storage,
// and creates the user with a hashed password. The avatar is required; a
// failed cover-image upload degrades to an empty URL rather than aborting
// the registration.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.PublicProfile, error) {

	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fullName := strings.TrimSpace(in.FullName)
	password := strings.TrimSpace(in.Password)

	if username == "" || email == "" || fullName == "" || password == "" {
		return nil, common.ErrorValidation
	}

	_, err := s.repo.GetByUsernameOrEmail(ctx, username, email)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}

	if in.AvatarPath == "" {
		return nil, common.ErrorValidation
	}

	avatarURL, err := s.uploader.Upload(ctx, in.AvatarPath)
	if err != nil {
		s.logger.Error(ctx, "avatar upload failed", "username", username, "error", err.Error())
		return nil, common.ErrorUpload
	}

	coverImageURL := ""
	if in.CoverImagePath != "" {
		url, err := s.uploader.Upload(ctx, in.CoverImagePath)
		if err != nil {
			// Cover image is optional: a failed upload degrades to an
			// empty URL instead of aborting the registration.
			s.logger.Warn(ctx, "cover image upload failed", "username", username, "error", err.Error())
		} else {
			coverImageURL = url
		}
	}

	// Hashing happens exactly once, here in the write path, so the stored
	// hash is never re-hashed by unrelated saves.
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	created, err := s.repo.Create(ctx, &models.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		PasswordHash:  passwordHash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	// Read-back guards the post-create invariant; a missing record here is
	// a server-side failure, not a client error.
	stored, err := s.repo.GetByID(ctx, created.ID)
	if err != nil {
		s.logger.Error(ctx, "created user not found on read-back", "id", created.ID)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "id", stored.ID, "username", stored.Username)
	return stored.Public(), nil
}

// Login verifies the credentials identified by username or email (at least
// one required) and, on success, issues a fresh token pair. The new refresh
// token replaces any previously stored one.
func (s *UserService) Login(ctx context.Context, username, email, password string) (*models.PublicProfile, *TokenPair, error) {

	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" && email == "" {
		return nil, nil, common.ErrorValidation
	}

	user, err := s.repo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info(ctx, "user logged in", "id", user.ID, "username", user.Username)
	return user.Public(), pair, nil
}

// Logout revokes the user's active refresh token. Calling it again is a
// harmless no-op.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return common.ErrorInternal
	}
	s.logger.Info(ctx, "user logged out", "id", userID)
	return nil
}

// Refresh validates a presented refresh token, checks it against the stored
// value for its user, and rotates it into a new token pair. Any failure
// forces a full re-login.
func (s *UserService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {

	if presented == "" {
		return nil, common.ErrorUnauthorized
	}

	// Signature and expiry are checked before any store lookup.
	claims, err := s.tokens.VerifyRefreshToken(presented)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	// A token that verifies but does not match the stored value is stale:
	// a newer session has replaced it, or logout cleared it.
	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(presented)) != 1 {
		return nil, common.ErrorUnauthorized
	}

	return s.issueTokenPair(ctx, user)
}

// CurrentUser resolves an access token to its user record. Used by the
// transport layer's auth gate.
func (s *UserService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

func (s *UserService) issueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
