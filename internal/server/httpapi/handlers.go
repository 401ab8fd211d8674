package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipstream/accounts/internal/common"
	"github.com/clipstream/accounts/internal/filex"
	"github.com/clipstream/accounts/internal/logging"
	"github.com/clipstream/accounts/internal/server/models"
	"github.com/clipstream/accounts/internal/server/services"
)

// UserLifecycle is the slice of the user service the HTTP layer depends on.
type UserLifecycle interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.PublicProfile, error)
	Login(ctx context.Context, username, email, password string) (*models.PublicProfile, *services.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
}

// UserHandler exposes the account lifecycle over HTTP.
type UserHandler struct {
	service UserLifecycle
	cookies *cookieWriter
	tempDir string
	logger  logging.Logger
}

func NewUserHandler(service UserLifecycle, cookies *cookieWriter, tempDir string, logger logging.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		cookies: cookies,
		tempDir: tempDir,
		logger:  logger.With("module", "httpapi"),
	}
}

// loginRequest is the login payload. Username and email are both optional
// but at least one must be present; the service enforces that.
type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// refreshRequest is the body fallback for the refresh endpoint.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// loginResponse carries the profile plus both tokens in the body. The same
// tokens are also set as cookies so that browser and non-browser clients
// are both served.
type loginResponse struct {
	User         *models.PublicProfile `json:"user"`
	AccessToken  string                `json:"accessToken"`
	RefreshToken string                `json:"refreshToken"`
}

// Register handles the multipart registration form. The avatar file is
// required, the cover image optional. Files are staged to the local temp
// directory and handed to the service by path.
func (h *UserHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	in := services.RegisterInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		FullName: c.PostForm("fullName"),
		Password: c.PostForm("password"),
	}

	avatarPath, err := h.stageFormFile(c, "avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read avatar file")
		return
	}
	// Staged files are normally removed by the uploader; if the flow aborts
	// before the upload runs they must still be cleaned up here.
	defer filex.RemoveIfExists(avatarPath)
	in.AvatarPath = avatarPath

	coverPath, err := h.stageFormFile(c, "coverImage")
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read cover image file")
		return
	}
	defer filex.RemoveIfExists(coverPath)
	in.CoverImagePath = coverPath

	profile, err := h.service.Register(ctx, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, profile, "user registered successfully")
}

// Login authenticates by username or email and returns the token pair both
// in the response body and as auth cookies.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, pair, err := h.service.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.cookies.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	respond(c, http.StatusOK, loginResponse{
		User:         profile,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "user logged in successfully")
}

// Logout revokes the authenticated user's refresh token and clears both
// cookies. Requires the auth gate.
func (h *UserHandler) Logout(c *gin.Context) {
	user := authenticatedUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
		return
	}

	if err := h.service.Logout(c.Request.Context(), user.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	h.cookies.clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "user logged out successfully")
}

// Refresh rotates the refresh token. The token is read from the
// refreshToken cookie first; the JSON body is the fallback for clients that
// do not use cookies.
func (h *UserHandler) Refresh(c *gin.Context) {
	presented := cookieValue(c, refreshTokenCookie)
	if presented == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.service.Refresh(c.Request.Context(), presented)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.cookies.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	respond(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "token refreshed successfully")
}

// stageFormFile saves the named multipart file into the temp upload
// directory under a random name and returns the local path. A missing file
// is not an error; the path comes back empty.
func (h *UserHandler) stageFormFile(c *gin.Context, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}

	dir, err := filex.EnsureSubDir(h.tempDir)
	if err != nil {
		return "", fmt.Errorf("ensure upload dir: %w", err)
	}

	path := filepath.Join(dir, uuid.NewString()+filepath.Ext(header.Filename))
	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", fmt.Errorf("save %s: %w", field, err)
	}

	return path, nil
}
