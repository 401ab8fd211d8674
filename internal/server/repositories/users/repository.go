package users

import (
	"context"

	"github.com/clipstream/accounts/internal/server/models"
)

// Repository is the credential store: the single shared mutable resource of
// the service. Implementations own per-row atomicity; no method spans more
// than one statement, so concurrent refresh-token writes for the same user
// resolve last-writer-wins.
type Repository interface {
	// Create inserts a new user and returns it with ID and timestamps
	// populated. Returns common.ErrorAlreadyExists when username or email
	// is already taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user with the given ID, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByUsernameOrEmail returns the user matching either the username
	// or the email (empty values never match), or common.ErrorNotFound.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)

	// UpdateRefreshToken stores token as the user's single active refresh
	// token, replacing any previous value. An empty token clears it.
	UpdateRefreshToken(ctx context.Context, id, token string) error
}
