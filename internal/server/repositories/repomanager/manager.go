package repomanager

import (
	"context"
	"database/sql"

	"github.com/clipstream/accounts/internal/dbx"
	"github.com/clipstream/accounts/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DB handle
// and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
