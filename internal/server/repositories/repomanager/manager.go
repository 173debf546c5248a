package repomanager

import (
	"context"
	"database/sql"

	"github.com/Divert12/divert-ai-crew/internal/dbx"
	"github.com/Divert12/divert-ai-crew/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or transaction
// and knows how to bring the schema up to date.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
