package repomanager

import (
	"context"
	"database/sql"

	"github.com/Divert12/divert-ai-crew/internal/dbx"
	"github.com/Divert12/divert-ai-crew/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps every repository in process memory. The db
// arguments are ignored, so a nil connection is fine.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() RepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}
