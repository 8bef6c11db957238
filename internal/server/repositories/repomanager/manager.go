package repomanager

import (
	"context"
	"database/sql"

	"github.com/MaxymDv/CloudDrive-System/internal/dbx"
	"github.com/MaxymDv/CloudDrive-System/internal/server/repositories/files"
	"github.com/MaxymDv/CloudDrive-System/internal/server/repositories/permissions"
	"github.com/MaxymDv/CloudDrive-System/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a specific DBTX, so the same
// repository code runs against *sql.DB and inside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
	Permissions(db dbx.DBTX) permissions.Repository
}
