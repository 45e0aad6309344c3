package repomanager

import (
	"context"
	"database/sql"

	"github.com/nileguide/api/internal/dbx"
	"github.com/nileguide/api/internal/server/repositories/accounts"
	"github.com/nileguide/api/internal/server/repositories/resetcodes"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository code on the bare connection pool or inside a
// transaction handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	ResetCodes(db dbx.DBTX) resetcodes.Repository
}
