package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/server/migrations"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/collections"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/mediaobjects"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/photos"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/terms"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/users"

	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) PasswordResets(db dbx.DBTX) passwordresets.Repository {
	return passwordresets.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Terms(db dbx.DBTX) terms.Repository {
	return terms.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Photos(db dbx.DBTX) photos.Repository {
	return photos.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Collections(db dbx.DBTX) collections.Repository {
	return collections.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) MediaObjects(db dbx.DBTX) mediaobjects.Repository {
	return mediaobjects.NewSQLiteRepository(db)
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// RunMigrations applies the embedded goose migrations to db.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db)
}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
