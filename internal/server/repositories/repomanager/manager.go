// Package repomanager vends repository implementations bound to a
// database handle and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/collections"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/mediaobjects"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/photos"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/terms"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	PasswordResets(db dbx.DBTX) passwordresets.Repository
	Terms(db dbx.DBTX) terms.Repository
	Photos(db dbx.DBTX) photos.Repository
	Collections(db dbx.DBTX) collections.Repository
	MediaObjects(db dbx.DBTX) mediaobjects.Repository
}
