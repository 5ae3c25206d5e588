// Package db groups the repositories of the development backend behind one
// manager so the wiring does not depend on the storage engine.
package db

import (
	"github.com/dmitrijs2005/gophtodo/internal/server/refreshtokens"
	"github.com/dmitrijs2005/gophtodo/internal/server/tasks"
	"github.com/dmitrijs2005/gophtodo/internal/server/users"
)

type RepositoryManager interface {
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Tasks() tasks.Repository
}
