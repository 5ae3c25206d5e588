package db

import (
	"github.com/dmitrijs2005/gophtodo/internal/server/refreshtokens"
	"github.com/dmitrijs2005/gophtodo/internal/server/tasks"
	"github.com/dmitrijs2005/gophtodo/internal/server/users"
)

type InMemoryRepositoryManager struct {
	users         *users.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
	tasks         *tasks.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
		tasks:         tasks.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) Tasks() tasks.Repository {
	return m.tasks
}
