package repository

import (
	"github.com/mariakevin/hairtryon-backend/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	Blacklist BlacklistRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Blacklist: NewBlacklistRepository(db),
	}
}
