package repository

import (
	"github.com/deppfellow/posts-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Posts *PostRepository
}

// NewRepositories builds every repository on top of the shared pool held by
// the server container.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Posts: NewPostRepository(s.DB.Pool),
	}
}
