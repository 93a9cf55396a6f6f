package service

import (
	"github.com/deppfellow/posts-api/internal/repository"
)

// Services groups the business layer so handlers receive one dependency.
type Services struct {
	Posts *PostService
}

// NewServices wires every service to its repository.
func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		Posts: NewPostService(repos.Posts),
	}
}
