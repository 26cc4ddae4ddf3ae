// Package user implements plain keyed-record CRUD for user records.
// Pass-through persistence; the only invariant is id uniqueness.
package user

import (
	"context"

	"github.com/kailas-cloud/spendgate/internal/domain"
	domuser "github.com/kailas-cloud/spendgate/internal/domain/user"
)

// Service handles user records.
type Service struct {
	repo Repository
}

// New creates a Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new user.
func (s *Service) Create(ctx context.Context, id, name string) (domuser.User, error) {
	if id == "" {
		return domuser.User{}, domain.NewValidationError("user_id is required")
	}
	u := domuser.User{ID: id, Name: name}
	if err := s.repo.Create(ctx, u); err != nil {
		return domuser.User{}, err
	}
	return u, nil
}

// Get reads a user by id.
func (s *Service) Get(ctx context.Context, id string) (domuser.User, error) {
	return s.repo.Get(ctx, id)
}

// Update replaces the name of an existing user.
func (s *Service) Update(ctx context.Context, id, name string) (domuser.User, error) {
	u := domuser.User{ID: id, Name: name}
	if err := s.repo.Update(ctx, u); err != nil {
		return domuser.User{}, err
	}
	return u, nil
}
