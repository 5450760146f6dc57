package todo

import (
	"context"
	"errors"
	"strings"

	"github.com/andrasnagy-data/todo/internal/components/user"
)

type (
	// Owners resolves todo owners. *user.Service satisfies it.
	Owners interface {
		FindByID(ctx context.Context, id string) (*user.User, error)
	}

	servicer interface {
		CreateTodo(ctx context.Context, ownerID string, req CreateTodoIn) (*Todo, error)
		GetTodos(ctx context.Context, ownerID string) ([]Todo, error)
		GetTodoByID(ctx context.Context, ownerID, id string) (*Todo, error)
		UpdateTodo(ctx context.Context, ownerID, id string, req UpdateTodoIn) (*Todo, error)
		DeleteTodo(ctx context.Context, ownerID, id string) error
	}

	service struct {
		repo   repoer
		owners Owners
	}
)

func NewService(repo repoer, owners Owners) servicer {
	return &service{
		repo:   repo,
		owners: owners,
	}
}

// CreateTodo checks the required title, the priority enum and that the owner
// exists before persisting.
func (s *service) CreateTodo(ctx context.Context, ownerID string, req CreateTodoIn) (*Todo, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !req.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if _, err := s.owners.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	return s.repo.Create(ctx, ownerID, req)
}

func (s *service) GetTodos(ctx context.Context, ownerID string) ([]Todo, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *service) GetTodoByID(ctx context.Context, ownerID, id string) (*Todo, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *service) UpdateTodo(ctx context.Context, ownerID, id string, req UpdateTodoIn) (*Todo, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	return s.repo.Update(ctx, ownerID, id, req)
}

func (s *service) DeleteTodo(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}
