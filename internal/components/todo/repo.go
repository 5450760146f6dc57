package todo

import (
	"context"
	"errors"
)

var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("priority must be one of high, medium, low")
	ErrOwnerNotFound   = errors.New("owner does not exist")
)

// repoer persists todos. Every lookup is filtered by owner, and a todo owned
// by someone else is reported as ErrTodoNotFound.
type repoer interface {
	Create(ctx context.Context, ownerID string, req CreateTodoIn) (*Todo, error)
	List(ctx context.Context, ownerID string) ([]Todo, error)
	GetByID(ctx context.Context, ownerID, id string) (*Todo, error)
	Update(ctx context.Context, ownerID, id string, req UpdateTodoIn) (*Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
}
