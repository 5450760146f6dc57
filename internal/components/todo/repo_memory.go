package todo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu    sync.RWMutex
	todos map[string]Todo
	order []string
	now   func() time.Time
}

// NewMemoryRepo returns a process-local repo. Data is lost on restart.
func NewMemoryRepo() repoer {
	return &memoryRepo{
		todos: make(map[string]Todo),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryRepo) Create(_ context.Context, ownerID string, req CreateTodoIn) (*Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t := Todo{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.ptr(),
		Priority:    req.Priority,
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.todos[t.ID] = t
	r.order = append(r.order, t.ID)
	return &t, nil
}

func (r *memoryRepo) List(_ context.Context, ownerID string) ([]Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []Todo{}
	for _, id := range r.order {
		if t, ok := r.todos[id]; ok && t.CreatedBy == ownerID {
			todos = append(todos, t)
		}
	}
	return todos, nil
}

func (r *memoryRepo) GetByID(_ context.Context, ownerID, id string) (*Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok || t.CreatedBy != ownerID {
		return nil, ErrTodoNotFound
	}
	return &t, nil
}

func (r *memoryRepo) Update(_ context.Context, ownerID, id string, req UpdateTodoIn) (*Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok || t.CreatedBy != ownerID {
		return nil, ErrTodoNotFound
	}
	if req.empty() {
		return &t, nil
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueDate.Set {
		t.DueDate = req.DueDate.Value.ptr()
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	t.UpdatedAt = r.now()

	r.todos[id] = t
	return &t, nil
}

func (r *memoryRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok || t.CreatedBy != ownerID {
		return ErrTodoNotFound
	}

	delete(r.todos, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
