package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu         sync.RWMutex
	byID       map[string]User
	byUsername map[string]string
	order      []string
}

// NewMemoryRepo returns a process-local repo. Data is lost on restart.
func NewMemoryRepo() repoer {
	return &memoryRepo{
		byID:       make(map[string]User),
		byUsername: make(map[string]string),
	}
}

func (r *memoryRepo) Create(_ context.Context, username, passwordHash string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[username]; ok {
		return nil, ErrDuplicateUsername
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	r.byID[u.ID] = u
	r.byUsername[username] = u.ID
	r.order = append(r.order, u.ID)
	return &u, nil
}

func (r *memoryRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryRepo) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.byID[id])
	}
	return users, nil
}
