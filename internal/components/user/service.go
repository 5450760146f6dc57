package user

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andrasnagy-data/todo/internal/shared/hasher"
	"github.com/andrasnagy-data/todo/internal/shared/token"
)

// Service is the credential store. Passwords are hashed here, before they
// reach any repo.
type Service struct {
	repo   repoer
	hasher *hasher.Bcrypt
	tokens *token.Manager

	dummyOnce sync.Once
	dummyHash string
}

func NewService(repo repoer, h *hasher.Bcrypt, tokens *token.Manager) *Service {
	return &Service{
		repo:   repo,
		hasher: h,
		tokens: tokens,
	}
}

// CreateUser hashes the password and persists a new user.
func (s *Service) CreateUser(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	_, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrDuplicateUsername
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, hasher.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, username, hash)
}

func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Login checks the credentials and issues a bearer token. Unknown usernames
// and wrong passwords both fail with ErrInvalidCredentials, and both pay for
// one bcrypt comparison.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(password, s.dummy())
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(u.ID)
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy password")
	})
	return s.dummyHash
}
