package memory

import (
	"context"
	"strings"

	"snapfeed/internal/core/user"
	userPort "snapfeed/internal/ports/user"

	"github.com/gofrs/uuid"
)

type userRecord struct {
	user user.User
}

type UserRepositoryMemory struct {
	s *Store
}

func NewUserRepositoryMemory(s *Store) *UserRepositoryMemory {
	return &UserRepositoryMemory{s: s}
}

func (repo *UserRepositoryMemory) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.Unlock()

	for _, r := range repo.s.users {
		if strings.EqualFold(r.user.Username, u.Username) || strings.EqualFold(r.user.Email, u.Email) {
			return nil, userPort.ErrUserExists
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV4())
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = repo.s.now()
	}
	u.UpdatedAt = u.CreatedAt
	repo.s.users[u.ID.String()] = &userRecord{user: *u}
	return u, nil
}

func (repo *UserRepositoryMemory) FindByID(ctx context.Context, id string) (*user.User, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.RUnlock()
	return repo.s.userByID(id)
}

func (repo *UserRepositoryMemory) FindByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.RUnlock()

	for _, r := range repo.s.users {
		if (username != "" && strings.EqualFold(r.user.Username, username)) ||
			(email != "" && strings.EqualFold(r.user.Email, email)) {
			u := r.user
			return &u, nil
		}
	}
	return nil, userPort.ErrUserNotFound
}

// userByID must be called with the lock held.
func (s *Store) userByID(id string) (*user.User, error) {
	r, ok := s.users[id]
	if !ok {
		return nil, userPort.ErrUserNotFound
	}
	u := r.user
	return &u, nil
}
