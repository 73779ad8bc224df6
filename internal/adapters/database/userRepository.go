package database

import (
	"context"
	"errors"

	"snapfeed/internal/core/user"
	userPort "snapfeed/internal/ports/user"

	"gorm.io/gorm"
)

// UserRepositoryDatabase implements UserRepository on gorm.
type UserRepositoryDatabase struct {
	db *gorm.DB
}

func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, userPort.ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err, userPort.ErrUserNotFound)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("username = ? OR email = ?", username, email).First(&u).Error; err != nil {
		return nil, notFound(err, userPort.ErrUserNotFound)
	}
	return &u, nil
}
