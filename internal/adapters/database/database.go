// Package database implements the repositories on gorm, for MySQL or Postgres.
package database

import (
	"errors"

	"snapfeed/internal/core/comment"
	"snapfeed/internal/core/follower"
	"snapfeed/internal/core/like"
	"snapfeed/internal/core/post"
	"snapfeed/internal/core/user"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables of every entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&post.Post{},
		&follower.Follower{},
		&like.Like{},
		&comment.Comment{},
	)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
