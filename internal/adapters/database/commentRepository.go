package database

import (
	"context"

	"snapfeed/internal/core/comment"

	"gorm.io/gorm"
)

type CommentRepositoryDatabase struct {
	db *gorm.DB
}

func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

func (repo *CommentRepositoryDatabase) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := repo.db.WithContext(ctx).Omit("User").Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (repo *CommentRepositoryDatabase) ListByPostID(ctx context.Context, postID string) ([]*comment.Comment, error) {
	comments := make([]*comment.Comment, 0)
	if err := repo.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (repo *CommentRepositoryDatabase) CountByPostID(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&comment.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
