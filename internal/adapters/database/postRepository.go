package database

import (
	"context"

	"snapfeed/internal/core/post"
	postPort "snapfeed/internal/ports/post"

	"gorm.io/gorm"
)

// PostRepositoryDatabase implements PostRepository on gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit("User").Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, postPort.ErrPostNotFound)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindByUserID(ctx context.Context, userID string) ([]*post.Post, error) {
	posts := make([]*post.Post, 0)
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&post.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
