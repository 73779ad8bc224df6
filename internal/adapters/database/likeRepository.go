package database

import (
	"context"

	"snapfeed/internal/core/like"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepositoryDatabase struct {
	db *gorm.DB
}

func NewLikeRepositoryDatabase(db *gorm.DB) *LikeRepositoryDatabase {
	return &LikeRepositoryDatabase{db: db}
}

func (repo *LikeRepositoryDatabase) Like(ctx context.Context, userID, postID string) error {
	l := &like.Like{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: uuid.FromStringOrNil(userID),
		PostID: uuid.FromStringOrNil(postID),
	}
	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error
}

func (repo *LikeRepositoryDatabase) Unlike(ctx context.Context, userID, postID string) error {
	return repo.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&like.Like{}).Error
}

func (repo *LikeRepositoryDatabase) CountByPostID(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&like.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (repo *LikeRepositoryDatabase) Exists(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&like.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
