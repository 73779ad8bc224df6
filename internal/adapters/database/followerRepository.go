package database

import (
	"context"

	"snapfeed/internal/core/follower"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepositoryDatabase implements FollowerRepository on gorm.
type FollowerRepositoryDatabase struct {
	db *gorm.DB
}

func NewFollowerRepositoryDatabase(db *gorm.DB) *FollowerRepositoryDatabase {
	return &FollowerRepositoryDatabase{db: db}
}

// FollowUser inserts the edge and ignores a conflict on the unique pair.
func (repo *FollowerRepositoryDatabase) FollowUser(ctx context.Context, followerID, followeeID string) error {
	f := &follower.Follower{
		ID:         uuid.Must(uuid.NewV4()),
		UserID:     uuid.FromStringOrNil(followeeID),
		FollowerID: uuid.FromStringOrNil(followerID),
	}
	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (repo *FollowerRepositoryDatabase) UnfollowUser(ctx context.Context, followerID, followeeID string) error {
	return repo.db.WithContext(ctx).
		Where("follower_id = ? AND user_id = ?", followerID, followeeID).
		Delete(&follower.Follower{}).Error
}

func (repo *FollowerRepositoryDatabase) GetFollowersByUserID(ctx context.Context, userID string) ([]string, error) {
	ids := make([]string, 0)
	if err := repo.db.WithContext(ctx).Model(&follower.Follower{}).
		Where("user_id = ?", userID).
		Order("follower_id").
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (repo *FollowerRepositoryDatabase) ListFollowees(ctx context.Context, followerID string) ([]string, error) {
	ids := make([]string, 0)
	if err := repo.db.WithContext(ctx).Model(&follower.Follower{}).
		Where("follower_id = ?", followerID).
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (repo *FollowerRepositoryDatabase) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&follower.Follower{}).
		Where("follower_id = ? AND user_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *FollowerRepositoryDatabase) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&follower.Follower{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (repo *FollowerRepositoryDatabase) CountFollowing(ctx context.Context, followerID string) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&follower.Follower{}).Where("follower_id = ?", followerID).Count(&count).Error
	return count, err
}
