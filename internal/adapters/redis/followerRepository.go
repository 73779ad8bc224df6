// Package redis keeps the follow graph in Redis sets: following:<id> holds
// the accounts a user follows and followers:<id> the reverse direction.
package redis

import (
	"context"
	"sort"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	followingPrefix = "following:"
	followersPrefix = "followers:"
)

type FollowerRepositoryRedis struct {
	Client *redis.Client
	logger *zap.Logger
}

func NewFollowerRepositoryRedis(client *redis.Client, logger *zap.Logger) *FollowerRepositoryRedis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowerRepositoryRedis{
		Client: client,
		logger: logger,
	}
}

// FollowUser writes both directions in one MULTI. SADD makes it idempotent.
func (r *FollowerRepositoryRedis) FollowUser(ctx context.Context, followerID, followeeID string) error {
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, followingPrefix+followerID, followeeID)
		pipe.SAdd(ctx, followersPrefix+followeeID, followerID)
		return nil
	})
	if err != nil {
		r.logger.Error("follow failed", zap.String("followerID", followerID), zap.String("followeeID", followeeID), zap.Error(err))
		return err
	}
	return nil
}

func (r *FollowerRepositoryRedis) UnfollowUser(ctx context.Context, followerID, followeeID string) error {
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, followingPrefix+followerID, followeeID)
		pipe.SRem(ctx, followersPrefix+followeeID, followerID)
		return nil
	})
	return err
}

func (r *FollowerRepositoryRedis) GetFollowersByUserID(ctx context.Context, userID string) ([]string, error) {
	return r.members(ctx, followersPrefix+userID)
}

func (r *FollowerRepositoryRedis) ListFollowees(ctx context.Context, followerID string) ([]string, error) {
	return r.members(ctx, followingPrefix+followerID)
}

func (r *FollowerRepositoryRedis) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return r.Client.SIsMember(ctx, followingPrefix+followerID, followeeID).Result()
}

func (r *FollowerRepositoryRedis) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.Client.SCard(ctx, followersPrefix+userID).Result()
}

func (r *FollowerRepositoryRedis) CountFollowing(ctx context.Context, followerID string) (int64, error) {
	return r.Client.SCard(ctx, followingPrefix+followerID).Result()
}

// members returns the set sorted so callers see a stable order.
func (r *FollowerRepositoryRedis) members(ctx context.Context, key string) ([]string, error) {
	ids, err := r.Client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}
