package follower

import "context"

// FollowerRepository stores follow edges. FollowUser and UnfollowUser are
// idempotent: repeating them leaves exactly the same edge set.
type FollowerRepository interface {
	FollowUser(ctx context.Context, followerID, followeeID string) error
	UnfollowUser(ctx context.Context, followerID, followeeID string) error
	GetFollowersByUserID(ctx context.Context, userID string) ([]string, error)
	// ListFollowees returns the ids the user follows.
	ListFollowees(ctx context.Context, followerID string) ([]string, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, followerID string) (int64, error)
}

type FollowerDTO struct {
	UserID     string `json:"userId"`
	FollowerID string `json:"followerId"`
}
