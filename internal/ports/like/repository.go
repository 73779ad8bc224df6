package like

import "context"

// LikeRepository keeps at most one like per (user, post).
type LikeRepository interface {
	Like(ctx context.Context, userID, postID string) error
	Unlike(ctx context.Context, userID, postID string) error
	CountByPostID(ctx context.Context, postID string) (int64, error)
	Exists(ctx context.Context, userID, postID string) (bool, error)
}
