package feed

import (
	"context"

	feedEntity "snapfeed/internal/core/feed"
	"snapfeed/internal/core/post"
	"snapfeed/internal/core/user"
)

// GraphStore is the read side of the social graph used by the feed.
type GraphStore interface {
	ListFollowees(ctx context.Context, userID string) ([]string, error)
}

// ContentStore reads posts, engagement and profiles for the feed.
// GetUser returns user.ErrUserNotFound (ports/user) for unknown ids.
type ContentStore interface {
	GetUser(ctx context.Context, userID string) (*user.User, error)
	ListPostsByAuthors(ctx context.Context, authorIDs []string) ([]*post.Post, error)
	CountLikes(ctx context.Context, postID string) (int64, error)
	CountComments(ctx context.Context, postID string) (int64, error)
	HasLiked(ctx context.Context, userID, postID string) (bool, error)
}

// Querier computes a whole feed page in a single round trip. Entries must
// follow feed order and page must be applied, fetching at most Limit+1 rows.
type Querier interface {
	QueryFeed(ctx context.Context, viewerID string, page feedEntity.Page) ([]feedEntity.Entry, error)
}
