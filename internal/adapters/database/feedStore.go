package database

import (
	"context"

	"snapfeed/internal/core/post"
	"snapfeed/internal/core/user"
)

// FeedStoreDatabase serves the feed ports by composing the gorm repositories.
type FeedStoreDatabase struct {
	users     *UserRepositoryDatabase
	followers *FollowerRepositoryDatabase
	likes     *LikeRepositoryDatabase
	comments  *CommentRepositoryDatabase
	posts     *PostRepositoryDatabase
}

func NewFeedStoreDatabase(
	users *UserRepositoryDatabase,
	posts *PostRepositoryDatabase,
	followers *FollowerRepositoryDatabase,
	likes *LikeRepositoryDatabase,
	comments *CommentRepositoryDatabase,
) *FeedStoreDatabase {
	return &FeedStoreDatabase{users: users, posts: posts, followers: followers, likes: likes, comments: comments}
}

func (f *FeedStoreDatabase) ListFollowees(ctx context.Context, userID string) ([]string, error) {
	return f.followers.ListFollowees(ctx, userID)
}

func (f *FeedStoreDatabase) GetUser(ctx context.Context, userID string) (*user.User, error) {
	return f.users.FindByID(ctx, userID)
}

// ListPostsByAuthors returns the posts of every author, newest first.
func (f *FeedStoreDatabase) ListPostsByAuthors(ctx context.Context, authorIDs []string) ([]*post.Post, error) {
	posts := make([]*post.Post, 0)
	if len(authorIDs) == 0 {
		return posts, nil
	}
	if err := f.posts.db.WithContext(ctx).
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (f *FeedStoreDatabase) CountLikes(ctx context.Context, postID string) (int64, error) {
	return f.likes.CountByPostID(ctx, postID)
}

func (f *FeedStoreDatabase) CountComments(ctx context.Context, postID string) (int64, error) {
	return f.comments.CountByPostID(ctx, postID)
}

func (f *FeedStoreDatabase) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	return f.likes.Exists(ctx, userID, postID)
}
