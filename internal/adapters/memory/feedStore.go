package memory

import (
	"context"

	"snapfeed/internal/core/post"
	"snapfeed/internal/core/user"
)

// FeedStoreMemory serves both feed ports from the shared Store.
type FeedStoreMemory struct {
	s *Store
}

func NewFeedStoreMemory(s *Store) *FeedStoreMemory {
	return &FeedStoreMemory{s: s}
}

func (f *FeedStoreMemory) ListFollowees(ctx context.Context, userID string) ([]string, error) {
	if err := f.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer f.s.mu.RUnlock()
	return f.s.followees(userID), nil
}

func (f *FeedStoreMemory) GetUser(ctx context.Context, userID string) (*user.User, error) {
	if err := f.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer f.s.mu.RUnlock()
	return f.s.userByID(userID)
}

func (f *FeedStoreMemory) ListPostsByAuthors(ctx context.Context, authorIDs []string) ([]*post.Post, error) {
	if err := f.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer f.s.mu.RUnlock()

	authors := make(map[string]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = struct{}{}
	}
	return f.s.postsBy(authors), nil
}

func (f *FeedStoreMemory) CountLikes(ctx context.Context, postID string) (int64, error) {
	if err := f.s.readLock(ctx); err != nil {
		return 0, err
	}
	defer f.s.mu.RUnlock()
	return f.s.likeCount(postID), nil
}

func (f *FeedStoreMemory) CountComments(ctx context.Context, postID string) (int64, error) {
	if err := f.s.readLock(ctx); err != nil {
		return 0, err
	}
	defer f.s.mu.RUnlock()
	return int64(len(f.s.comments[postID])), nil
}

func (f *FeedStoreMemory) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	if err := f.s.readLock(ctx); err != nil {
		return false, err
	}
	defer f.s.mu.RUnlock()

	_, ok := f.s.likes[likeEdge{userID: userID, postID: postID}]
	return ok, nil
}
