package memory

import (
	"context"

	"snapfeed/internal/core/comment"
	"snapfeed/internal/core/user"

	"github.com/gofrs/uuid"
)

type commentRecord struct {
	comment comment.Comment
}

type CommentRepositoryMemory struct {
	s *Store
}

func NewCommentRepositoryMemory(s *Store) *CommentRepositoryMemory {
	return &CommentRepositoryMemory{s: s}
}

func (repo *CommentRepositoryMemory) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := repo.s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.Must(uuid.NewV4())
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = repo.s.now()
	}
	stored := *c
	stored.User = user.User{}
	postID := c.PostID.String()
	repo.s.comments[postID] = append(repo.s.comments[postID], &commentRecord{comment: stored})
	return c, nil
}

// ListByPostID returns comments in insertion order, which is oldest first.
func (repo *CommentRepositoryMemory) ListByPostID(ctx context.Context, postID string) ([]*comment.Comment, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.RUnlock()

	records := repo.s.comments[postID]
	out := make([]*comment.Comment, 0, len(records))
	for _, r := range records {
		c := r.comment
		if u, ok := repo.s.users[c.UserID.String()]; ok {
			c.User = u.user
		}
		out = append(out, &c)
	}
	return out, nil
}

func (repo *CommentRepositoryMemory) CountByPostID(ctx context.Context, postID string) (int64, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return 0, err
	}
	defer repo.s.mu.RUnlock()
	return int64(len(repo.s.comments[postID])), nil
}
