package memory

import (
	"context"
	"slices"

	"snapfeed/internal/core/post"
	"snapfeed/internal/core/user"
	postPort "snapfeed/internal/ports/post"

	"github.com/gofrs/uuid"
)

type postRecord struct {
	post post.Post
}

type PostRepositoryMemory struct {
	s *Store
}

func NewPostRepositoryMemory(s *Store) *PostRepositoryMemory {
	return &PostRepositoryMemory{s: s}
}

// Create keeps a non-zero CreatedAt, so callers may backdate posts.
func (repo *PostRepositoryMemory) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = repo.s.now()
	}
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.User = user.User{}
	repo.s.posts[p.ID.String()] = &postRecord{post: stored}
	return p, nil
}

func (repo *PostRepositoryMemory) FindByID(ctx context.Context, id string) (*post.Post, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.RUnlock()

	r, ok := repo.s.posts[id]
	if !ok {
		return nil, postPort.ErrPostNotFound
	}
	return repo.s.withAuthor(r.post), nil
}

func (repo *PostRepositoryMemory) FindByUserID(ctx context.Context, userID string) ([]*post.Post, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.RUnlock()

	posts := repo.s.postsBy(map[string]struct{}{userID: {}})
	slices.SortFunc(posts, newestFirst)
	return posts, nil
}

func (repo *PostRepositoryMemory) CountByUserID(ctx context.Context, userID string) (int64, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return 0, err
	}
	defer repo.s.mu.RUnlock()

	var n int64
	for _, r := range repo.s.posts {
		if r.post.UserID.String() == userID {
			n++
		}
	}
	return n, nil
}

// postsBy must be called with the lock held.
func (s *Store) postsBy(authors map[string]struct{}) []*post.Post {
	posts := make([]*post.Post, 0)
	for _, r := range s.posts {
		if _, ok := authors[r.post.UserID.String()]; ok {
			posts = append(posts, s.withAuthor(r.post))
		}
	}
	return posts
}

func (s *Store) withAuthor(p post.Post) *post.Post {
	if r, ok := s.users[p.UserID.String()]; ok {
		p.User = r.user
	}
	return &p
}

func newestFirst(a, b *post.Post) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID.String() > b.ID.String():
		return -1
	case a.ID.String() < b.ID.String():
		return 1
	}
	return 0
}
