package memory

import "context"

type LikeRepositoryMemory struct {
	s *Store
}

func NewLikeRepositoryMemory(s *Store) *LikeRepositoryMemory {
	return &LikeRepositoryMemory{s: s}
}

func (repo *LikeRepositoryMemory) Like(ctx context.Context, userID, postID string) error {
	if err := repo.s.writeLock(ctx); err != nil {
		return err
	}
	defer repo.s.mu.Unlock()

	edge := likeEdge{userID: userID, postID: postID}
	if _, ok := repo.s.likes[edge]; !ok {
		repo.s.likes[edge] = repo.s.now()
	}
	return nil
}

func (repo *LikeRepositoryMemory) Unlike(ctx context.Context, userID, postID string) error {
	if err := repo.s.writeLock(ctx); err != nil {
		return err
	}
	defer repo.s.mu.Unlock()

	delete(repo.s.likes, likeEdge{userID: userID, postID: postID})
	return nil
}

func (repo *LikeRepositoryMemory) CountByPostID(ctx context.Context, postID string) (int64, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return 0, err
	}
	defer repo.s.mu.RUnlock()
	return repo.s.likeCount(postID), nil
}

func (repo *LikeRepositoryMemory) Exists(ctx context.Context, userID, postID string) (bool, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return false, err
	}
	defer repo.s.mu.RUnlock()

	_, ok := repo.s.likes[likeEdge{userID: userID, postID: postID}]
	return ok, nil
}

func (s *Store) likeCount(postID string) int64 {
	var n int64
	for edge := range s.likes {
		if edge.postID == postID {
			n++
		}
	}
	return n
}
