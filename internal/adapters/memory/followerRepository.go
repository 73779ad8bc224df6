package memory

import (
	"context"
	"sort"
)

type FollowerRepositoryMemory struct {
	s *Store
}

func NewFollowerRepositoryMemory(s *Store) *FollowerRepositoryMemory {
	return &FollowerRepositoryMemory{s: s}
}

func (repo *FollowerRepositoryMemory) FollowUser(ctx context.Context, followerID, followeeID string) error {
	if err := repo.s.writeLock(ctx); err != nil {
		return err
	}
	defer repo.s.mu.Unlock()

	edge := followEdge{followerID: followerID, followeeID: followeeID}
	if _, ok := repo.s.follows[edge]; !ok {
		repo.s.follows[edge] = repo.s.now()
	}
	return nil
}

func (repo *FollowerRepositoryMemory) UnfollowUser(ctx context.Context, followerID, followeeID string) error {
	if err := repo.s.writeLock(ctx); err != nil {
		return err
	}
	defer repo.s.mu.Unlock()

	delete(repo.s.follows, followEdge{followerID: followerID, followeeID: followeeID})
	return nil
}

func (repo *FollowerRepositoryMemory) GetFollowersByUserID(ctx context.Context, userID string) ([]string, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.RUnlock()

	ids := make([]string, 0)
	for edge := range repo.s.follows {
		if edge.followeeID == userID {
			ids = append(ids, edge.followerID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *FollowerRepositoryMemory) ListFollowees(ctx context.Context, followerID string) ([]string, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer repo.s.mu.RUnlock()
	return repo.s.followees(followerID), nil
}

func (repo *FollowerRepositoryMemory) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	if err := repo.s.readLock(ctx); err != nil {
		return false, err
	}
	defer repo.s.mu.RUnlock()

	_, ok := repo.s.follows[followEdge{followerID: followerID, followeeID: followeeID}]
	return ok, nil
}

func (repo *FollowerRepositoryMemory) CountFollowers(ctx context.Context, userID string) (int64, error) {
	ids, err := repo.GetFollowersByUserID(ctx, userID)
	return int64(len(ids)), err
}

func (repo *FollowerRepositoryMemory) CountFollowing(ctx context.Context, followerID string) (int64, error) {
	ids, err := repo.ListFollowees(ctx, followerID)
	return int64(len(ids)), err
}

// followees must be called with the lock held.
func (s *Store) followees(followerID string) []string {
	ids := make([]string, 0)
	for edge := range s.follows {
		if edge.followerID == followerID {
			ids = append(ids, edge.followeeID)
		}
	}
	sort.Strings(ids)
	return ids
}
