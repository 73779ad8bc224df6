package followerapp

import (
	"context"
	"errors"

	followerPort "snapfeed/internal/ports/follower"
	userPort "snapfeed/internal/ports/user"

	"go.uber.org/zap"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

type FollowerService struct {
	FollowerRepository followerPort.FollowerRepository
	UserRepository     userPort.UserRepository
	logger             *zap.Logger
}

func NewFollowerService(repo followerPort.FollowerRepository, userRepo userPort.UserRepository, logger *zap.Logger) *FollowerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowerService{
		FollowerRepository: repo,
		UserRepository:     userRepo,
		logger:             logger,
	}
}

// FollowUser adds the edge followerID -> followeeID. Following twice is not an error.
func (s *FollowerService) FollowUser(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		s.logger.Warn("cannot follow yourself", zap.String("userID", followerID))
		return ErrSelfFollow
	}
	if _, err := s.UserRepository.FindByID(ctx, followeeID); err != nil {
		return err
	}
	if err := s.FollowerRepository.FollowUser(ctx, followerID, followeeID); err != nil {
		return err
	}
	s.logger.Debug("followed", zap.String("followerID", followerID), zap.String("followeeID", followeeID))
	return nil
}

// UnfollowUser removes the edge if present.
func (s *FollowerService) UnfollowUser(ctx context.Context, followerID, followeeID string) error {
	return s.FollowerRepository.UnfollowUser(ctx, followerID, followeeID)
}

func (s *FollowerService) GetFollowersByUserID(ctx context.Context, userID string) ([]*followerPort.FollowerDTO, error) {
	followers, err := s.FollowerRepository.GetFollowersByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*followerPort.FollowerDTO, 0, len(followers))
	for _, id := range followers {
		dtos = append(dtos, &followerPort.FollowerDTO{UserID: userID, FollowerID: id})
	}
	return dtos, nil
}

func (s *FollowerService) GetFollowingByUserID(ctx context.Context, userID string) ([]*followerPort.FollowerDTO, error) {
	following, err := s.FollowerRepository.ListFollowees(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*followerPort.FollowerDTO, 0, len(following))
	for _, id := range following {
		dtos = append(dtos, &followerPort.FollowerDTO{UserID: id, FollowerID: userID})
	}
	return dtos, nil
}

func (s *FollowerService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.FollowerRepository.IsFollowing(ctx, followerID, followeeID)
}
