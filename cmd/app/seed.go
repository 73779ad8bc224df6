package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// seed creates numUsers accounts that all follow each other, postsPerUser posts
// each, and likes every user's newest post from the next user.
func seed(ctx context.Context, logger *zap.Logger, a *app, numUsers, postsPerUser int) error {
	logger.Info("🚀 Starting seed: creating users...", zap.Int("users", numUsers))

	userIDs := make([]string, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		username := fmt.Sprintf("testuser%d", i)
		u, err := a.userSvc.RegisterUser(ctx, username, username+"@example.com", fmt.Sprintf("Test User %d", i), "password")
		if err != nil {
			logger.Error("❌ Error creating user", zap.String("username", username), zap.Error(err))
			continue
		}
		userIDs = append(userIDs, u.ID)
		if (i+1)%50 == 0 {
			logger.Info("✅ Created users so far", zap.Int("count", i+1))
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Info("✅ Finished creating users", zap.Int("count", len(userIDs)))

	count := 0
	for _, followerID := range userIDs {
		for _, followeeID := range userIDs {
			if followerID == followeeID {
				continue
			}
			if err := a.followerSvc.FollowUser(ctx, followerID, followeeID); err != nil {
				logger.Error("❌ Error: user could not follow", zap.String("followerID", followerID), zap.String("followeeID", followeeID), zap.Error(err))
				continue
			}
			count++
			if count%1000 == 0 {
				logger.Info("➡️ Processed follow relationships", zap.Int("count", count))
			}
		}
	}
	logger.Info("✅ Follow setup completed", zap.Int("count", count))

	postCount := 0
	for i, uid := range userIDs {
		var last string
		for p := 1; p <= postsPerUser; p++ {
			dto, err := a.postSvc.CreatePost(ctx, uid, fmt.Sprintf("https://picsum.photos/seed/%d-%d/600", i, p), fmt.Sprintf("Post %d by user %d", p, i))
			if err != nil {
				logger.Error("❌ Error creating post", zap.String("userID", uid), zap.Error(err))
				continue
			}
			last = dto.ID
			postCount++
		}
		if last != "" && len(userIDs) > 1 {
			liker := userIDs[(i+1)%len(userIDs)]
			if err := a.postSvc.LikePost(ctx, liker, last); err != nil {
				logger.Error("❌ Error liking post", zap.String("postID", last), zap.Error(err))
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Info("✅ Test data creation completed", zap.Int("users", len(userIDs)), zap.Int("posts", postCount))
	return nil
}
