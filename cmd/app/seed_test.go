package main

import (
	"context"
	"testing"

	"snapfeed/internal/config"
	feedEntity "snapfeed/internal/core/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedMemory(t *testing.T) {
	cfg := config.Default()
	cfg.App.JWTSecret = "secret"
	cfg.Database.Driver = config.DriverMemory
	require.NoError(t, cfg.Validate())

	ctx := context.Background()
	a, err := buildApp(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.close()

	require.NoError(t, seed(ctx, zap.NewNop(), a, 3, 2))

	login, err := a.userSvc.LoginUser(ctx, "testuser0", "password")
	require.NoError(t, err)

	res, err := a.feedSvc.ComputeFeed(ctx, login.User.ID, feedEntity.Page{})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 6)
	assert.Nil(t, res.NextCursor)

	var likes int64
	for _, e := range res.Entries {
		likes += e.LikeCount
	}
	assert.Equal(t, int64(3), likes)
}
