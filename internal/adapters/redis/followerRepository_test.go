package redis

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs when SNAPFEED_TEST_REDIS_ADDR points at a Redis instance.
func TestFollowerRepositoryRedis(t *testing.T) {
	addr := os.Getenv("SNAPFEED_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("skipping Redis test: SNAPFEED_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	repo := NewFollowerRepositoryRedis(client, nil)
	a := uuid.Must(uuid.NewV4()).String()
	b := uuid.Must(uuid.NewV4()).String()
	defer client.Del(ctx, followingPrefix+a, followersPrefix+a, followingPrefix+b, followersPrefix+b)

	require.NoError(t, repo.FollowUser(ctx, a, b))
	require.NoError(t, repo.FollowUser(ctx, a, b))

	followees, err := repo.ListFollowees(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []string{b}, followees)

	followers, err := repo.GetFollowersByUserID(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, followers)

	n, err := repo.CountFollowers(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err := repo.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.UnfollowUser(ctx, a, b))
	ok, err = repo.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, ok)
	n, err = repo.CountFollowing(ctx, a)
	require.NoError(t, err)
	assert.Zero(t, n)
}
