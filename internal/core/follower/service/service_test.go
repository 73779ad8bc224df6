package followerapp_test

import (
	"context"
	"testing"

	"snapfeed/internal/adapters/memory"
	followerapp "snapfeed/internal/core/follower/service"
	"snapfeed/internal/core/user"
	userPort "snapfeed/internal/ports/user"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowerService(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	users := memory.NewUserRepositoryMemory(s)
	svc := followerapp.NewFollowerService(memory.NewFollowerRepositoryMemory(s), users, nil)

	mk := func(name string) string {
		u, err := users.Create(ctx, &user.User{Username: name, Email: name + "@example.com"})
		require.NoError(t, err)
		return u.ID.String()
	}
	alice, bob := mk("alice"), mk("bob")

	assert.ErrorIs(t, svc.FollowUser(ctx, alice, alice), followerapp.ErrSelfFollow)
	assert.ErrorIs(t, svc.FollowUser(ctx, alice, uuid.Must(uuid.NewV4()).String()), userPort.ErrUserNotFound)

	require.NoError(t, svc.FollowUser(ctx, alice, bob))
	require.NoError(t, svc.FollowUser(ctx, alice, bob))

	ok, err := svc.IsFollowing(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsFollowing(ctx, bob, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	followers, err := svc.GetFollowersByUserID(ctx, bob)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice, followers[0].FollowerID)
	assert.Equal(t, bob, followers[0].UserID)

	following, err := svc.GetFollowingByUserID(ctx, alice)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob, following[0].UserID)

	require.NoError(t, svc.UnfollowUser(ctx, alice, bob))
	require.NoError(t, svc.UnfollowUser(ctx, alice, bob))
	following, err = svc.GetFollowingByUserID(ctx, alice)
	require.NoError(t, err)
	assert.NotNil(t, following)
	assert.Empty(t, following)
}
