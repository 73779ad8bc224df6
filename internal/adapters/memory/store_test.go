package memory_test

import (
	"context"
	"testing"
	"time"

	"snapfeed/internal/adapters/memory"
	"snapfeed/internal/core/comment"
	"snapfeed/internal/core/post"
	"snapfeed/internal/core/user"
	postPort "snapfeed/internal/ports/post"
	userPort "snapfeed/internal/ports/user"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, repo *memory.UserRepositoryMemory, name string) *user.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &user.User{Username: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func TestUserUniqueness(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepositoryMemory(memory.NewStore())
	alice := newUser(t, users, "alice")

	_, err := users.Create(ctx, &user.User{Username: "ALICE", Email: "x@example.com"})
	assert.ErrorIs(t, err, userPort.ErrUserExists)
	_, err = users.Create(ctx, &user.User{Username: "bob", Email: "Alice@Example.com"})
	assert.ErrorIs(t, err, userPort.ErrUserExists)

	got, err := users.FindByUsernameOrEmail(ctx, "", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = users.FindByID(ctx, uuid.Must(uuid.NewV4()).String())
	assert.ErrorIs(t, err, userPort.ErrUserNotFound)
}

func TestFollowAndLikeAreIdempotent(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	follows := memory.NewFollowerRepositoryMemory(s)
	likes := memory.NewLikeRepositoryMemory(s)

	require.NoError(t, follows.FollowUser(ctx, "a", "b"))
	require.NoError(t, follows.FollowUser(ctx, "a", "b"))
	require.NoError(t, follows.FollowUser(ctx, "c", "b"))

	n, err := follows.CountFollowers(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	followers, err := follows.GetFollowersByUserID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, followers)

	require.NoError(t, follows.UnfollowUser(ctx, "a", "b"))
	require.NoError(t, follows.UnfollowUser(ctx, "a", "b"))
	ok, err := follows.IsFollowing(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, likes.Like(ctx, "a", "p"))
	require.NoError(t, likes.Like(ctx, "a", "p"))
	count, err := likes.CountByPostID(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.NoError(t, likes.Unlike(ctx, "a", "p"))
	liked, err := likes.Exists(ctx, "a", "p")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestPostsAndComments(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := memory.NewStore()
	users := memory.NewUserRepositoryMemory(s)
	posts := memory.NewPostRepositoryMemory(s)
	comments := memory.NewCommentRepositoryMemory(s)
	feed := memory.NewFeedStoreMemory(s)

	alice := newUser(t, users, "alice")
	bob := newUser(t, users, "bob")

	older, err := posts.Create(ctx, &post.Post{UserID: alice.ID, ImageURL: "a.jpg", CreatedAt: base})
	require.NoError(t, err)
	newer, err := posts.Create(ctx, &post.Post{UserID: alice.ID, ImageURL: "b.jpg", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = posts.Create(ctx, &post.Post{UserID: bob.ID, ImageURL: "c.jpg", CreatedAt: base.Add(2 * time.Hour)})
	require.NoError(t, err)

	mine, err := posts.FindByUserID(ctx, alice.ID.String())
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, "alice", mine[0].User.Username)

	byAuthors, err := feed.ListPostsByAuthors(ctx, []string{alice.ID.String()})
	require.NoError(t, err)
	assert.Len(t, byAuthors, 2)

	_, err = posts.FindByID(ctx, uuid.Must(uuid.NewV4()).String())
	assert.ErrorIs(t, err, postPort.ErrPostNotFound)

	for _, body := range []string{"first", "second"} {
		_, err := comments.Create(ctx, &comment.Comment{UserID: bob.ID, PostID: older.ID, Content: body})
		require.NoError(t, err)
	}
	list, err := comments.ListByPostID(ctx, older.ID.String())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "bob", list[0].User.Username)

	n, err := feed.CountComments(ctx, older.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	feed := memory.NewFeedStoreMemory(memory.NewStore())

	_, err := feed.ListFollowees(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = feed.CountLikes(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
}
