package userapp_test

import (
	"context"
	"testing"
	"time"

	"snapfeed/internal/adapters/memory"
	userapp "snapfeed/internal/core/user/service"
	userPort "snapfeed/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

type deps struct {
	svc     *userapp.UserService
	follows *memory.FollowerRepositoryMemory
	posts   *memory.PostRepositoryMemory
}

func newDeps() deps {
	s := memory.NewStore()
	d := deps{
		follows: memory.NewFollowerRepositoryMemory(s),
		posts:   memory.NewPostRepositoryMemory(s),
	}
	d.svc = userapp.NewUserService(memory.NewUserRepositoryMemory(s), d.posts, d.follows, secret, nil)
	return d
}

func TestRegisterUser(t *testing.T) {
	d := newDeps()
	ctx := context.Background()

	u, err := d.svc.RegisterUser(ctx, " alice ", "Alice@Example.com", "Alice A", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice A", u.FullName)

	_, err = d.svc.RegisterUser(ctx, "alice", "other@example.com", "", "pw")
	assert.ErrorIs(t, err, userPort.ErrUserExists)
	_, err = d.svc.RegisterUser(ctx, "alice2", "alice@example.com", "", "pw")
	assert.ErrorIs(t, err, userPort.ErrUserExists)

	_, err = d.svc.RegisterUser(ctx, "", "x@example.com", "", "pw")
	assert.ErrorIs(t, err, userapp.ErrInvalidInput)
}

func TestLoginUser(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	u, err := d.svc.RegisterUser(ctx, "bob", "bob@example.com", "Bob", "hunter2")
	require.NoError(t, err)

	for _, login := range []string{"bob", "bob@example.com"} {
		res, err := d.svc.LoginUser(ctx, login, "hunter2")
		require.NoError(t, err, login)
		assert.Equal(t, u.ID, res.User.ID)
		assert.Greater(t, res.ExpiresAt, time.Now().Add(6*24*time.Hour).Unix())

		claims := &jwt.StandardClaims{}
		tok, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) { return secret, nil })
		require.NoError(t, err)
		assert.True(t, tok.Valid)
		assert.Equal(t, u.ID, claims.Subject)
		assert.Equal(t, userapp.TokenIssuer, claims.Issuer)
	}

	_, err = d.svc.LoginUser(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, userapp.ErrInvalidCredentials)
	_, err = d.svc.LoginUser(ctx, "nobody", "hunter2")
	assert.ErrorIs(t, err, userapp.ErrInvalidCredentials)
}

func TestGetProfile(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	alice, err := d.svc.RegisterUser(ctx, "alice", "alice@example.com", "", "pw")
	require.NoError(t, err)
	bob, err := d.svc.RegisterUser(ctx, "bob", "bob@example.com", "", "pw")
	require.NoError(t, err)

	require.NoError(t, d.follows.FollowUser(ctx, bob.ID, alice.ID))

	p, err := d.svc.GetProfile(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.FollowersCount)
	assert.Equal(t, int64(0), p.FollowingCount)
	assert.Equal(t, int64(0), p.PostsCount)
	assert.True(t, p.IsFollowing)
	assert.Empty(t, p.User.Email)

	own, err := d.svc.GetProfile(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, own.IsFollowing)
	assert.Equal(t, "alice@example.com", own.User.Email)

	_, err = d.svc.GetProfile(ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, userPort.ErrUserNotFound)
}
