package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"snapfeed/internal/adapters/httpapi"
	"snapfeed/internal/adapters/memory"
	feedEntity "snapfeed/internal/core/feed"
	feedapp "snapfeed/internal/core/feed/service"
	followerapp "snapfeed/internal/core/follower/service"
	postapp "snapfeed/internal/core/post/service"
	userapp "snapfeed/internal/core/user/service"
	"snapfeed/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

// tickingClock hands out strictly increasing timestamps so posts sort by creation.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func newServer(t *testing.T, feedUC httpapi.FeedUseCase) *gin.Engine {
	t.Helper()
	s := memory.NewStore().WithClock(tickingClock())
	users := memory.NewUserRepositoryMemory(s)
	posts := memory.NewPostRepositoryMemory(s)
	follows := memory.NewFollowerRepositoryMemory(s)
	likes := memory.NewLikeRepositoryMemory(s)
	comments := memory.NewCommentRepositoryMemory(s)
	feedStore := memory.NewFeedStoreMemory(s)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if feedUC == nil {
		feedUC = feedapp.NewFeedService(feedStore, feedStore, nil, feedapp.WithMetrics(m))
	}

	return httpapi.SetupRoutes(
		userapp.NewUserService(users, posts, follows, secret, nil),
		postapp.NewPostService(posts, likes, comments, users, nil),
		followerapp.NewFollowerService(follows, users, nil),
		feedUC,
		httpapi.Options{
			JWTSecret:      secret,
			Metrics:        m,
			MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			DefaultLimit:   20,
			MaxLimit:       50,
		},
	)
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type account struct {
	id    string
	token string
}

func signup(t *testing.T, r http.Handler, name string) account {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": name, "email": name + "@example.com", "password": "pw-" + name, "full_name": name,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"login": name, "password": "pw-" + name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}](t, w)
	require.NotEmpty(t, res.Token)
	return account{id: res.User.ID, token: res.Token}
}

type postResp struct {
	ID string `json:"id"`
}

func createPost(t *testing.T, r http.Handler, a account, caption string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/posts", a.token, gin.H{"image_url": "https://img.example.com/" + caption, "caption": caption})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[postResp](t, w).ID
}

type feedResp struct {
	Feed []struct {
		ID           string `json:"id"`
		Username     string `json:"username"`
		LikeCount    int64  `json:"like_count"`
		CommentCount int64  `json:"comment_count"`
		Liked        bool   `json:"liked_by_user"`
	} `json:"feed"`
	Cursor *string `json:"cursor"`
}

func TestFeedFlow(t *testing.T) {
	r := newServer(t, nil)
	u1 := signup(t, r, "alice")
	u2 := signup(t, r, "bob")
	u3 := signup(t, r, "carol")

	p1 := createPost(t, r, u1, "one")
	p2 := createPost(t, r, u2, "two")
	createPost(t, r, u3, "three")
	p4 := createPost(t, r, u1, "four")

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/users/"+u2.id+"/follow", u1.token, nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/posts/"+p2+"/like", u1.token, nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/posts/"+p2+"/like", u3.token, nil).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/posts/"+p1+"/comments", u2.token, gin.H{"content": "nice"}).Code)

	w := do(t, r, http.MethodGet, "/api/posts/feed", u1.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[feedResp](t, w)

	require.Len(t, got.Feed, 3)
	assert.Equal(t, []string{p4, p2, p1}, []string{got.Feed[0].ID, got.Feed[1].ID, got.Feed[2].ID})
	assert.Equal(t, "bob", got.Feed[1].Username)
	assert.Equal(t, int64(2), got.Feed[1].LikeCount)
	assert.True(t, got.Feed[1].Liked)
	assert.Equal(t, int64(1), got.Feed[2].CommentCount)
	assert.False(t, got.Feed[2].Liked)
	assert.Nil(t, got.Cursor)
}

func TestFeedPaging(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "alice")
	var ids []string
	for _, c := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, createPost(t, r, a, c))
	}

	w := do(t, r, http.MethodGet, "/api/posts/feed?limit=2", a.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[feedResp](t, w)
	require.Len(t, first.Feed, 2)
	require.NotNil(t, first.Cursor)
	assert.Equal(t, ids[4], first.Feed[0].ID)

	w = do(t, r, http.MethodGet, "/api/posts/feed?limit=2&cursor="+*first.Cursor, a.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[feedResp](t, w)
	require.Len(t, second.Feed, 2)
	assert.Equal(t, ids[2], second.Feed[0].ID)
}

func TestFeedBadQuery(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "alice")

	for _, q := range []string{"?limit=0", "?limit=abc", "?cursor=!!!"} {
		w := do(t, r, http.MethodGet, "/api/posts/feed"+q, a.token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestEmptyFeed(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "alice")

	w := do(t, r, http.MethodGet, "/api/posts/feed", a.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[feedResp](t, w)
	assert.NotNil(t, got.Feed)
	assert.Empty(t, got.Feed)
}

type stubFeed struct {
	err error
}

func (s stubFeed) ComputeFeed(context.Context, string, feedEntity.Page) (*feedEntity.Result, error) {
	return nil, s.err
}

func TestFeedErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", feedEntity.ErrNotFound, http.StatusNotFound},
		{"unavailable", feedEntity.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"cancelled", feedEntity.ErrCancelled, http.StatusServiceUnavailable},
		{"unexpected", context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newServer(t, stubFeed{err: tt.err})
			a := signup(t, r, "alice")
			w := do(t, r, http.MethodGet, "/api/posts/feed", a.token, nil)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestAuthErrors(t *testing.T) {
	r := newServer(t, nil)
	signup(t, r, "alice")

	w := do(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{"username": "alice", "email": "other@example.com", "password": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "pw-alice"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/posts/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/api/posts/feed", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowAndProfile(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "alice")
	b := signup(t, r, "bob")
	createPost(t, r, b, "hello")

	w := do(t, r, http.MethodPost, "/api/users/"+a.id+"/follow", a.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/users/not-a-uuid/follow", a.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/users/00000000-0000-0000-0000-000000000001/follow", a.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/users/"+b.id+"/follow", a.token, nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/users/"+b.id+"/follow", a.token, nil).Code)

	w = do(t, r, http.MethodGet, "/api/users/"+b.id, a.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
		Followers   int64 `json:"followers_count"`
		Posts       int64 `json:"posts_count"`
		IsFollowing bool  `json:"is_following"`
	}](t, w)
	assert.Equal(t, "bob", profile.User.Username)
	assert.Empty(t, profile.User.Email)
	assert.Equal(t, int64(1), profile.Followers)
	assert.Equal(t, int64(1), profile.Posts)
	assert.True(t, profile.IsFollowing)

	w = do(t, r, http.MethodGet, "/api/users/"+b.id+"/followers", a.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	followers := decode[[]struct {
		FollowerID string `json:"followerId"`
	}](t, w)
	require.Len(t, followers, 1)
	assert.Equal(t, a.id, followers[0].FollowerID)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodDelete, "/api/users/"+b.id+"/follow", a.token, nil).Code)
	w = do(t, r, http.MethodGet, "/api/users/profile", b.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	own := decode[struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		Followers int64 `json:"followers_count"`
	}](t, w)
	assert.Equal(t, "bob@example.com", own.User.Email)
	assert.Zero(t, own.Followers)
}

func TestPostEndpoints(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "alice")
	b := signup(t, r, "bob")

	w := do(t, r, http.MethodPost, "/api/posts", a.token, gin.H{"caption": "no image"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	p := createPost(t, r, a, "sunset")

	w = do(t, r, http.MethodGet, "/api/posts/00000000-0000-0000-0000-000000000009", a.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodPost, "/api/posts/00000000-0000-0000-0000-000000000009/like", a.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/posts/"+p+"/like", b.token, nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/posts/"+p+"/like", b.token, nil).Code)

	w = do(t, r, http.MethodGet, "/api/posts/"+p, b.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		LikeCount int64 `json:"like_count"`
		Liked     bool  `json:"liked_by_user"`
	}](t, w)
	assert.Equal(t, int64(1), got.LikeCount)
	assert.True(t, got.Liked)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodDelete, "/api/posts/"+p+"/like", b.token, nil).Code)

	w = do(t, r, http.MethodPost, "/api/posts/"+p+"/comments", b.token, gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/posts/"+p+"/comments", b.token, gin.H{"content": "first"}).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/posts/"+p+"/comments", a.token, gin.H{"content": "second"}).Code)

	w = do(t, r, http.MethodGet, "/api/posts/"+p+"/comments", a.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode[[]struct {
		Content  string `json:"content"`
		Username string `json:"username"`
	}](t, w)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "bob", comments[0].Username)

	w = do(t, r, http.MethodGet, "/api/users/"+a.id+"/posts", b.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decode[[]struct {
		ID           string `json:"id"`
		LikeCount    int64  `json:"like_count"`
		CommentCount int64  `json:"comment_count"`
	}](t, w)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(0), posts[0].LikeCount)
	assert.Equal(t, int64(2), posts[0].CommentCount)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "alice")
	do(t, r, http.MethodGet, "/api/posts/feed", a.token, nil)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/healthz", "", nil).Code)

	w := do(t, r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "snapfeed_feed_compute_duration_seconds")
	assert.Contains(t, w.Body.String(), "snapfeed_http_requests_total")
}
