package httpapi

import (
	"context"
	"net/http"

	"snapfeed/internal/adapters/httpapi/middleware"
	feedEntity "snapfeed/internal/core/feed"
	"snapfeed/internal/metrics"
	commentPort "snapfeed/internal/ports/comment"
	followerPort "snapfeed/internal/ports/follower"
	postPort "snapfeed/internal/ports/post"
	userPort "snapfeed/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserUseCase is the inbound port used by the user controller.
type UserUseCase interface {
	LoginUser(ctx context.Context, login, password string) (*userPort.LoginResponse, error)
	RegisterUser(ctx context.Context, username, email, fullName, password string) (*userPort.UserDTO, error)
	GetProfile(ctx context.Context, viewerID, userID string) (*userPort.ProfileDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, userID, imageURL, caption string) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, viewerID, postID string) (*postPort.PostDTO, error)
	ListUserPosts(ctx context.Context, viewerID, userID string) ([]*postPort.PostDTO, error)
	LikePost(ctx context.Context, userID, postID string) error
	UnlikePost(ctx context.Context, userID, postID string) error
	AddComment(ctx context.Context, userID, postID, content string) (*commentPort.CommentDTO, error)
	ListComments(ctx context.Context, postID string) ([]*commentPort.CommentDTO, error)
}

type FollowerUseCase interface {
	FollowUser(ctx context.Context, followerID, followeeID string) error
	UnfollowUser(ctx context.Context, followerID, followeeID string) error
	GetFollowersByUserID(ctx context.Context, userID string) ([]*followerPort.FollowerDTO, error)
	GetFollowingByUserID(ctx context.Context, userID string) ([]*followerPort.FollowerDTO, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}

type FeedUseCase interface {
	ComputeFeed(ctx context.Context, viewerID string, page feedEntity.Page) (*feedEntity.Result, error)
}

type Options struct {
	JWTSecret      []byte
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	DefaultLimit   int
	MaxLimit       int
}

// SetupRoutes only wires routes; the use cases are injected from outside.
func SetupRoutes(
	userUC UserUseCase,
	postUC PostUseCase,
	followerUC FollowerUseCase,
	feedUC FeedUseCase,
	opts Options,
) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger, opts.Metrics))

	errs := errorWriter{logger: opts.Logger}
	uc := NewUserController(userUC, errs)
	pc := NewPostController(postUC, errs)
	fc := NewFollowerController(followerUC, errs)
	feedCtl := NewFeedController(feedUC, errs, opts.DefaultLimit, opts.MaxLimit)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	api := r.Group("/api")

	// signup and login without JWT
	auth := api.Group("/auth")
	auth.POST("/signup", uc.RegisterUser)
	auth.POST("/login", uc.LoginUser)

	authed := api.Group("", middleware.JWTAuthMiddleware(opts.JWTSecret))

	posts := authed.Group("/posts")
	posts.GET("/feed", feedCtl.GetFeed)
	posts.POST("", pc.CreatePost)
	posts.GET("/:id", pc.GetPost)
	posts.POST("/:id/like", pc.LikePost)
	posts.DELETE("/:id/like", pc.UnlikePost)
	posts.GET("/:id/comments", pc.ListComments)
	posts.POST("/:id/comments", pc.AddComment)

	users := authed.Group("/users")
	users.GET("/profile", uc.GetOwnProfile)
	users.GET("/:id", uc.GetProfile)
	users.GET("/:id/posts", pc.ListUserPosts)
	users.POST("/:id/follow", fc.FollowUser)
	users.DELETE("/:id/follow", fc.UnfollowUser)
	users.GET("/:id/followers", fc.GetFollowersByUserID)
	users.GET("/:id/following", fc.GetFollowingByUserID)

	return r
}

// currentUserID reads the id set by the JWT middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return "", false
	}
	return id, true
}
