package post

import (
	"context"
	"errors"

	"snapfeed/internal/core/post"
)

var ErrPostNotFound = errors.New("post not found")

// PostRepository stores and loads posts.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	// FindByUserID returns the author's posts newest first.
	FindByUserID(ctx context.Context, userID string) ([]*post.Post, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
}

type PostDTO struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	ImageURL     string `json:"image_url"`
	Caption      string `json:"caption"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	LikedByUser  bool   `json:"liked_by_user"`
	CreatedAt    string `json:"created_at"`
}
