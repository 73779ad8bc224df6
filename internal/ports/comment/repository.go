package comment

import (
	"context"

	"snapfeed/internal/core/comment"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *comment.Comment) (*comment.Comment, error)
	// ListByPostID returns comments oldest first with their author loaded.
	ListByPostID(ctx context.Context, postID string) ([]*comment.Comment, error)
	CountByPostID(ctx context.Context, postID string) (int64, error)
}

type CommentDTO struct {
	ID         string `json:"id"`
	PostID     string `json:"post_id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}
