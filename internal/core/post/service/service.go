package postapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	commentEntity "snapfeed/internal/core/comment"
	postEntity "snapfeed/internal/core/post"
	commentPort "snapfeed/internal/ports/comment"
	likePort "snapfeed/internal/ports/like"
	postPort "snapfeed/internal/ports/post"
	userPort "snapfeed/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

var (
	ErrImageRequired   = errors.New("image_url is required")
	ErrContentRequired = errors.New("comment content is required")
)

type PostService struct {
	PostRepository    postPort.PostRepository
	LikeRepository    likePort.LikeRepository
	CommentRepository commentPort.CommentRepository
	UserRepository    userPort.UserRepository
	logger            *zap.Logger
}

func NewPostService(
	postRepo postPort.PostRepository,
	likeRepo likePort.LikeRepository,
	commentRepo commentPort.CommentRepository,
	userRepo userPort.UserRepository,
	logger *zap.Logger,
) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		PostRepository:    postRepo,
		LikeRepository:    likeRepo,
		CommentRepository: commentRepo,
		UserRepository:    userRepo,
		logger:            logger,
	}
}

// CreatePost stores a new post for userID. The image is a reference; uploads
// happen elsewhere.
func (s *PostService) CreatePost(ctx context.Context, userID, imageURL, caption string) (*postPort.PostDTO, error) {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid userID: %w", err)
	}
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, ErrImageRequired
	}

	post := &postEntity.Post{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   uid,
		ImageURL: imageURL,
		Caption:  caption,
	}
	created, err := s.PostRepository.Create(ctx, post)
	if err != nil {
		s.logger.Error("failed to create post", zap.String("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.logger.Info("post created", zap.String("postID", created.ID.String()), zap.String("userID", userID))
	return toDTO(created, 0, 0, false), nil
}

// GetPost returns one post with its counts and whether viewerID liked it.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID string) (*postPort.PostDTO, error) {
	post, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewerID, post)
}

// ListUserPosts returns the author's posts newest first, annotated for viewerID.
func (s *PostService) ListUserPosts(ctx context.Context, viewerID, userID string) ([]*postPort.PostDTO, error) {
	if _, err := s.UserRepository.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	posts, err := s.PostRepository.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dto, err := s.annotate(ctx, viewerID, p)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// LikePost is idempotent.
func (s *PostService) LikePost(ctx context.Context, userID, postID string) error {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return err
	}
	return s.LikeRepository.Like(ctx, userID, postID)
}

// UnlikePost is idempotent.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID string) error {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return err
	}
	return s.LikeRepository.Unlike(ctx, userID, postID)
}

func (s *PostService) AddComment(ctx context.Context, userID, postID, content string) (*commentPort.CommentDTO, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	post, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	author, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := &commentEntity.Comment{
		ID:      uuid.Must(uuid.NewV4()),
		UserID:  author.ID,
		PostID:  post.ID,
		Content: content,
	}
	created, err := s.CommentRepository.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	created.User = *author
	return toCommentDTO(created), nil
}

// ListComments returns the comments of a post oldest first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]*commentPort.CommentDTO, error) {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.CommentRepository.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*commentPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, toCommentDTO(c))
	}
	return dtos, nil
}

func (s *PostService) annotate(ctx context.Context, viewerID string, post *postEntity.Post) (*postPort.PostDTO, error) {
	postID := post.ID.String()
	likes, err := s.LikeRepository.CountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	comments, err := s.CommentRepository.CountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	liked := false
	if viewerID != "" {
		if liked, err = s.LikeRepository.Exists(ctx, viewerID, postID); err != nil {
			return nil, fmt.Errorf("like state: %w", err)
		}
	}
	return toDTO(post, likes, comments, liked), nil
}

func toDTO(p *postEntity.Post, likes, comments int64, liked bool) *postPort.PostDTO {
	return &postPort.PostDTO{
		ID:           p.ID.String(),
		UserID:       p.UserID.String(),
		ImageURL:     p.ImageURL,
		Caption:      p.Caption,
		LikeCount:    likes,
		CommentCount: comments,
		LikedByUser:  liked,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toCommentDTO(c *commentEntity.Comment) *commentPort.CommentDTO {
	return &commentPort.CommentDTO{
		ID:         c.ID.String(),
		PostID:     c.PostID.String(),
		UserID:     c.UserID.String(),
		Username:   c.User.Username,
		ProfilePic: c.User.ProfilePic,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
