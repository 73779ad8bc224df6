// Package postgres reads the feed straight from Postgres with pgx. The schema
// is the one the gorm adapter writes, so both can share a database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	feedEntity "snapfeed/internal/core/feed"
	"snapfeed/internal/core/post"
	"snapfeed/internal/core/user"
	userPort "snapfeed/internal/ports/user"

	"github.com/gofrs/uuid"
	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements the feed GraphStore, ContentStore and Querier ports.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListFollowees(ctx context.Context, userID string) ([]string, error) {
	const q = `SELECT user_id FROM followers WHERE follower_id = $1 ORDER BY user_id`
	rows, err := s.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query followees: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan followees: %w", err)
	}
	return ids, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*user.User, error) {
	const q = `
	SELECT id, username, email, full_name, profile_pic, created_at, updated_at
	FROM users
	WHERE id = $1;
	`
	var (
		u  user.User
		id string
	)
	err := s.DB.QueryRow(ctx, q, userID).Scan(&id, &u.Username, &u.Email, &u.FullName, &u.ProfilePic, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, userPort.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.ID = uuid.FromStringOrNil(id)
	return &u, nil
}

func (s *Store) ListPostsByAuthors(ctx context.Context, authorIDs []string) ([]*post.Post, error) {
	res := make([]*post.Post, 0)
	if len(authorIDs) == 0 {
		return res, nil
	}
	const q = `
	SELECT id, user_id, image_url, caption, created_at
	FROM posts
	WHERE user_id = ANY($1)
	ORDER BY created_at DESC, id COLLATE "C" DESC;
	`
	rows, err := s.DB.Query(ctx, q, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p          post.Post
			id, author string
		)
		if err := rows.Scan(&id, &author, &p.ImageURL, &p.Caption, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		p.ID = uuid.FromStringOrNil(id)
		p.UserID = uuid.FromStringOrNil(author)
		res = append(res, &p)
	}
	return res, rows.Err()
}

func (s *Store) CountLikes(ctx context.Context, postID string) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID)
}

func (s *Store) CountComments(ctx context.Context, postID string) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID)
}

func (s *Store) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	var liked bool
	err := s.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)`, userID, postID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("query like: %w", err)
	}
	return liked, nil
}

func (s *Store) count(ctx context.Context, q string, args ...any) (int64, error) {
	var n int64
	if err := s.DB.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// QueryFeed computes a feed page in one statement: visibility, ordering,
// counts and the viewer flag are all evaluated by Postgres.
func (s *Store) QueryFeed(ctx context.Context, viewerID string, page feedEntity.Page) ([]feedEntity.Entry, error) {
	sql, args := buildFeedQuery(viewerID, page)
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	defer rows.Close()

	entries := make([]feedEntity.Entry, 0)
	for rows.Next() {
		var (
			e         feedEntity.Entry
			createdAt time.Time
		)
		if err := rows.Scan(
			&e.PostID, &e.AuthorID, &e.ImageURL, &e.Caption, &createdAt,
			&e.AuthorHandle, &e.AuthorProfileImage,
			&e.LikeCount, &e.CommentCount, &e.ViewerHasLiked,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		e.CreatedAt = createdAt.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// buildFeedQuery selects the viewer's own posts and those of its followees.
// Post ids are compared with the C collation so the tie-break matches byte order.
func buildFeedQuery(viewerID string, page feedEntity.Page) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"p.id", "p.user_id", "p.image_url", "p.caption", "p.created_at",
		"u.username", "u.profile_pic",
		"(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count",
		"(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count",
		fmt.Sprintf("EXISTS (SELECT 1 FROM likes vl WHERE vl.post_id = p.id AND vl.user_id = %s) AS liked_by_user", sb.Var(viewerID)),
	)
	sb.From("posts p")
	sb.Join("users u", "u.id = p.user_id")
	sb.Where(sb.Or(
		sb.Equal("p.user_id", viewerID),
		fmt.Sprintf("p.user_id IN (SELECT f.user_id FROM followers f WHERE f.follower_id = %s)", sb.Var(viewerID)),
	))
	if page.Cursor != nil {
		sb.Where(fmt.Sprintf(`(p.created_at, p.id COLLATE "C") < (%s, %s)`,
			sb.Var(page.Cursor.CreatedAt), sb.Var(page.Cursor.PostID)))
	}
	sb.OrderBy("p.created_at DESC", `p.id COLLATE "C" DESC`)
	if page.Limit > 0 {
		sb.Limit(page.Limit + 1)
	}
	return sb.Build()
}
