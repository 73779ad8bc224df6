// Package feed holds the types produced by the home-feed computation.
//
// A feed is read-consistent per entry only: the counts and the like flag of one
// entry are read after the visibility decision for that entry, but different
// entries of the same result may reflect different store states when writes
// happen during the call. There is no snapshot across the whole result.
package feed

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when the viewer does not exist.
	ErrNotFound = errors.New("viewer not found")
	// ErrStoreUnavailable is returned when the graph or content store fails or times out.
	ErrStoreUnavailable = errors.New("feed store unavailable")
	// ErrCancelled is returned when the caller cancelled the request.
	ErrCancelled = errors.New("feed request cancelled")
	// ErrInvalidCursor is returned by ParseCursor.
	ErrInvalidCursor = errors.New("invalid feed cursor")
)

// Entry is one annotated post of a computed feed.
type Entry struct {
	PostID             string    `json:"id"`
	AuthorID           string    `json:"user_id"`
	ImageURL           string    `json:"image_url"`
	Caption            string    `json:"caption"`
	AuthorHandle       string    `json:"username"`
	AuthorProfileImage string    `json:"profile_pic"`
	LikeCount          int64     `json:"like_count"`
	CommentCount       int64     `json:"comment_count"`
	ViewerHasLiked     bool      `json:"liked_by_user"`
	CreatedAt          time.Time `json:"created_at"`
}

// Page selects a window of the feed. A zero Limit means no limit.
type Page struct {
	Limit  int
	Cursor *Cursor
}

// Result is a computed feed page. NextCursor is nil on the last page.
type Result struct {
	Entries    []Entry `json:"feed"`
	NextCursor *string `json:"cursor"`
}

// Cursor is the position of the last entry of a page.
type Cursor struct {
	CreatedAt time.Time
	PostID    string
}

// Before reports whether a post at (createdAt, postID) sorts before b in feed order.
// Feed order is created_at descending, then post id descending.
func Before(aCreatedAt time.Time, aPostID string, bCreatedAt time.Time, bPostID string) bool {
	if !aCreatedAt.Equal(bCreatedAt) {
		return aCreatedAt.After(bCreatedAt)
	}
	return aPostID > bPostID
}

// After reports whether a post at (createdAt, postID) belongs after the cursor.
func (c Cursor) After(createdAt time.Time, postID string) bool {
	return Before(c.CreatedAt, c.PostID, createdAt, postID)
}

func (c Cursor) String() string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + "|" + c.PostID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// CursorFor returns the cursor positioned at e.
func CursorFor(e Entry) Cursor {
	return Cursor{CreatedAt: e.CreatedAt, PostID: e.PostID}
}

// ParseCursor decodes a cursor produced by Cursor.String. An empty string yields nil.
func ParseCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	nanos, postID, ok := strings.Cut(string(raw), "|")
	if !ok || postID == "" {
		return nil, ErrInvalidCursor
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return &Cursor{CreatedAt: time.Unix(0, n).UTC(), PostID: postID}, nil
}
