// Package memory keeps every entity in process memory. Data is lost on
// restart; it backs DB_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sync"
	"time"
)

type followEdge struct {
	followerID string
	followeeID string
}

type likeEdge struct {
	userID string
	postID string
}

// Store is shared by the memory repositories.
type Store struct {
	mu sync.RWMutex

	users    map[string]*userRecord
	posts    map[string]*postRecord
	follows  map[followEdge]time.Time
	likes    map[likeEdge]time.Time
	comments map[string][]*commentRecord

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*userRecord),
		posts:    make(map[string]*postRecord),
		follows:  make(map[followEdge]time.Time),
		likes:    make(map[likeEdge]time.Time),
		comments: make(map[string][]*commentRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source used for records created without one.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) readLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	return nil
}

func (s *Store) writeLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	return nil
}
