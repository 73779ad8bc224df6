package feedapp

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	feedEntity "snapfeed/internal/core/feed"
	postEntity "snapfeed/internal/core/post"
	userEntity "snapfeed/internal/core/user"
	"snapfeed/internal/metrics"
	feedPort "snapfeed/internal/ports/feed"
	userPort "snapfeed/internal/ports/user"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// FeedService computes home feeds. It holds no state between calls.
type FeedService struct {
	Graph   feedPort.GraphStore
	Content feedPort.ContentStore
	// Querier, when set, replaces the per-entry assembly with one query.
	Querier feedPort.Querier

	logger      *zap.Logger
	metrics     *metrics.Metrics
	concurrency int
	timeout     time.Duration
}

type Option func(*FeedService)

func WithQuerier(q feedPort.Querier) Option {
	return func(s *FeedService) { s.Querier = q }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *FeedService) { s.metrics = m }
}

// WithConcurrency bounds the number of entries annotated at once.
func WithConcurrency(n int) Option {
	return func(s *FeedService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithTimeout bounds a whole computation. Expiry surfaces as ErrStoreUnavailable.
func WithTimeout(d time.Duration) Option {
	return func(s *FeedService) { s.timeout = d }
}

func NewFeedService(graph feedPort.GraphStore, content feedPort.ContentStore, logger *zap.Logger, opts ...Option) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FeedService{
		Graph:       graph,
		Content:     content,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeFeed returns the viewer's home feed: posts by the viewer and by every
// account the viewer follows, newest first, ties broken by post id descending.
// Counts and the like flag are read fresh on every call.
func (s *FeedService) ComputeFeed(ctx context.Context, viewerID string, page feedEntity.Page) (*feedEntity.Result, error) {
	start := time.Now()
	res, err := s.computeFeed(ctx, viewerID, page)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.ObserveFeed(outcomeOf(err), elapsed, 0)
		switch {
		case errors.Is(err, feedEntity.ErrStoreUnavailable):
			s.logger.Error("feed computation failed", zap.String("viewerID", viewerID), zap.Duration("elapsed", elapsed), zap.Error(err))
		default:
			s.logger.Debug("feed computation aborted", zap.String("viewerID", viewerID), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.ObserveFeed(metrics.OutcomeOK, elapsed, len(res.Entries))
	s.logger.Debug("feed computed",
		zap.String("viewerID", viewerID),
		zap.Int("entries", len(res.Entries)),
		zap.Bool("hasMore", res.NextCursor != nil),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}

func (s *FeedService) computeFeed(parent context.Context, viewerID string, page feedEntity.Page) (*feedEntity.Result, error) {
	if err := parent.Err(); err != nil {
		return nil, classify(parent, "start", err)
	}
	if page.Limit < 0 {
		page.Limit = 0
	}

	ctx := parent
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, s.timeout)
		defer cancel()
	}

	viewer, err := s.Content.GetUser(ctx, viewerID)
	if err != nil {
		if errors.Is(err, userPort.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", feedEntity.ErrNotFound, viewerID)
		}
		return nil, classify(parent, "load viewer", err)
	}

	if s.Querier != nil {
		entries, err := s.Querier.QueryFeed(ctx, viewerID, page)
		if err != nil {
			return nil, classify(parent, "query feed", err)
		}
		entries, next := window(entries, page.Limit, func(e feedEntity.Entry) feedEntity.Cursor {
			return feedEntity.CursorFor(e)
		})
		return newResult(entries, next), nil
	}

	posts, err := s.visiblePosts(ctx, viewerID, page.Cursor)
	if err != nil {
		return nil, classify(parent, "load posts", err)
	}
	posts, next := window(posts, page.Limit, func(p *postEntity.Post) feedEntity.Cursor {
		return feedEntity.Cursor{CreatedAt: p.CreatedAt, PostID: p.ID.String()}
	})

	entries, err := s.annotate(ctx, viewer, posts)
	if err != nil {
		return nil, classify(parent, "annotate", err)
	}
	return newResult(entries, next), nil
}

// visiblePosts returns the posts of the viewer and its followees in feed
// order, positioned after cursor when one is given.
func (s *FeedService) visiblePosts(ctx context.Context, viewerID string, cursor *feedEntity.Cursor) ([]*postEntity.Post, error) {
	followees, err := s.Graph.ListFollowees(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authors := lo.Uniq(append([]string{viewerID}, followees...))

	posts, err := s.Content.ListPostsByAuthors(ctx, authors)
	if err != nil {
		return nil, err
	}
	posts = lo.UniqBy(posts, func(p *postEntity.Post) string { return p.ID.String() })
	if cursor != nil {
		posts = lo.Filter(posts, func(p *postEntity.Post, _ int) bool {
			return cursor.After(p.CreatedAt, p.ID.String())
		})
	}
	slices.SortFunc(posts, func(a, b *postEntity.Post) int {
		switch {
		case feedEntity.Before(a.CreatedAt, a.ID.String(), b.CreatedAt, b.ID.String()):
			return -1
		case feedEntity.Before(b.CreatedAt, b.ID.String(), a.CreatedAt, a.ID.String()):
			return 1
		}
		return 0
	})
	return posts, nil
}

// annotate loads author profiles and reads counts and the viewer flag for
// every post. Any failed read fails the whole call.
func (s *FeedService) annotate(ctx context.Context, viewer *userEntity.User, posts []*postEntity.Post) ([]feedEntity.Entry, error) {
	authors, err := s.loadAuthors(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}

	viewerID := viewer.ID.String()
	entries := make([]feedEntity.Entry, len(posts))
	ok := make([]bool, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range posts {
		i, p := i, p
		author, found := authors[p.UserID.String()]
		if !found {
			s.logger.Warn("skipping post with missing author",
				zap.String("postID", p.ID.String()),
				zap.String("authorID", p.UserID.String()),
			)
			continue
		}
		g.Go(func() error {
			postID := p.ID.String()
			likes, err := s.Content.CountLikes(gctx, postID)
			if err != nil {
				return fmt.Errorf("count likes of %s: %w", postID, err)
			}
			comments, err := s.Content.CountComments(gctx, postID)
			if err != nil {
				return fmt.Errorf("count comments of %s: %w", postID, err)
			}
			liked, err := s.Content.HasLiked(gctx, viewerID, postID)
			if err != nil {
				return fmt.Errorf("like flag of %s: %w", postID, err)
			}
			entries[i] = feedEntity.Entry{
				PostID:             postID,
				AuthorID:           p.UserID.String(),
				ImageURL:           p.ImageURL,
				Caption:            p.Caption,
				AuthorHandle:       author.Username,
				AuthorProfileImage: author.ProfilePic,
				LikeCount:          likes,
				CommentCount:       comments,
				ViewerHasLiked:     liked,
				CreatedAt:          p.CreatedAt,
			}
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]feedEntity.Entry, 0, len(posts))
	for i := range entries {
		if ok[i] {
			out = append(out, entries[i])
		}
	}
	return out, nil
}

// loadAuthors fetches each distinct author once. Authors that no longer exist
// are left out of the map.
func (s *FeedService) loadAuthors(ctx context.Context, viewer *userEntity.User, posts []*postEntity.Post) (map[string]*userEntity.User, error) {
	viewerID := viewer.ID.String()
	ids := lo.Without(lo.Uniq(lo.Map(posts, func(p *postEntity.Post, _ int) string {
		return p.UserID.String()
	})), viewerID)

	loaded := make([]*userEntity.User, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			u, err := s.Content.GetUser(gctx, id)
			if errors.Is(err, userPort.ErrUserNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load author %s: %w", id, err)
			}
			loaded[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	authors := map[string]*userEntity.User{viewerID: viewer}
	for _, u := range loaded {
		if u != nil {
			authors[u.ID.String()] = u
		}
	}
	return authors, nil
}

// window trims items to limit and reports the cursor of the last kept item
// when more remain. items must hold at most limit+1 relevant elements past
// the previous cursor; extra elements are dropped.
func window[T any](items []T, limit int, cursorOf func(T) feedEntity.Cursor) ([]T, *feedEntity.Cursor) {
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	items = items[:limit]
	c := cursorOf(items[limit-1])
	return items, &c
}

func newResult(entries []feedEntity.Entry, next *feedEntity.Cursor) *feedEntity.Result {
	if entries == nil {
		entries = []feedEntity.Entry{}
	}
	res := &feedEntity.Result{Entries: entries}
	if next != nil {
		res.NextCursor = lo.ToPtr(next.String())
	}
	return res
}

// classify maps a store failure onto the feed error categories. A cancelled
// caller context wins over the store cause; everything else, deadlines
// included, is reported as an unavailable store.
func classify(parent context.Context, op string, err error) error {
	if errors.Is(err, feedEntity.ErrCancelled) || errors.Is(err, feedEntity.ErrStoreUnavailable) {
		return err
	}
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("%w: %s: %w", feedEntity.ErrCancelled, op, err)
	}
	return fmt.Errorf("%w: %s: %w", feedEntity.ErrStoreUnavailable, op, err)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, feedEntity.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, feedEntity.ErrCancelled):
		return metrics.OutcomeCancelled
	default:
		return metrics.OutcomeUnavailable
	}
}
