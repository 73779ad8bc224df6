package main

import (
	"context"
	"fmt"
	"net/http"

	dbadapter "snapfeed/internal/adapters/database"
	"snapfeed/internal/adapters/memory"
	neo4jadapter "snapfeed/internal/adapters/neo4j"
	"snapfeed/internal/adapters/postgres"
	redisadapter "snapfeed/internal/adapters/redis"
	"snapfeed/internal/config"
	feedapp "snapfeed/internal/core/feed/service"
	followerapp "snapfeed/internal/core/follower/service"
	postapp "snapfeed/internal/core/post/service"
	userapp "snapfeed/internal/core/user/service"
	"snapfeed/internal/metrics"
	commentPort "snapfeed/internal/ports/comment"
	feedPort "snapfeed/internal/ports/feed"
	followerPort "snapfeed/internal/ports/follower"
	likePort "snapfeed/internal/ports/like"
	postPort "snapfeed/internal/ports/post"
	userPort "snapfeed/internal/ports/user"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type app struct {
	logger         *zap.Logger
	userSvc        *userapp.UserService
	postSvc        *postapp.PostService
	followerSvc    *followerapp.FollowerService
	feedSvc        *feedapp.FeedService
	metrics        *metrics.Metrics
	metricsHandler http.Handler
	closers        []func() error
}

type repositories struct {
	users     userPort.UserRepository
	posts     postPort.PostRepository
	followers followerPort.FollowerRepository
	likes     likePort.LikeRepository
	comments  commentPort.CommentRepository
	content   feedPort.ContentStore
}

// buildApp opens the configured stores and injects them into the use cases.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{logger: logger}
	built, err := a.wire(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	return built, nil
}

func (a *app) wire(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := a.logger

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(reg)
	a.metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})

	repos, err := a.openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if repos.followers, err = a.openGraph(ctx, cfg, repos.followers); err != nil {
		return nil, err
	}

	feedOpts := []feedapp.Option{
		feedapp.WithMetrics(a.metrics),
		feedapp.WithConcurrency(cfg.Feed.Concurrency),
		feedapp.WithTimeout(cfg.Feed.Timeout),
	}
	if cfg.Feed.Reader == config.ReaderSQL {
		pool, err := config.NewPgxPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		pg := postgres.NewStore(pool)
		repos.content = pg
		feedOpts = append(feedOpts, feedapp.WithQuerier(pg))
		logger.Info("feed reads use a single SQL query")
	}

	a.userSvc = userapp.NewUserService(repos.users, repos.posts, repos.followers, []byte(cfg.App.JWTSecret), logger).
		WithTokenTTL(cfg.App.TokenTTL)
	a.postSvc = postapp.NewPostService(repos.posts, repos.likes, repos.comments, repos.users, logger)
	a.followerSvc = followerapp.NewFollowerService(repos.followers, repos.users, logger)
	a.feedSvc = feedapp.NewFeedService(repos.followers, repos.content, logger, feedOpts...)
	return a, nil
}

func (a *app) openStores(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		s := memory.NewStore()
		a.logger.Warn("using the in-memory store; data is lost on restart")
		return &repositories{
			users:     memory.NewUserRepositoryMemory(s),
			posts:     memory.NewPostRepositoryMemory(s),
			followers: memory.NewFollowerRepositoryMemory(s),
			likes:     memory.NewLikeRepositoryMemory(s),
			comments:  memory.NewCommentRepositoryMemory(s),
			content:   memory.NewFeedStoreMemory(s),
		}, nil
	}

	db, err := config.OpenDB(ctx, cfg.Database, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { return config.CloseDB(db) })

	if cfg.Database.AutoMigrate {
		if cfg.Database.Driver == config.DriverPostgres {
			err = postgres.Migrate(cfg.Database.DSN)
		} else {
			err = migrateGorm(db)
		}
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.logger.Info("✅ Database migrations completed")
	}

	users := dbadapter.NewUserRepositoryDatabase(db)
	posts := dbadapter.NewPostRepositoryDatabase(db)
	followers := dbadapter.NewFollowerRepositoryDatabase(db)
	likes := dbadapter.NewLikeRepositoryDatabase(db)
	comments := dbadapter.NewCommentRepositoryDatabase(db)
	return &repositories{
		users:     users,
		posts:     posts,
		followers: followers,
		likes:     likes,
		comments:  comments,
		content:   dbadapter.NewFeedStoreDatabase(users, posts, followers, likes, comments),
	}, nil
}

// openGraph swaps the follow store for redis or neo4j when configured.
func (a *app) openGraph(ctx context.Context, cfg *config.Config, fallback followerPort.FollowerRepository) (followerPort.FollowerRepository, error) {
	switch cfg.Feed.GraphBackend {
	case config.GraphRedis:
		client, err := config.NewRedis(ctx, cfg.Redis, cfg.Database.ConnectRetry, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return redisadapter.NewFollowerRepositoryRedis(client, a.logger), nil
	case config.GraphNeo4j:
		driver, err := config.NewNeo4jDriver(ctx, cfg.Neo4j, cfg.Database.ConnectRetry, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return driver.Close(context.Background()) })
		repo := neo4jadapter.NewFollowerRepositoryNeo4j(driver, a.logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("neo4j schema: %w", err)
		}
		return repo, nil
	default:
		return fallback, nil
	}
}

func migrateGorm(db *gorm.DB) error {
	return dbadapter.AutoMigrate(db)
}

// close releases connections in reverse order of opening.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("Error closing resource", zap.Error(err))
		}
	}
	a.closers = nil
}
