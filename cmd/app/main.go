package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"snapfeed/internal/adapters/httpapi"
	"snapfeed/internal/adapters/postgres"
	"snapfeed/internal/config"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := rootApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootApp() *cli.App {
	return &cli.App{
		Name:  "snapfeed",
		Usage: "Photo sharing backend with a computed home feed",
		Description: `Settings come from an optional YAML file, a .env file and the
		environment, e.g. DB_DRIVER=postgres DB_DSN=postgres://... JWT_SECRET=...`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a YAML config file",
				EnvVars: []string{"SNAPFEED_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			seedCmd(),
		},
		Action: func(ctx *cli.Context) error {
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

// setup loads the configuration and builds the logger shared by all commands.
func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			r := httpapi.SetupRoutes(a.userSvc, a.postSvc, a.followerSvc, a.feedSvc, httpapi.Options{
				JWTSecret:      []byte(cfg.App.JWTSecret),
				Logger:         logger,
				Metrics:        a.metrics,
				MetricsHandler: a.metricsHandler,
				DefaultLimit:   cfg.Feed.DefaultLimit,
				MaxLimit:       cfg.Feed.MaxLimit,
			})
			srv := &http.Server{Addr: cfg.Addr(), Handler: r}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("App is running...", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Gracefully shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run database migrations",
		Description: `Applies the embedded SQL migrations (postgres) or gorm auto-migration (mysql).`,
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			switch cfg.Database.Driver {
			case config.DriverPostgres:
				if err := postgres.Migrate(cfg.Database.DSN); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			case config.DriverMySQL:
				db, err := config.OpenDB(c.Context, cfg.Database, logger)
				if err != nil {
					return err
				}
				defer config.CloseDB(db) //nolint:errcheck
				if err := migrateGorm(db); err != nil {
					return err
				}
			default:
				return fmt.Errorf("driver %q has no schema to migrate", cfg.Database.Driver)
			}
			logger.Info("✅ Database migrations completed", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create test users, follows, posts and likes through the use cases",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "users", Value: 50, Usage: "number of users"},
			&cli.IntFlag{Name: "posts", Value: 10, Usage: "posts per user"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			a, err := buildApp(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			return seed(c.Context, logger, a, c.Int("users"), c.Int("posts"))
		},
	}
}
