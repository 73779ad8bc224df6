package config

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewPgxPool opens the pgx pool used by the SQL feed reader.
func NewPgxPool(ctx context.Context, cfg DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MaxConnLifetime = cfg.ConnLifetime
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := retry(ctx, logger, "pgx", cfg.ConnectRetry, func() error { return pool.Ping(ctx) }); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("✅ pgx pool ready", zap.Int32("maxConns", poolCfg.MaxConns))
	return pool, nil
}
