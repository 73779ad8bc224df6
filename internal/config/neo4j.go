package config

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// NewNeo4jDriver creates the driver and verifies connectivity.
func NewNeo4jDriver(ctx context.Context, cfg Neo4jConfig, retryFor time.Duration, logger *zap.Logger) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, err
	}
	if err := retry(ctx, logger, "neo4j", retryFor, func() error { return driver.VerifyConnectivity(ctx) }); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}
	logger.Info("✅ Connected to Neo4j", zap.String("uri", cfg.URI))
	return driver, nil
}
