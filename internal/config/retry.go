package config

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// retry runs op with exponential backoff until it succeeds, ctx ends or
// maxElapsed passes.
func retry(ctx context.Context, logger *zap.Logger, target string, maxElapsed time.Duration, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxElapsed

	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		logger.Warn("connection not ready, retrying",
			zap.String("target", target),
			zap.Duration("next", next),
			zap.Error(err),
		)
	})
}
