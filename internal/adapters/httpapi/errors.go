package httpapi

import (
	"errors"
	"net/http"

	feedEntity "snapfeed/internal/core/feed"
	followerapp "snapfeed/internal/core/follower/service"
	postapp "snapfeed/internal/core/post/service"
	userapp "snapfeed/internal/core/user/service"
	postPort "snapfeed/internal/ports/post"
	userPort "snapfeed/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorWriter struct {
	logger *zap.Logger
}

// write maps a use-case error to a status code and a client message.
// Unexpected errors are logged and hidden behind fallback.
func (w errorWriter) write(c *gin.Context, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		w.logger.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, feedEntity.ErrNotFound),
		errors.Is(err, userPort.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, postPort.ErrPostNotFound):
		return http.StatusNotFound, "Post not found"
	case errors.Is(err, followerapp.ErrSelfFollow),
		errors.Is(err, postapp.ErrImageRequired),
		errors.Is(err, postapp.ErrContentRequired),
		errors.Is(err, userapp.ErrInvalidInput),
		errors.Is(err, feedEntity.ErrInvalidCursor):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, userPort.ErrUserExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, userapp.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, feedEntity.ErrCancelled):
		return http.StatusServiceUnavailable, "request cancelled"
	case errors.Is(err, feedEntity.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "feed temporarily unavailable"
	default:
		return http.StatusInternalServerError, fallback
	}
}
