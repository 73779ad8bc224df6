package httpapi

import (
	"net/http"
	"strconv"

	feedEntity "snapfeed/internal/core/feed"

	"github.com/gin-gonic/gin"
)

type FeedController struct {
	fc           FeedUseCase
	errs         errorWriter
	defaultLimit int
	maxLimit     int
}

func NewFeedController(fc FeedUseCase, errs errorWriter, defaultLimit, maxLimit int) *FeedController {
	return &FeedController{fc: fc, errs: errs, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// GetFeed serves GET /api/posts/feed?limit=&cursor=. Limits above the
// configured maximum are clamped.
func (ctl *FeedController) GetFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := ctl.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(n, ctl.maxLimit)
	}

	cursor, err := feedEntity.ParseCursor(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
		return
	}

	res, err := ctl.fc.ComputeFeed(c.Request.Context(), userID, feedEntity.Page{Limit: limit, Cursor: cursor})
	if err != nil {
		ctl.errs.write(c, err, "Failed to fetch feed")
		return
	}
	c.JSON(http.StatusOK, res)
}
