package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type FollowerController struct {
	fc   FollowerUseCase
	errs errorWriter
}

func NewFollowerController(fc FollowerUseCase, errs errorWriter) *FollowerController {
	return &FollowerController{fc: fc, errs: errs}
}

func (ctl *FollowerController) FollowUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	followeeID := c.Param("id")
	if _, err := uuid.FromString(followeeID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := ctl.fc.FollowUser(c.Request.Context(), userID, followeeID); err != nil {
		ctl.errs.write(c, err, "Failed to follow user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User followed"})
}

func (ctl *FollowerController) UnfollowUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	followeeID := c.Param("id")
	if _, err := uuid.FromString(followeeID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := ctl.fc.UnfollowUser(c.Request.Context(), userID, followeeID); err != nil {
		ctl.errs.write(c, err, "Failed to unfollow user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed"})
}

func (ctl *FollowerController) GetFollowersByUserID(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	followers, err := ctl.fc.GetFollowersByUserID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ctl.errs.write(c, err, "could not get followers")
		return
	}
	c.JSON(http.StatusOK, followers)
}

func (ctl *FollowerController) GetFollowingByUserID(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	following, err := ctl.fc.GetFollowingByUserID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ctl.errs.write(c, err, "could not get following")
		return
	}
	c.JSON(http.StatusOK, following)
}
