package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	pc   PostUseCase
	errs errorWriter
}

func NewPostController(pc PostUseCase, errs errorWriter) *PostController {
	return &PostController{pc: pc, errs: errs}
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req struct {
		ImageURL string `json:"image_url" binding:"required"`
		Caption  string `json:"caption"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	res, err := ctl.pc.CreatePost(c.Request.Context(), userID, req.ImageURL, req.Caption)
	if err != nil {
		ctl.errs.write(c, err, "Failed to create post")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	res, err := ctl.pc.GetPost(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		ctl.errs.write(c, err, "Failed to fetch post")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) ListUserPosts(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	res, err := ctl.pc.ListUserPosts(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		ctl.errs.write(c, err, "Failed to fetch user posts")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) LikePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := ctl.pc.LikePost(c.Request.Context(), userID, c.Param("id")); err != nil {
		ctl.errs.write(c, err, "Failed to like post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post liked"})
}

func (ctl *PostController) UnlikePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := ctl.pc.UnlikePost(c.Request.Context(), userID, c.Param("id")); err != nil {
		ctl.errs.write(c, err, "Failed to unlike post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post unliked"})
}

func (ctl *PostController) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	res, err := ctl.pc.AddComment(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		ctl.errs.write(c, err, "Failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) ListComments(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	res, err := ctl.pc.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		ctl.errs.write(c, err, "Failed to fetch comments")
		return
	}
	c.JSON(http.StatusOK, res)
}
