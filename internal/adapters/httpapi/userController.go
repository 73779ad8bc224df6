package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	uc   UserUseCase
	errs errorWriter
}

func NewUserController(uc UserUseCase, errs errorWriter) *UserController {
	return &UserController{uc: uc, errs: errs}
}

// LoginUser accepts either a username or an email in the login field.
func (ctl *UserController) LoginUser(c *gin.Context) {
	var req struct {
		Login    string `json:"login"`
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	login := firstNonEmpty(req.Login, req.Email, req.Username)
	if login == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), login, req.Password)
	if err != nil {
		ctl.errs.write(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	u, err := ctl.uc.RegisterUser(c.Request.Context(), req.Username, req.Email, req.FullName, req.Password)
	if err != nil {
		ctl.errs.write(c, err, "could not register user")
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (ctl *UserController) GetOwnProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctl.profile(c, userID, userID)
}

func (ctl *UserController) GetProfile(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctl.profile(c, viewerID, c.Param("id"))
}

func (ctl *UserController) profile(c *gin.Context, viewerID, userID string) {
	p, err := ctl.uc.GetProfile(c.Request.Context(), viewerID, userID)
	if err != nil {
		ctl.errs.write(c, err, "Failed to fetch user profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
