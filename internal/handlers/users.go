package handlers

import (
	"net/http"

	"github.com/vanotis720/SampleTaskAPI/internal/middleware"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
