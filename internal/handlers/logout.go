package handlers

import (
	"net/http"

	"github.com/vanotis720/SampleTaskAPI/internal/middleware"
	"github.com/vanotis720/SampleTaskAPI/internal/response"
	"github.com/vanotis720/SampleTaskAPI/internal/services"
	"github.com/vanotis720/SampleTaskAPI/internal/translator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LogoutHandler struct {
	db          *gorm.DB
	authService services.AuthService
}

func NewLogoutHandler(db *gorm.DB, authService services.AuthService) *LogoutHandler {
	return &LogoutHandler{db: db, authService: authService}
}

// Logout revokes only the token used for this request.
func (h *LogoutHandler) Logout(c *gin.Context) {
	lang := middleware.GetLang(c)

	token := middleware.CurrentToken(c)
	if token == nil {
		response.PlainError(c, http.StatusUnauthorized, translator.T(lang, "unauthenticated"))
		return
	}

	if err := h.authService.RevokeToken(h.db.WithContext(c.Request.Context()), token.ID); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message{Message: translator.T(lang, "loggedOut")})
}
