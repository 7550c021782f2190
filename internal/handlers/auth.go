package handlers

import (
	"errors"
	"net/http"

	"github.com/vanotis720/SampleTaskAPI/internal/middleware"
	"github.com/vanotis720/SampleTaskAPI/internal/response"
	"github.com/vanotis720/SampleTaskAPI/internal/services"
	"github.com/vanotis720/SampleTaskAPI/internal/translator"
	"github.com/vanotis720/SampleTaskAPI/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db           *gorm.DB
	authService  services.AuthService
	maxBodyBytes int64
}

func NewAuthHandler(db *gorm.DB, authService services.AuthService, maxBodyBytes int64) *AuthHandler {
	return &AuthHandler{db: db, authService: authService, maxBodyBytes: maxBodyBytes}
}

func (h *AuthHandler) Login(c *gin.Context) {
	input, err := readInput(c, h.maxBodyBytes)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	user, err := h.authService.LoginUser(db, input)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.authService.GenerateToken(db, user.ID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: user, AccessToken: token, TokenType: tokenType})
}

// respondAuthError renders the flat {"message"} bodies used by the
// authentication endpoints.
func respondAuthError(c *gin.Context, err error) {
	lang := middleware.GetLang(c)

	if verrs, ok := validation.AsErrors(err); ok {
		response.PlainValidationError(c, lang, verrs)
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		response.PlainError(c, http.StatusUnprocessableEntity, translator.T(lang, "invalidCredentials"))
	case errors.Is(err, errPayloadTooLarge):
		response.PlainError(c, http.StatusRequestEntityTooLarge, translator.T(lang, "payloadTooLarge"))
	default:
		_ = c.Error(err)
		zap.L().Error("authentication request failed", zap.Error(err), zap.String("path", c.FullPath()))
		response.PlainError(c, http.StatusInternalServerError, translator.T(lang, "serverError"))
	}
}
