package handlers

import (
	"net/http"

	"github.com/vanotis720/SampleTaskAPI/internal/models"
	"github.com/vanotis720/SampleTaskAPI/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const tokenType = "Bearer"

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

type RegisterHandler struct {
	db              *gorm.DB
	registerService services.RegisterService
	authService     services.AuthService
	maxBodyBytes    int64
}

func NewRegisterHandler(db *gorm.DB, registerService services.RegisterService, authService services.AuthService, maxBodyBytes int64) *RegisterHandler {
	return &RegisterHandler{
		db:              db,
		registerService: registerService,
		authService:     authService,
		maxBodyBytes:    maxBodyBytes,
	}
}

func (h *RegisterHandler) Registration(c *gin.Context) {
	input, err := readInput(c, h.maxBodyBytes)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	user, err := h.registerService.RegisterUser(db, input)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.authService.GenerateToken(db, user.ID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{User: user, AccessToken: token, TokenType: tokenType})
}
