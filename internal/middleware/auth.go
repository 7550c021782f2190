package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vanotis720/SampleTaskAPI/internal/models"
	"github.com/vanotis720/SampleTaskAPI/internal/response"
	"github.com/vanotis720/SampleTaskAPI/internal/services"
	"github.com/vanotis720/SampleTaskAPI/internal/translator"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// TokenAuth resolves the bearer token and stores the user and token on the
// context. Requests without a valid token stop with 401.
func TokenAuth(db *gorm.DB, authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := GetLang(c)

		bearer, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.PlainError(c, http.StatusUnauthorized, translator.T(lang, "unauthenticated"))
			return
		}

		user, token, err := authService.ResolveToken(db.WithContext(c.Request.Context()), bearer)
		if errors.Is(err, services.ErrUnauthenticated) {
			response.PlainError(c, http.StatusUnauthorized, translator.T(lang, "unauthenticated"))
			return
		}
		if err != nil {
			zap.L().Error("failed to resolve token", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, translator.T(lang, "serverError"))
			return
		}

		c.Set(userKey, user)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func CurrentUser(c *gin.Context) *models.User {
	if user, ok := c.Get(userKey); ok {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}

func CurrentUserID(c *gin.Context) uuid.UUID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}

func CurrentToken(c *gin.Context) *models.Token {
	if token, ok := c.Get(tokenKey); ok {
		if t, ok := token.(*models.Token); ok {
			return t
		}
	}
	return nil
}
