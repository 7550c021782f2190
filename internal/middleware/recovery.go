package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/vanotis720/SampleTaskAPI/internal/response"
	"github.com/vanotis720/SampleTaskAPI/internal/translator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLog turns a panic into a 500 envelope and logs the stack.
func RecoveryWithLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.L().Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Error(c, http.StatusInternalServerError, translator.T(GetLang(c), "serverError"))
			}
		}()
		c.Next()
	}
}
