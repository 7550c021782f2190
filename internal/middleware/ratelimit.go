package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/vanotis720/SampleTaskAPI/internal/ratelimit"
	"github.com/vanotis720/SampleTaskAPI/internal/response"
	"github.com/vanotis720/SampleTaskAPI/internal/translator"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// RateLimit throttles per authenticated user, or per client IP before
// authentication.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id := CurrentUserID(c); id != uuid.Nil {
			key = "user:" + id.String()
		}

		result, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.Error(err), zap.String("key", key))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Error(c, http.StatusTooManyRequests, translator.T(GetLang(c), "tooManyAttempts"))
			return
		}

		c.Next()
	}
}
