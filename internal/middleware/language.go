package middleware

import (
	"github.com/vanotis720/SampleTaskAPI/internal/translator"

	"github.com/gin-gonic/gin"
)

const langKey = "lang"

// LanguageMiddleware picks the response language from Accept-Language.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(langKey, translator.Match(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get(langKey); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.LanguageEn
}
