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
)

// respondError maps a service error to its envelope response.
func respondError(c *gin.Context, err error) {
	lang := middleware.GetLang(c)

	if verrs, ok := validation.AsErrors(err); ok {
		response.ValidationError(c, lang, verrs)
		return
	}

	var notFound *services.NotFoundError
	switch {
	case errors.As(err, &notFound):
		response.Error(c, http.StatusNotFound, translator.Localize(lang, "notFound", map[string]interface{}{
			"Model": notFound.Model,
			"ID":    notFound.ID,
		}))
	case errors.Is(err, services.ErrForbidden):
		response.Error(c, http.StatusForbidden, translator.T(lang, "unauthorized"))
	case errors.Is(err, errPayloadTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, translator.T(lang, "payloadTooLarge"))
	default:
		serverError(c, err)
	}
}

func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	zap.L().Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	)
	response.Error(c, http.StatusInternalServerError, translator.T(middleware.GetLang(c), "serverError"))
}
