package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vanotis720/SampleTaskAPI/internal/middleware"
	"github.com/vanotis720/SampleTaskAPI/internal/response"
	"github.com/vanotis720/SampleTaskAPI/internal/storage"
	"github.com/vanotis720/SampleTaskAPI/internal/translator"

	"github.com/gin-gonic/gin"
)

type StorageHandler struct {
	store storage.FileStore
}

func NewStorageHandler(store storage.FileStore) *StorageHandler {
	return &StorageHandler{store: store}
}

// ServeFile streams a stored upload at its public path.
func (h *StorageHandler) ServeFile(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")

	rc, info, err := h.store.Get(c.Request.Context(), name)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
		response.Error(c, http.StatusNotFound, translator.T(middleware.GetLang(c), "routeNotFound"))
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, nil)
}
