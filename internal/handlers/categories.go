package handlers

import (
	"net/http"

	"github.com/vanotis720/SampleTaskAPI/internal/middleware"
	"github.com/vanotis720/SampleTaskAPI/internal/response"
	"github.com/vanotis720/SampleTaskAPI/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	db              *gorm.DB
	categoryService services.CategoryService
	maxBodyBytes    int64
}

func NewCategoryHandler(db *gorm.DB, categoryService services.CategoryService, maxBodyBytes int64) *CategoryHandler {
	return &CategoryHandler{db: db, categoryService: categoryService, maxBodyBytes: maxBodyBytes}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, categories)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	input, err := readInput(c, h.maxBodyBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, response.T(middleware.GetLang(c), "categoryCreated"), category)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	input, err := readInput(c, h.maxBodyBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.T(middleware.GetLang(c), "categoryUpdated"), category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	err := h.categoryService.DeleteCategory(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.T(middleware.GetLang(c), "categoryDeleted"), nil)
}
