package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vanotis720/SampleTaskAPI/internal/middleware"
	"github.com/vanotis720/SampleTaskAPI/internal/models"
	"github.com/vanotis720/SampleTaskAPI/internal/response"
	"github.com/vanotis720/SampleTaskAPI/internal/services"
	"github.com/vanotis720/SampleTaskAPI/internal/storage"
	"github.com/vanotis720/SampleTaskAPI/internal/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db           *gorm.DB
	taskService  services.TaskService
	appURL       string
	publicURL    string
	maxBodyBytes int64
}

type TaskHandlerConfig struct {
	AppURL       string
	PublicURL    string
	MaxBodyBytes int64
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, cfg TaskHandlerConfig) *TaskHandler {
	return &TaskHandler{
		db:           db,
		taskService:  taskService,
		appURL:       strings.TrimRight(cfg.AppURL, "/"),
		publicURL:    cfg.PublicURL,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	query := services.TaskQuery{
		Status:     queryParam(c, "status"),
		Priority:   queryParam(c, "priority"),
		CategoryID: queryParam(c, "category_id"),
		Search:     queryParam(c, "search"),
		Page:       1,
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		query.Page = page
	}

	page, err := h.taskService.ListTasks(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	for i := range page.Tasks {
		h.present(&page.Tasks[i])
	}
	response.Success(c, http.StatusOK, nil, NewPaginator(page.Tasks, len(page.Tasks), page.Total, page.Page, page.PerPage, h.listPath(c)))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	input, err := readInput(c, h.maxBodyBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, response.T(middleware.GetLang(c), "taskCreated"), h.present(task))
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.taskService.GetTask(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, h.present(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	input, err := readInput(c, h.maxBodyBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.T(middleware.GetLang(c), "taskUpdated"), h.present(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	err := h.taskService.DeleteTask(h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.T(middleware.GetLang(c), "taskDeleted"), nil)
}

// UploadImage reports a failed upload rule as a plain error envelope
// carrying only the first message.
func (h *TaskHandler) UploadImage(c *gin.Context) {
	lang := middleware.GetLang(c)

	input, err := readInput(c, h.maxBodyBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.taskService.UploadImage(c.Request.Context(), h.db.WithContext(c.Request.Context()), middleware.CurrentUserID(c), c.Param("id"), input)
	if verrs, ok := validation.AsErrors(err); ok {
		response.Error(c, http.StatusUnprocessableEntity, verrs.First(lang))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, response.T(lang, "imageUploaded"), gin.H{
		"image_path": task.ImagePath,
		"image_url":  storage.PublicURL(h.publicURL, task.ImagePath),
	})
}

func (h *TaskHandler) present(task *models.Task) *models.Task {
	task.ImageURL = storage.PublicURL(h.publicURL, task.ImagePath)
	return task
}

func (h *TaskHandler) listPath(c *gin.Context) string {
	base := h.appURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + c.Request.URL.Path
}

// queryParam returns nil when the parameter is absent from the query string.
func queryParam(c *gin.Context, key string) *string {
	value, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	value = strings.TrimSpace(value)
	return &value
}
