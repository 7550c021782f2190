package services

import (
	"context"
	"fmt"
	"path"

	"github.com/vanotis720/SampleTaskAPI/internal/models"
	"github.com/vanotis720/SampleTaskAPI/internal/repositories"
	"github.com/vanotis720/SampleTaskAPI/internal/storage"
	"github.com/vanotis720/SampleTaskAPI/internal/validation"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	taskModel = "Task"

	TasksPerPage   = 10
	TaskImageDir   = "task-images"
	MaxImageSizeKB = 2048
)

// TaskQuery carries the listing parameters taken from the query string. A
// nil filter was not supplied.
type TaskQuery struct {
	Status     *string
	Priority   *string
	CategoryID *string
	Search     *string
	Page       int
}

type TaskPage struct {
	Tasks   []models.Task
	Total   int64
	Page    int
	PerPage int
}

type TaskService interface {
	ListTasks(db *gorm.DB, userID uuid.UUID, query TaskQuery) (*TaskPage, error)
	CreateTask(db *gorm.DB, userID uuid.UUID, input validation.Input) (*models.Task, error)
	GetTask(db *gorm.DB, userID uuid.UUID, id string) (*models.Task, error)
	UpdateTask(db *gorm.DB, userID uuid.UUID, id string, input validation.Input) (*models.Task, error)
	DeleteTask(db *gorm.DB, userID uuid.UUID, id string) error
	UploadImage(ctx context.Context, db *gorm.DB, userID uuid.UUID, id string, input validation.Input) (*models.Task, error)
}

type TaskServiceImpl struct {
	store storage.FileStore
}

func NewTaskService(store storage.FileStore) *TaskServiceImpl {
	return &TaskServiceImpl{store: store}
}

func taskRules(db *gorm.DB, creating bool) validation.Schema {
	title := []validation.Rule{validation.Sometimes(), validation.String(), validation.Max(255)}
	if creating {
		title[0] = validation.Required()
	}

	return validation.Fields(
		validation.Attr("title", title...),
		validation.Attr("description", validation.Nullable(), validation.String()),
		validation.Attr("due_date", validation.Nullable(), validation.Date()),
		validation.Attr("status", validation.Nullable(), validation.String(), validation.In(models.TaskStatuses...)),
		validation.Attr("priority", validation.Nullable(), validation.String(), validation.In(models.TaskPriorities...)),
		validation.Attr("category_id", validation.Nullable(), validation.ExistsID(db, "categories")),
	)
}

var imageRules = validation.Fields(
	validation.Attr("image", validation.Required(), validation.Image(), validation.Max(MaxImageSizeKB)),
)

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, userID uuid.UUID, query TaskQuery) (*TaskPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	filter := repositories.TaskFilter{
		UserID:     userID,
		Status:     query.Status,
		Priority:   query.Priority,
		CategoryID: query.CategoryID,
		Search:     query.Search,
	}

	tasks, total, err := repositories.NewTaskRepository(db).Paginate(filter, page, TasksPerPage)
	if err != nil {
		return nil, err
	}

	return &TaskPage{Tasks: tasks, Total: total, Page: page, PerPage: TasksPerPage}, nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, userID uuid.UUID, input validation.Input) (*models.Task, error) {
	if err := taskRules(db, true).Validate(input); err != nil {
		return nil, err
	}

	task := models.Task{
		UserID:      userID,
		Title:       input.String("title"),
		Description: input.OptionalString("description"),
		Status:      input.OptionalString("status"),
		Priority:    input.OptionalString("priority"),
	}
	if task.Status == nil {
		status := models.TaskStatusPending
		task.Status = &status
	}

	changes, err := taskChanges(input, "due_date", "category_id")
	if err != nil {
		return nil, err
	}
	if due, ok := changes["due_date"].(models.Date); ok {
		task.DueDate = &due
	}
	if categoryID, ok := changes["category_id"].(uuid.UUID); ok {
		task.CategoryID = &categoryID
	}

	if err := repositories.NewTaskRepository(db).Create(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) GetTask(db *gorm.DB, userID uuid.UUID, id string) (*models.Task, error) {
	task, err := s.loadOwned(db, userID, id, "view")
	if err != nil {
		return nil, err
	}
	if err := repositories.NewTaskRepository(db).LoadCategory(task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask changes only the attributes present in input. A present null
// clears the column.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, userID uuid.UUID, id string, input validation.Input) (*models.Task, error) {
	task, err := s.loadOwned(db, userID, id, "update")
	if err != nil {
		return nil, err
	}
	if err := taskRules(db, false).Validate(input); err != nil {
		return nil, err
	}

	changes, err := taskChanges(input, "title", "description", "due_date", "status", "priority", "category_id")
	if err != nil {
		return nil, err
	}
	if err := repositories.NewTaskRepository(db).Update(task, changes); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, userID uuid.UUID, id string) error {
	task, err := s.loadOwned(db, userID, id, "delete")
	if err != nil {
		return err
	}
	return repositories.NewTaskRepository(db).Delete(task)
}

// UploadImage replaces the task's image. The previous file is removed before
// the new path is saved, so a failure in between can leave an orphan.
func (s *TaskServiceImpl) UploadImage(ctx context.Context, db *gorm.DB, userID uuid.UUID, id string, input validation.Input) (*models.Task, error) {
	task, err := s.loadOwned(db, userID, id, "upload")
	if err != nil {
		return nil, err
	}
	if err := imageRules.Validate(input); err != nil {
		return nil, err
	}

	file := input.File("image")
	mime, err := validation.DetectMIME(file)
	if err != nil {
		return nil, err
	}

	if task.ImagePath != nil {
		exists, err := s.store.Exists(ctx, *task.ImagePath)
		if err != nil {
			return nil, err
		}
		if exists {
			if err := s.store.Delete(ctx, *task.ImagePath); err != nil {
				return nil, err
			}
		}
	}

	name, err := newImageName(mime.Extension())
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	if err := s.store.Put(ctx, name, src, mime.String()); err != nil {
		return nil, err
	}

	if err := repositories.NewTaskRepository(db).Update(task, map[string]interface{}{"image_path": name}); err != nil {
		return nil, err
	}

	zap.L().Info("task image stored",
		zap.String("task_id", task.ID.String()),
		zap.String("path", name),
		zap.Int64("size", file.Size),
	)
	return task, nil
}

func (s *TaskServiceImpl) loadOwned(db *gorm.DB, userID uuid.UUID, id, action string) (*models.Task, error) {
	taskID, err := uuid.FromString(id)
	if err != nil {
		return nil, &NotFoundError{Model: taskModel, ID: id}
	}

	task, err := repositories.NewTaskRepository(db).FindByID(taskID)
	if err != nil {
		return nil, notFoundOr(err, taskModel, id)
	}
	if err := Authorize(userID, action, task); err != nil {
		return nil, err
	}
	return task, nil
}

// taskChanges converts the present keys of a validated input to column
// values.
func taskChanges(input validation.Input, keys ...string) (map[string]interface{}, error) {
	changes := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		value, ok := input[key]
		if !ok {
			continue
		}
		if value == nil {
			changes[key] = nil
			continue
		}

		switch key {
		case "due_date":
			parsed, err := validation.ParseDate(value.(string))
			if err != nil {
				return nil, err
			}
			changes[key] = models.NewDate(parsed)
		case "category_id":
			id, err := uuid.FromString(value.(string))
			if err != nil {
				return nil, err
			}
			changes[key] = id
		default:
			changes[key] = value
		}
	}
	return changes, nil
}

func newImageName(ext string) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return path.Join(TaskImageDir, id.String()+ext), nil
}
