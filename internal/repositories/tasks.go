package repositories

import (
	"strings"

	"github.com/vanotis720/SampleTaskAPI/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const likeEscape = "!"

// TaskFilter narrows a task listing to one owner. Nil fields are not
// applied; set fields are combined with AND. An empty Status, Priority or
// CategoryID matches rows where that column is null.
type TaskFilter struct {
	UserID     uuid.UUID
	Status     *string
	Priority   *string
	CategoryID *string
	Search     *string
}

func (f TaskFilter) Apply(q *gorm.DB) *gorm.DB {
	q = q.Where("user_id = ?", f.UserID)
	q = whereEqual(q, "status", f.Status)
	q = whereEqual(q, "priority", f.Priority)
	if f.CategoryID != nil && *f.CategoryID != "" {
		id, err := uuid.FromString(*f.CategoryID)
		if err != nil {
			return q.Where("1 = 0")
		}
		q = q.Where("category_id = ?", id)
	} else {
		q = whereEqual(q, "category_id", f.CategoryID)
	}
	if f.Search != nil {
		q = q.Where("title LIKE ? ESCAPE '"+likeEscape+"'", "%"+escapeLike(*f.Search)+"%")
	}
	return q
}

func whereEqual(q *gorm.DB, column string, value *string) *gorm.DB {
	switch {
	case value == nil:
		return q
	case *value == "":
		return q.Where(column + " IS NULL")
	default:
		return q.Where(column+" = ?", *value)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	).Replace(s)
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Paginate returns one page of matching tasks with their categories and
// the total number of matches. Pages start at 1.
func (r *TaskRepository) Paginate(filter TaskFilter, page, perPage int) ([]models.Task, int64, error) {
	var total int64
	if err := filter.Apply(r.db.Model(&models.Task{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if total == 0 {
		return tasks, 0, nil
	}
	// Pages past the end are empty. Checking before computing the offset
	// keeps (page-1)*perPage from overflowing on absurd page numbers.
	lastPage := (total + int64(perPage) - 1) / int64(perPage)
	if int64(page) > lastPage {
		return tasks, total, nil
	}

	err := filter.Apply(r.db.Model(&models.Task{})).
		Preload("Category").
		Order("created_at ASC").
		Order("id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepository) FindByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) LoadCategory(task *models.Task) error {
	task.Category = nil
	if task.CategoryID == nil {
		return nil
	}
	var category models.Category
	err := r.db.Where("id = ?", *task.CategoryID).First(&category).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	task.Category = &category
	return nil
}

func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Omit("Category").Create(task).Error
}

// Update writes only the given columns and reloads the row.
func (r *TaskRepository) Update(task *models.Task, changes map[string]interface{}) error {
	if len(changes) > 0 {
		if err := r.db.Model(task).Omit("Category").Updates(changes).Error; err != nil {
			return err
		}
	}
	return r.db.Where("id = ?", task.ID).First(task).Error
}

func (r *TaskRepository) Delete(task *models.Task) error {
	return r.db.Where("id = ?", task.ID).Delete(&models.Task{}).Error
}
