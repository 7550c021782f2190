package repositories

import (
	"github.com/vanotis720/SampleTaskAPI/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListByUser(userID uuid.UUID) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) FindByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update writes only the given columns and reloads the row.
func (r *CategoryRepository) Update(category *models.Category, changes map[string]interface{}) error {
	if len(changes) > 0 {
		if err := r.db.Model(category).Updates(changes).Error; err != nil {
			return err
		}
	}
	return r.db.Where("id = ?", category.ID).First(category).Error
}

// Delete detaches the category from its tasks and removes it atomically.
func (r *CategoryRepository) Delete(category *models.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", category.ID).Delete(&models.Category{}).Error
	})
}
