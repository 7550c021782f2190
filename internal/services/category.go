package services

import (
	"github.com/vanotis720/SampleTaskAPI/internal/models"
	"github.com/vanotis720/SampleTaskAPI/internal/repositories"
	"github.com/vanotis720/SampleTaskAPI/internal/validation"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const categoryModel = "Category"

var (
	createCategoryRules = validation.Fields(
		validation.Attr("name", validation.Required(), validation.String(), validation.Max(255)),
		validation.Attr("color", validation.Nullable(), validation.String(), validation.Max(7)),
	)
	updateCategoryRules = validation.Fields(
		validation.Attr("name", validation.Sometimes(), validation.String(), validation.Max(255)),
		validation.Attr("color", validation.Nullable(), validation.String(), validation.Max(7)),
	)
)

type CategoryService interface {
	ListCategories(db *gorm.DB, userID uuid.UUID) ([]models.Category, error)
	CreateCategory(db *gorm.DB, userID uuid.UUID, input validation.Input) (*models.Category, error)
	GetCategory(db *gorm.DB, userID uuid.UUID, id string) (*models.Category, error)
	UpdateCategory(db *gorm.DB, userID uuid.UUID, id string, input validation.Input) (*models.Category, error)
	DeleteCategory(db *gorm.DB, userID uuid.UUID, id string) error
}

type CategoryServiceImpl struct{}

func NewCategoryService() *CategoryServiceImpl {
	return &CategoryServiceImpl{}
}

func (s *CategoryServiceImpl) ListCategories(db *gorm.DB, userID uuid.UUID) ([]models.Category, error) {
	return repositories.NewCategoryRepository(db).ListByUser(userID)
}

func (s *CategoryServiceImpl) CreateCategory(db *gorm.DB, userID uuid.UUID, input validation.Input) (*models.Category, error) {
	if err := createCategoryRules.Validate(input); err != nil {
		return nil, err
	}

	category := models.Category{
		UserID: userID,
		Name:   input.String("name"),
		Color:  input.OptionalString("color"),
	}
	if err := repositories.NewCategoryRepository(db).Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryServiceImpl) GetCategory(db *gorm.DB, userID uuid.UUID, id string) (*models.Category, error) {
	return s.loadOwned(db, userID, id, "view")
}

func (s *CategoryServiceImpl) UpdateCategory(db *gorm.DB, userID uuid.UUID, id string, input validation.Input) (*models.Category, error) {
	category, err := s.loadOwned(db, userID, id, "update")
	if err != nil {
		return nil, err
	}
	if err := updateCategoryRules.Validate(input); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	for _, key := range []string{"name", "color"} {
		if input.Has(key) {
			changes[key] = input[key]
		}
	}
	if err := repositories.NewCategoryRepository(db).Update(category, changes); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category and leaves its tasks uncategorized.
func (s *CategoryServiceImpl) DeleteCategory(db *gorm.DB, userID uuid.UUID, id string) error {
	category, err := s.loadOwned(db, userID, id, "delete")
	if err != nil {
		return err
	}
	return repositories.NewCategoryRepository(db).Delete(category)
}

func (s *CategoryServiceImpl) loadOwned(db *gorm.DB, userID uuid.UUID, id, action string) (*models.Category, error) {
	categoryID, err := uuid.FromString(id)
	if err != nil {
		return nil, &NotFoundError{Model: categoryModel, ID: id}
	}

	category, err := repositories.NewCategoryRepository(db).FindByID(categoryID)
	if err != nil {
		return nil, notFoundOr(err, categoryModel, id)
	}
	if err := Authorize(userID, action, category); err != nil {
		return nil, err
	}
	return category, nil
}
