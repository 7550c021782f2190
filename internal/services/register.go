package services

import (
	"errors"

	"github.com/vanotis720/SampleTaskAPI/internal/models"
	"github.com/vanotis720/SampleTaskAPI/internal/repositories"
	"github.com/vanotis720/SampleTaskAPI/internal/validation"

	"gorm.io/gorm"
)

type RegisterService interface {
	RegisterUser(db *gorm.DB, input validation.Input) (*models.User, error)
}

type RegisterServiceImpl struct {
	bcryptCost int
}

func NewRegisterService(bcryptCost int) *RegisterServiceImpl {
	return &RegisterServiceImpl{bcryptCost: bcryptCost}
}

func registrationRules(db *gorm.DB) validation.Schema {
	return validation.Fields(
		validation.Attr("name", validation.Required(), validation.String(), validation.Max(255)),
		validation.Attr("email", validation.Required(), validation.String(), validation.Email(), validation.Max(255),
			validation.Unique(db, "users", "email")),
		validation.Attr("password", validation.Required(), validation.String(), validation.Min(8), validation.Confirmed()),
	)
}

func (s *RegisterServiceImpl) RegisterUser(db *gorm.DB, input validation.Input) (*models.User, error) {
	if err := registrationRules(db).Validate(input); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(input.String("password"), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     input.String("name"),
		Email:    input.String("email"),
		Password: hashedPassword,
	}

	if err := repositories.NewUserRepository(db).Create(&user); err != nil {
		// A concurrent registration can pass the unique rule and still lose
		// the race on the index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			errs := validation.NewErrors()
			errs.Add("email", "validationUnique", nil)
			return nil, errs
		}
		return nil, err
	}

	return &user, nil
}
