package repositories

import (
	"time"

	"github.com/vanotis720/SampleTaskAPI/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(token *models.Token) error {
	return r.db.Create(token).Error
}

func (r *TokenRepository) FindByID(id uuid.UUID) (*models.Token, error) {
	var token models.Token
	if err := r.db.Where("id = ?", id).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepository) Touch(id uuid.UUID, at time.Time) error {
	return r.db.Model(&models.Token{}).Where("id = ?", id).UpdateColumn("last_used_at", at).Error
}

// Delete removes a single token. Deleting a missing token is not an error.
func (r *TokenRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Token{}).Error
}
