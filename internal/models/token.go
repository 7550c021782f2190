package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Token is a personal access token row. The bearer string handed to clients
// is a signed envelope around ID; deleting the row revokes it.
type Token struct {
	ID         uuid.UUID  `json:"id" gorm:"primaryKey;size:36"`
	UserID     uuid.UUID  `json:"user_id" gorm:"size:36;not null;index"`
	Name       string     `json:"name" gorm:"size:255;not null"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Token) TableName() string {
	return "personal_access_tokens"
}

func (t *Token) BeforeCreate(tx *gorm.DB) error {
	return assignID(&t.ID)
}
