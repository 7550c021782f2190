package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;size:36"`
	UserID    uuid.UUID `json:"user_id" gorm:"size:36;not null;index"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Color     *string   `json:"color" gorm:"size:7"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	return assignID(&c.ID)
}

func (c *Category) OwnerID() uuid.UUID {
	return c.UserID
}
