package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Categories []Category `json:"-" gorm:"foreignKey:UserID"`
	Tasks      []Task     `json:"-" gorm:"foreignKey:UserID"`
	Tokens     []Token    `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	return assignID(&u.ID)
}

func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}
	generated, err := uuid.NewV4()
	if err != nil {
		return err
	}
	*id = generated
	return nil
}
