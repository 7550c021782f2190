package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

var (
	TaskStatuses   = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
	TaskPriorities = []string{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}
)

type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;size:36"`
	UserID      uuid.UUID  `json:"user_id" gorm:"size:36;not null;index"`
	CategoryID  *uuid.UUID `json:"category_id" gorm:"size:36;index"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description *string    `json:"description" gorm:"type:text"`
	DueDate     *Date      `json:"due_date"`
	Status      *string    `json:"status" gorm:"size:20"`
	Priority    *string    `json:"priority" gorm:"size:20"`
	ImagePath   *string    `json:"image_path" gorm:"size:255"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// ImageURL is derived from ImagePath when the task is rendered.
	ImageURL *string   `json:"image_url" gorm:"-"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	return assignID(&t.ID)
}

func (t *Task) OwnerID() uuid.UUID {
	return t.UserID
}
