package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity represents a single journaled activity owned by a user.
type Activity struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	// Duration is the length of the activity in minutes.
	Duration  int       `json:"duration" gorm:"not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
