package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the storage format for calendar dates (install dates,
// scheduled dates, assessment dates). Dates carry no time-of-day component.
const DateLayout = "2006-01-02"

// Base model with UUID primary key and timestamps
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
