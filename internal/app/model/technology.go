package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Technology is a tag attached to projects (language, framework, tool).
type Technology struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Icon      *string   `gorm:"size:255" json:"icon"`
	Category  *string   `gorm:"size:128" json:"category"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (t *Technology) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
