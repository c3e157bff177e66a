package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo references an uploaded image in object storage.
type Photo struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ObjectKey   string    `gorm:"size:512;not null" json:"-"`
	URL         string    `gorm:"size:1024;not null" json:"url"`
	ContentType string    `gorm:"size:128;not null" json:"contentType"`
	Size        int64     `gorm:"not null" json:"size"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
