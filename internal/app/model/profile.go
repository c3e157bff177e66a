package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the site owner's public data. Exactly one row exists; the
// service layer enforces the singleton on write.
type Profile struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName     string    `gorm:"size:128;not null" json:"firstName"`
	LastName      string    `gorm:"size:128;not null" json:"lastName"`
	Email         string    `gorm:"size:255;not null" json:"email"`
	Phone         *string   `gorm:"size:64" json:"phone"`
	LinkedIn      *string   `gorm:"size:255" json:"linkedIn"`
	GitHub        *string   `gorm:"size:255" json:"github"`
	DescriptionFr *string   `gorm:"type:text" json:"descriptionFr"`
	DescriptionEn *string   `gorm:"type:text" json:"descriptionEn"`
	PhotoID       *string   `gorm:"type:uuid" json:"photoId"`
	Photo         *Photo    `gorm:"foreignKey:PhotoID" json:"photo,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
