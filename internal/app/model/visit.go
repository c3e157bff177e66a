package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visit is one recorded page load, deduplicated per visitor within a
// 30-minute window by the ingestion service. Rows are append-only.
type Visit struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	VisitorID string    `gorm:"type:uuid;not null;index" json:"visitorId"`
	IP        *string   `gorm:"size:64" json:"ip"`
	Country   *string   `gorm:"size:128" json:"country"`
	City      *string   `gorm:"size:128" json:"city"`
	UserAgent *string   `gorm:"type:text" json:"userAgent"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
