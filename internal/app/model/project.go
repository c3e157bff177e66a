package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a portfolio entry with bilingual copy and an optional set of
// technologies.
type Project struct {
	ID            string       `gorm:"type:uuid;primaryKey" json:"id"`
	TitleFr       string       `gorm:"size:255;not null" json:"titleFr"`
	TitleEn       string       `gorm:"size:255;not null" json:"titleEn"`
	DescriptionFr string       `gorm:"type:text;not null" json:"descriptionFr"`
	DescriptionEn string       `gorm:"type:text;not null" json:"descriptionEn"`
	URL           *string      `gorm:"size:1024" json:"url"`
	GitHubURL     *string      `gorm:"size:1024" json:"githubUrl"`
	ImageURLs     []string     `gorm:"serializer:json" json:"imageUrls"`
	Published     bool         `gorm:"not null;default:false" json:"published"`
	Technologies  []Technology `gorm:"many2many:project_technologies" json:"technologies"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
