package repository

import (
	"context"
	"errors"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrProjectNotFound signals that the requested project does not exist.
	ErrProjectNotFound = errors.New("project not found")
)

// ProjectRepository defines the data access contract for portfolio projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, published *bool) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	ReplaceTechnologies(ctx context.Context, project *model.Project, technologies []model.Technology) error
	Delete(ctx context.Context, id string) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository returns a GORM-backed ProjectRepository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Technologies").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, published *bool) ([]model.Project, error) {
	q := r.db.WithContext(ctx).Preload("Technologies").Order("created_at DESC")
	if published != nil {
		q = q.Where("published = ?", *published)
	}

	var projects []model.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	// Struct update with an explicit field list so zero values (published=false,
	// cleared URLs) are written and the jsonb serializer still applies.
	result := r.db.WithContext(ctx).
		Model(&model.Project{ID: project.ID}).
		Select("TitleFr", "TitleEn", "DescriptionFr", "DescriptionEn",
			"URL", "GitHubURL", "ImageURLs", "Published").
		Updates(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *projectRepository) ReplaceTechnologies(ctx context.Context, project *model.Project, technologies []model.Technology) error {
	return r.db.WithContext(ctx).Model(project).Association("Technologies").Replace(technologies)
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Select("Technologies").Delete(&model.Project{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
