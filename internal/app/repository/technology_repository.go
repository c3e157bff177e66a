package repository

import (
	"context"
	"errors"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrTechnologyNotFound signals that the requested technology does not exist.
	ErrTechnologyNotFound = errors.New("technology not found")
)

// TechnologyRepository defines the data access contract for technologies.
type TechnologyRepository interface {
	Create(ctx context.Context, technology *model.Technology) error
	GetByID(ctx context.Context, id string) (*model.Technology, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Technology, error)
	List(ctx context.Context) ([]model.Technology, error)
	Update(ctx context.Context, technology *model.Technology) error
	Delete(ctx context.Context, id string) error
}

type technologyRepository struct {
	db *gorm.DB
}

// NewTechnologyRepository returns a GORM-backed TechnologyRepository.
func NewTechnologyRepository(db *gorm.DB) TechnologyRepository {
	return &technologyRepository{db: db}
}

func (r *technologyRepository) Create(ctx context.Context, technology *model.Technology) error {
	return r.db.WithContext(ctx).Create(technology).Error
}

func (r *technologyRepository) GetByID(ctx context.Context, id string) (*model.Technology, error) {
	var technology model.Technology
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&technology).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTechnologyNotFound
		}
		return nil, err
	}
	return &technology, nil
}

func (r *technologyRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Technology, error) {
	var technologies []model.Technology
	if len(ids) == 0 {
		return technologies, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&technologies).Error; err != nil {
		return nil, err
	}
	return technologies, nil
}

func (r *technologyRepository) List(ctx context.Context) ([]model.Technology, error) {
	var technologies []model.Technology
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&technologies).Error; err != nil {
		return nil, err
	}
	return technologies, nil
}

func (r *technologyRepository) Update(ctx context.Context, technology *model.Technology) error {
	result := r.db.WithContext(ctx).
		Model(&model.Technology{}).
		Where("id = ?", technology.ID).
		Updates(map[string]interface{}{
			"name":     technology.Name,
			"icon":     technology.Icon,
			"category": technology.Category,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTechnologyNotFound
	}
	return nil
}

func (r *technologyRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Technology{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTechnologyNotFound
	}
	return nil
}
