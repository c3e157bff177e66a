package repository

import (
	"context"
	"errors"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrPhotoNotFound signals that the requested photo does not exist.
	ErrPhotoNotFound = errors.New("photo not found")
)

// PhotoRepository defines the data access contract for uploaded photos.
type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	GetByID(ctx context.Context, id string) (*model.Photo, error)
	Delete(ctx context.Context, id string) error
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository returns a GORM-backed PhotoRepository.
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *model.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *photoRepository) GetByID(ctx context.Context, id string) (*model.Photo, error) {
	var photo model.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Photo{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
