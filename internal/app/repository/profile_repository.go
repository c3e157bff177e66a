package repository

import (
	"context"
	"errors"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound signals that no profile row has been created yet.
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileRepository defines the data access contract for the singleton
// profile row.
type ProfileRepository interface {
	Get(ctx context.Context) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a GORM-backed ProfileRepository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Preload("Photo").First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Photo").First(profile, "id = ?", profile.ID).Error
}
