package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
)

// ProfileService manages the singleton site-owner profile.
type ProfileService interface {
	Get(ctx context.Context) (*model.Profile, error)
	CreateOrUpdate(ctx context.Context, input ProfileInput) (*model.Profile, error)
}

// ProfileInput captures the full profile payload (PUT semantics).
type ProfileInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         *string
	LinkedIn      *string
	GitHub        *string
	DescriptionFr *string
	DescriptionEn *string
	PhotoID       *string
}

type profileService struct {
	repo repository.ProfileRepository
}

// NewProfileService returns a service backed by the given repository.
func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) Get(ctx context.Context) (*model.Profile, error) {
	profile, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) CreateOrUpdate(ctx context.Context, input ProfileInput) (*model.Profile, error) {
	profile, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		profile = &model.Profile{}
	}

	profile.FirstName = input.FirstName
	profile.LastName = input.LastName
	profile.Email = input.Email
	profile.Phone = input.Phone
	profile.LinkedIn = input.LinkedIn
	profile.GitHub = input.GitHub
	profile.DescriptionFr = input.DescriptionFr
	profile.DescriptionEn = input.DescriptionEn
	profile.PhotoID = input.PhotoID
	profile.Photo = nil

	if profile.ID == "" {
		if err := s.repo.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		return s.repo.Get(ctx)
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
