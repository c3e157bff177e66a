package service

import (
	"context"
	"fmt"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
)

// TechnologyService defines behaviour-level operations on technologies.
type TechnologyService interface {
	Create(ctx context.Context, input TechnologyInput) (*model.Technology, error)
	Get(ctx context.Context, id string) (*model.Technology, error)
	List(ctx context.Context) ([]model.Technology, error)
	Update(ctx context.Context, id string, input TechnologyInput) (*model.Technology, error)
	Delete(ctx context.Context, id string) error
}

// TechnologyInput captures data for creating or replacing a technology.
type TechnologyInput struct {
	Name     string
	Icon     *string
	Category *string
}

type technologyService struct {
	repo repository.TechnologyRepository
}

// NewTechnologyService returns a service backed by the given repository.
func NewTechnologyService(repo repository.TechnologyRepository) TechnologyService {
	return &technologyService{repo: repo}
}

func (s *technologyService) Create(ctx context.Context, input TechnologyInput) (*model.Technology, error) {
	technology := &model.Technology{
		Name:     input.Name,
		Icon:     input.Icon,
		Category: input.Category,
	}
	if err := s.repo.Create(ctx, technology); err != nil {
		return nil, fmt.Errorf("create technology: %w", err)
	}
	return technology, nil
}

func (s *technologyService) Get(ctx context.Context, id string) (*model.Technology, error) {
	technology, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get technology: %w", err)
	}
	return technology, nil
}

func (s *technologyService) List(ctx context.Context) ([]model.Technology, error) {
	technologies, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}
	return technologies, nil
}

func (s *technologyService) Update(ctx context.Context, id string, input TechnologyInput) (*model.Technology, error) {
	technology := &model.Technology{
		ID:       id,
		Name:     input.Name,
		Icon:     input.Icon,
		Category: input.Category,
	}
	if err := s.repo.Update(ctx, technology); err != nil {
		return nil, fmt.Errorf("update technology: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *technologyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete technology: %w", err)
	}
	return nil
}
