package service

import (
	"context"
	"fmt"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
)

// ProjectService defines behaviour-level operations on portfolio projects.
type ProjectService interface {
	Create(ctx context.Context, input ProjectInput) (*model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, published *bool) ([]model.Project, error)
	Update(ctx context.Context, id string, input ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

// ProjectInput captures the full project payload. TechnologyIDs nil leaves
// the association untouched; an empty slice clears it.
type ProjectInput struct {
	TitleFr       string
	TitleEn       string
	DescriptionFr string
	DescriptionEn string
	URL           *string
	GitHubURL     *string
	ImageURLs     []string
	Published     bool
	TechnologyIDs []string
}

type projectService struct {
	projects     repository.ProjectRepository
	technologies repository.TechnologyRepository
}

// NewProjectService returns a service backed by the given repositories.
func NewProjectService(projects repository.ProjectRepository, technologies repository.TechnologyRepository) ProjectService {
	return &projectService{projects: projects, technologies: technologies}
}

func (s *projectService) Create(ctx context.Context, input ProjectInput) (*model.Project, error) {
	project := &model.Project{
		TitleFr:       input.TitleFr,
		TitleEn:       input.TitleEn,
		DescriptionFr: input.DescriptionFr,
		DescriptionEn: input.DescriptionEn,
		URL:           input.URL,
		GitHubURL:     input.GitHubURL,
		ImageURLs:     input.ImageURLs,
		Published:     input.Published,
	}
	if project.ImageURLs == nil {
		project.ImageURLs = []string{}
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if len(input.TechnologyIDs) > 0 {
		if err := s.replaceTechnologies(ctx, project, input.TechnologyIDs); err != nil {
			return nil, err
		}
	}

	return s.projects.GetByID(ctx, project.ID)
}

func (s *projectService) Get(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, published *bool) ([]model.Project, error) {
	projects, err := s.projects.List(ctx, published)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *projectService) Update(ctx context.Context, id string, input ProjectInput) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	project.TitleFr = input.TitleFr
	project.TitleEn = input.TitleEn
	project.DescriptionFr = input.DescriptionFr
	project.DescriptionEn = input.DescriptionEn
	project.URL = input.URL
	project.GitHubURL = input.GitHubURL
	project.Published = input.Published
	if input.ImageURLs != nil {
		project.ImageURLs = input.ImageURLs
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	if input.TechnologyIDs != nil {
		if err := s.replaceTechnologies(ctx, project, input.TechnologyIDs); err != nil {
			return nil, err
		}
	}

	return s.projects.GetByID(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (s *projectService) replaceTechnologies(ctx context.Context, project *model.Project, ids []string) error {
	technologies, err := s.technologies.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load technologies: %w", err)
	}
	if err := s.projects.ReplaceTechnologies(ctx, project, technologies); err != nil {
		return fmt.Errorf("set project technologies: %w", err)
	}
	return nil
}
