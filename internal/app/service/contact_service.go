package service

import (
	"context"
	"fmt"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
	"github.com/julienvb/portfolio-api/internal/infra/logger"
	metrics "github.com/julienvb/portfolio-api/internal/infra/prometheus"
	"go.uber.org/zap"
)

// ContactEventPublisher emits a stored contact message for out-of-band
// notification delivery.
type ContactEventPublisher interface {
	Publish(event model.ContactEvent) error
}

// ContactService handles the public contact form and admin message review.
type ContactService interface {
	Submit(ctx context.Context, input SubmitContactInput) (*model.Contact, error)
	List(ctx context.Context) ([]model.Contact, error)
	MarkRead(ctx context.Context, id string) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

// SubmitContactInput captures a contact form submission.
type SubmitContactInput struct {
	Name    string
	Email   string
	Message string
}

type contactService struct {
	repo      repository.ContactRepository
	publisher ContactEventPublisher
}

// NewContactService returns a service backed by the given repository.
// publisher may be nil; notification delivery is then skipped.
func NewContactService(repo repository.ContactRepository, publisher ContactEventPublisher) ContactService {
	return &contactService{repo: repo, publisher: publisher}
}

func (s *contactService) Submit(ctx context.Context, input SubmitContactInput) (*model.Contact, error) {
	contact := &model.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Message: input.Message,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("store contact: %w", err)
	}

	metrics.ContactMessages.Inc()

	// Notification failures never fail the submission.
	if s.publisher != nil {
		event := model.ContactEvent{
			ID:        contact.ID,
			Name:      contact.Name,
			Email:     contact.Email,
			Message:   contact.Message,
			CreatedAt: contact.CreatedAt,
		}
		if err := s.publisher.Publish(event); err != nil {
			logger.L().Warn("failed to publish contact event",
				zap.String("id", contact.ID),
				zap.Error(err))
		}
	}

	return contact, nil
}

func (s *contactService) List(ctx context.Context) ([]model.Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *contactService) MarkRead(ctx context.Context, id string) (*model.Contact, error) {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return nil, fmt.Errorf("mark contact read: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
