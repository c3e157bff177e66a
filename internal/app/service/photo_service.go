package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
	"github.com/julienvb/portfolio-api/internal/infra/logger"
	"go.uber.org/zap"
)

// ErrStorageDisabled signals that no object storage is configured.
var ErrStorageDisabled = errors.New("photo storage is not configured")

// ObjectStorage abstracts the photo bucket.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// PhotoService handles photo upload and removal.
type PhotoService interface {
	Upload(ctx context.Context, input UploadPhotoInput) (*model.Photo, error)
	Get(ctx context.Context, id string) (*model.Photo, error)
	Delete(ctx context.Context, id string) error
}

// UploadPhotoInput carries one multipart upload.
type UploadPhotoInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type photoService struct {
	repo    repository.PhotoRepository
	storage ObjectStorage
}

// NewPhotoService returns a service backed by the given repository and
// bucket. storage may be nil; uploads then fail with ErrStorageDisabled.
func NewPhotoService(repo repository.PhotoRepository, storage ObjectStorage) PhotoService {
	return &photoService{repo: repo, storage: storage}
}

func (s *photoService) Upload(ctx context.Context, input UploadPhotoInput) (*model.Photo, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	key := fmt.Sprintf("photos/%s%s", uuid.NewString(), ext)

	url, err := s.storage.Put(ctx, key, input.ContentType, input.Body, input.Size)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	photo := &model.Photo{
		ObjectKey:   key,
		URL:         url,
		ContentType: input.ContentType,
		Size:        input.Size,
	}
	if err := s.repo.Create(ctx, photo); err != nil {
		// Best effort: don't leave the object orphaned.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.L().Warn("failed to clean up orphaned photo object",
				zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("store photo: %w", err)
	}

	return photo, nil
}

func (s *photoService) Get(ctx context.Context, id string) (*model.Photo, error) {
	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return photo, nil
}

func (s *photoService) Delete(ctx context.Context, id string) error {
	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load photo: %w", err)
	}

	if s.storage != nil {
		if err := s.storage.Delete(ctx, photo.ObjectKey); err != nil {
			return fmt.Errorf("delete photo object: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}
