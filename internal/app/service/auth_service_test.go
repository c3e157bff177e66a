package service

import (
	"context"
	"errors"
	"testing"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	createFn     func(ctx context.Context, user *model.User) error
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
	getByIDFn    func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrUserNotFound
}

func TestAuthService_Register_HashesAndNormalizes(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}

	svc := NewAuthService(repo)
	user, err := svc.Register(context.Background(), "  Admin@Example.COM ", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if created.PasswordHash == "hunter2hunter2" {
		t.Fatal("password must not be stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter2hunter2")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if created.Role != "admin" {
		t.Fatalf("expected admin role, got %s", created.Role)
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	repo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Email: email}, nil
		},
	}

	svc := NewAuthService(repo)
	_, err := svc.Register(context.Background(), "admin@example.com", "hunter2hunter2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	repo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "admin@example.com" {
				return nil, repository.ErrUserNotFound
			}
			return &model.User{
				ID:           "u1",
				Email:        email,
				PasswordHash: string(hash),
				Role:         "admin",
			}, nil
		},
	}
	svc := NewAuthService(repo)

	if _, err := svc.Login(context.Background(), "Admin@Example.com", "correct horse"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}

	if _, err := svc.Login(context.Background(), "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}

	if _, err := svc.Login(context.Background(), "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
