package session

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSigner_IssueAndValidate(t *testing.T) {
	signer := NewSigner([]byte("test-secret"), time.Hour)

	token, id, err := signer.Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty session id")
	}

	got, err := signer.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if got != id {
		t.Fatalf("expected id %q, got %q", id, got)
	}
}

func TestSigner_RejectsTamperedToken(t *testing.T) {
	signer := NewSigner([]byte("test-secret"), time.Hour)

	token, _, err := signer.Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Flip a character in the payload half.
	mutated := []byte(token)
	if mutated[0] == 'A' {
		mutated[0] = 'B'
	} else {
		mutated[0] = 'A'
	}
	if _, err := signer.Validate(string(mutated)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered payload, got %v", err)
	}

	if _, err := signer.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
	if _, err := signer.Validate(strings.Split(token, ".")[0]); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing signature, got %v", err)
	}
}

func TestSigner_RejectsExpiredToken(t *testing.T) {
	signer := NewSigner([]byte("test-secret"), -time.Minute)

	token, _, err := signer.Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := signer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestSigner_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewSigner([]byte("secret-a"), time.Hour).Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := NewSigner([]byte("secret-b"), time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestSigner_RequiresSecret(t *testing.T) {
	signer := NewSigner(nil, time.Hour)
	if _, _, err := signer.Issue(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := signer.Validate("whatever"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}
