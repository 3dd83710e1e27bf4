package users

import (
	"context"
	"errors"
	"testing"
)

func TestSignupHashesPasswordAndDefaultsRole(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	user, err := svc.Signup(context.Background(), "Ada", "ada@example.com", "secret123", "")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Role != RoleHR {
		t.Fatalf("expected default role %q, got %q", RoleHR, user.Role)
	}
	if user.ID == "" {
		t.Fatal("expected generated user id")
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password stored in plain text")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Signup(context.Background(), "Ada", "ada@example.com", "secret123", ""); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "Other", "Ada@Example.com", "different", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	created, err := svc.Signup(context.Background(), "Ada", "ada@example.com", "secret123", RoleStudent)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	user, err := svc.Login(context.Background(), "ada@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user %q, got %q", created.ID, user.ID)
	}

	if _, err := svc.Login(context.Background(), "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsOAuthOnlyAccount(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.UpsertFromOAuth(context.Background(), "google", "google:123", "ada@example.com", "Ada", ""); err != nil {
		t.Fatalf("UpsertFromOAuth: %v", err)
	}
	if _, err := svc.Login(context.Background(), "ada@example.com", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpsertFromOAuthPreservesExistingRole(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	first, err := svc.UpsertFromOAuth(context.Background(), "google", "google:123", "ada@example.com", "Ada", "")
	if err != nil {
		t.Fatalf("UpsertFromOAuth: %v", err)
	}
	if first.Role != RoleStudent {
		t.Fatalf("expected new oauth account to default to %q, got %q", RoleStudent, first.Role)
	}

	// Simulate an operator promoting the account.
	promoted := first
	promoted.Role = RoleHR
	if err := svc.Repo.Upsert(context.Background(), promoted); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	again, err := svc.UpsertFromOAuth(context.Background(), "google", "google:123", "ada@example.com", "Ada B", "pic")
	if err != nil {
		t.Fatalf("UpsertFromOAuth: %v", err)
	}
	if again.Role != RoleHR {
		t.Fatalf("expected promoted role preserved, got %q", again.Role)
	}
	if again.Name != "Ada B" {
		t.Fatalf("expected profile fields refreshed, got %q", again.Name)
	}
}
