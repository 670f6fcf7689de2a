package service

import (
	"errors"
	"testing"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/repository"
)

func newTestAuthService(t *testing.T) (*AuthService, repository.AdminRepository) {
	t.Helper()
	repo := repository.NewAdminRepository(openServiceTestDB(t))
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "admin-secret-for-tests-0123456789abcdef", ExpireHours: 1}}
	return NewAuthService(cfg, repo), repo
}

func TestAuthServiceLoginIsCaseInsensitive(t *testing.T) {
	svc, repo := newTestAuthService(t)
	created, err := svc.CreateAdmin("  Manager ", "password123")
	if err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if created.Username != "manager" {
		t.Fatalf("username should be normalized, got %q", created.Username)
	}

	admin, token, _, err := svc.Login("MANAGER", "password123", "10.0.0.1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || admin.ID != created.ID {
		t.Fatalf("unexpected login result admin=%+v token=%q", admin, token)
	}
	claims, err := svc.ParseJWT(token)
	if err != nil || claims.AdminID != created.ID {
		t.Fatalf("token should carry admin id, claims=%+v err=%v", claims, err)
	}

	stored, err := repo.GetByID(created.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload admin failed: %v", err)
	}
	if stored.LastLoginIP != "10.0.0.1" || stored.LastLoginAt == nil {
		t.Fatalf("last login not recorded: %+v", stored)
	}
}

func TestAuthServiceLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	if _, err := svc.CreateAdmin("manager", "password123"); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if _, _, _, err := svc.Login("manager", "password124", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "password123", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown admin should be invalid credentials, got %v", err)
	}
}

func TestAuthServiceCreateAdminValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	if _, err := svc.CreateAdmin("manager", "password123"); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if _, err := svc.CreateAdmin("Manager", "password456"); !errors.Is(err, ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}
	if _, err := svc.CreateAdmin("courier", "1"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if _, err := svc.CreateAdmin("   ", "password123"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
