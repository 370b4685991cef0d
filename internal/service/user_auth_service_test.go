package service

import (
	"errors"
	"testing"

	"github.com/tidecart/internal/constants"
	"github.com/tidecart/internal/repository"
)

func TestUserRegisterAndLogin(t *testing.T) {
	f := newStoreFixture(t)
	svc := NewUserAuthService(f.cfg, repository.NewUserRepository(f.db))

	user, token, _, err := svc.Register(RegisterInput{Email: "  Arjun@Example.com ", Password: "seafood123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "arjun@example.com" || user.DisplayName != "arjun" {
		t.Fatalf("unexpected user: %+v", user)
	}
	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("claims user want %d got %d", user.ID, claims.UserID)
	}

	if _, _, _, err := svc.Register(RegisterInput{Email: "arjun@example.com", Password: "seafood123"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("want ErrEmailExists got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "new@example.com", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("want ErrPasswordTooShort got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "seafood123"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail got %v", err)
	}

	if _, _, _, err := svc.Login("arjun@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	logged, _, _, err := svc.Login("ARJUN@example.com", "seafood123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("last login should be recorded")
	}

	logged.Status = constants.UserStatusDisabled
	if err := f.db.Save(logged).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("arjun@example.com", "seafood123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("want ErrUserDisabled got %v", err)
	}
}

func TestUserTokenRejectsForeignSecret(t *testing.T) {
	f := newStoreFixture(t)
	svc := NewUserAuthService(f.cfg, repository.NewUserRepository(f.db))
	admin := NewAuthService(f.cfg, repository.NewAdminRepository(f.db))

	token, _, err := svc.GenerateUserJWT(f.user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := admin.ParseJWT(token); err == nil {
		t.Fatalf("user token must not parse as admin token")
	}
}
