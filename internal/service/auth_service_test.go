package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sabor-next/internal/config"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T, name string) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:authsvc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:   "admin-test-secret",
			ExpireHours: 24,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
	}
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func seedTestAdmin(t *testing.T, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsSuper:      true,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}
	return admin
}

func TestAdminLoginAndParseJWT(t *testing.T) {
	svc, db := setupAuthServiceTest(t, t.Name())
	seeded := seedTestAdmin(t, db, "gerente", "Password1")

	admin, token, expiresAt, err := svc.Login("gerente", "Password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if admin.ID != seeded.ID {
		t.Fatalf("login returned wrong admin: %d", admin.ID)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("login should issue a token")
	}
	if admin.LastLoginAt == nil {
		var reloaded models.Admin
		if err := db.First(&reloaded, seeded.ID).Error; err != nil {
			t.Fatalf("reload admin failed: %v", err)
		}
		if reloaded.LastLoginAt == nil {
			t.Fatalf("login should record last login time")
		}
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse issued token failed: %v", err)
	}
	if claims.AdminID != seeded.ID || claims.Username != "gerente" || !claims.IsSuper {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, _, _, err := svc.Login("gerente", "wrong-pass"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("wrong password want ErrInvalidCredential got %v", err)
	}
	if _, _, _, err := svc.Login("nadie", "Password1"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("unknown admin want ErrInvalidCredential got %v", err)
	}
}

func TestAdminParseJWTRejectsForgedToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t, t.Name())
	admin := seedTestAdmin(t, db, "gerente", "Password1")

	otherCfg := &config.Config{JWT: config.JWTConfig{SecretKey: "another-secret", ExpireHours: 24}}
	other := NewAuthService(otherCfg, nil)
	forged, _, err := other.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate forged token failed: %v", err)
	}

	if _, err := svc.ParseJWT(forged); err == nil {
		t.Fatalf("token signed with another secret should be rejected")
	}
	if _, err := svc.ParseJWT("not-a-token"); err == nil {
		t.Fatalf("malformed token should be rejected")
	}
}

func TestAdminChangePassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t, t.Name())
	admin := seedTestAdmin(t, db, "gerente", "Password1")

	if err := svc.ChangePassword(admin.ID, "wrong", "NewPassword1"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("wrong old password want ErrInvalidCredential got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "Password1", "weak"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("weak new password want ErrPasswordPolicy got %v", err)
	}
	if err := svc.ChangePassword(9999, "Password1", "NewPassword1"); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("missing admin want ErrAdminNotFound got %v", err)
	}

	if err := svc.ChangePassword(admin.ID, "Password1", "NewPassword1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("gerente", "NewPassword1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
