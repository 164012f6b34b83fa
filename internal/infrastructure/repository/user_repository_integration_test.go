package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
	"github.com/mohammadpnp/user-provisioning/internal/infrastructure/repository"
)

func TestUserRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}

	repo := repository.NewUserRepository(db)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	email := "alice-" + uuid.NewString()[:8] + "@example.com"
	u := domain.User{ID: uuid.NewString(), Name: "Alice", Email: email, Role: "admin"}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = ?", u.ID)
	})

	if _, err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Email != email || got.Role != "admin" {
		t.Fatalf("unexpected user: %+v", got)
	}

	_, err = repo.Create(context.Background(), domain.User{ID: uuid.NewString(), Name: "Alice", Email: email, Role: "user"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	_, err = repo.GetByID(context.Background(), "11111111-1111-1111-1111-111111111111")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
