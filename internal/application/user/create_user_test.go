package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
)

func TestCreateUserSuccess(t *testing.T) {
	t.Parallel()

	repo := &fakeUserRepository{}
	uc := app.NewCreateUser(repo)

	out, err := uc.Execute(context.Background(), app.CreateUserInput{Fields: map[string]string{
		"name": " John Doe ", "email": "john@example.com", "role": "Moderator",
	}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := uuid.Parse(out.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", out.ID)
	}
	if out.Name != "John Doe" || out.Role != "moderator" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created user, got %d", len(repo.created))
	}
}

func TestCreateUserValidationError(t *testing.T) {
	t.Parallel()

	repo := &fakeUserRepository{}
	uc := app.NewCreateUser(repo)

	_, err := uc.Execute(context.Background(), app.CreateUserInput{Fields: map[string]string{
		"name": "", "email": "bad", "role": "user",
	}})
	if !errors.Is(err, app.ErrInvalidUserInput) {
		t.Fatalf("expected ErrInvalidUserInput, got %v", err)
	}

	var verr *app.ValidationError
	if !errors.As(err, &verr) || len(verr.Errors) != 2 {
		t.Fatalf("expected 2 validation errors, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("did not expect repository to be called")
	}
}

func TestCreateUserEmailTaken(t *testing.T) {
	t.Parallel()

	uc := app.NewCreateUser(&fakeUserRepository{createErr: domain.ErrEmailTaken})

	_, err := uc.Execute(context.Background(), app.CreateUserInput{Fields: map[string]string{
		"name": "John Doe", "email": "john@example.com", "role": "user",
	}})
	if !errors.Is(err, app.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateUserRepositoryError(t *testing.T) {
	t.Parallel()

	uc := app.NewCreateUser(&fakeUserRepository{createErr: errors.New("db down")})

	_, err := uc.Execute(context.Background(), app.CreateUserInput{Fields: map[string]string{
		"name": "John Doe", "email": "john@example.com", "role": "user",
	}})
	if !errors.Is(err, app.ErrCreateUser) {
		t.Fatalf("expected ErrCreateUser, got %v", err)
	}
}
