package user_test

import (
	"context"
	"errors"
	"testing"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
)

type fakeUserRepository struct {
	users     map[string]domain.User
	createErr error
	getErr    error
	created   []domain.User
}

func (f *fakeUserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

const aliceID = "a3f91a91-7fdd-43bf-bfd2-00bc02f6c53e"

func TestGetUserByIDSuccess(t *testing.T) {
	t.Parallel()

	repo := &fakeUserRepository{users: map[string]domain.User{
		aliceID: {ID: aliceID, Name: "Alice", Email: "alice@example.com", Role: "admin"},
	}}
	uc := app.NewGetUserByID(repo)

	out, err := uc.Execute(context.Background(), app.GetUserByIDInput{ID: aliceID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Email != "alice@example.com" || out.Role != "admin" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestGetUserByIDInvalidID(t *testing.T) {
	t.Parallel()

	uc := app.NewGetUserByID(&fakeUserRepository{})

	_, err := uc.Execute(context.Background(), app.GetUserByIDInput{ID: "not-uuid"})
	if !errors.Is(err, app.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	t.Parallel()

	uc := app.NewGetUserByID(&fakeUserRepository{})

	_, err := uc.Execute(context.Background(), app.GetUserByIDInput{ID: aliceID})
	if !errors.Is(err, app.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUserByIDRepositoryError(t *testing.T) {
	t.Parallel()

	uc := app.NewGetUserByID(&fakeUserRepository{getErr: errors.New("db down")})

	_, err := uc.Execute(context.Background(), app.GetUserByIDInput{ID: aliceID})
	if !errors.Is(err, app.ErrGetUserByID) {
		t.Fatalf("expected ErrGetUserByID, got %v", err)
	}
}
