package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
)

type GetUserByIDInput struct {
	ID string
}

type UserOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type GetUserByID interface {
	Execute(ctx context.Context, in GetUserByIDInput) (UserOutput, error)
}

type getUserByID struct {
	repo domain.UserRepository
}

func NewGetUserByID(repo domain.UserRepository) GetUserByID {
	return &getUserByID{repo: repo}
}

func (uc *getUserByID) Execute(ctx context.Context, in GetUserByIDInput) (UserOutput, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return UserOutput{}, ErrInvalidUserID
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return UserOutput{}, ErrUserNotFound
		}
		return UserOutput{}, fmt.Errorf("%w: %v", ErrGetUserByID, err)
	}

	return toOutput(u), nil
}

func toOutput(u domain.User) UserOutput {
	return UserOutput{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
