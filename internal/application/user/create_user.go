package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
)

type CreateUserInput struct {
	Fields map[string]string
}

// ValidationError carries the business rule failures of a rejected input.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidUserInput
}

type CreateUser interface {
	Execute(ctx context.Context, in CreateUserInput) (UserOutput, error)
}

type createUser struct {
	repo  domain.UserRepository
	newID func() string
}

func NewCreateUser(repo domain.UserRepository) CreateUser {
	return &createUser{repo: repo, newID: func() string { return uuid.NewString() }}
}

// Execute applies the same rules the importer applies before submitting, so
// rows accepted locally are accepted here too.
func (uc *createUser) Execute(ctx context.Context, in CreateUserInput) (UserOutput, error) {
	row := domain.Row(in.Fields)
	if result := domain.ValidateUserData(row); !result.Valid {
		return UserOutput{}, &ValidationError{Errors: result.Errors}
	}

	u, err := domain.NewUser(uc.newID(), row.Field(domain.FieldName), row.Field(domain.FieldEmail), row.Field(domain.FieldRole))
	if err != nil {
		return UserOutput{}, &ValidationError{Errors: []string{err.Error()}}
	}

	created, err := uc.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return UserOutput{}, ErrEmailTaken
		}
		return UserOutput{}, fmt.Errorf("%w: %v", ErrCreateUser, err)
	}

	return toOutput(created), nil
}
