package user

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldRole  = "role"

	minNameLength = 2
	maxNameLength = 50
)

var (
	RequiredFields = []string{FieldName, FieldEmail, FieldRole}
	ValidRoles     = []string{"admin", "user", "moderator", "guest"}

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Row is one input record keyed by column name.
type Row map[string]string

// Field returns the trimmed value of a column, or "" when the column is absent.
func (r Row) Field(name string) string {
	return strings.TrimSpace(r[name])
}

// IsBlank reports whether every value in the row trims to empty.
func (r Row) IsBlank() bool {
	for _, value := range r {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// Cleaned returns a copy of the row with every value trimmed.
func (r Row) Cleaned() Row {
	cleaned := make(Row, len(r))
	for key, value := range r {
		cleaned[key] = strings.TrimSpace(value)
	}
	return cleaned
}

type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateEmail is a purely syntactic check; no DNS lookups are made.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

func IsValidRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, valid := range ValidRoles {
		if role == valid {
			return true
		}
	}
	return false
}

// ValidateUserData runs every business rule against the row and collects all
// failures. Format and length rules only apply to non-empty fields, so an
// empty field is reported once as missing.
func ValidateUserData(row Row) ValidationResult {
	var errs []string

	for _, field := range RequiredFields {
		if row.Field(field) == "" {
			errs = append(errs, fmt.Sprintf("Missing required field: %s", field))
		}
	}

	if email := row.Field(FieldEmail); email != "" && !ValidateEmail(email) {
		errs = append(errs, fmt.Sprintf("Invalid email format: %s", email))
	}

	if role := strings.ToLower(row.Field(FieldRole)); role != "" && !IsValidRole(role) {
		errs = append(errs, fmt.Sprintf("Invalid role: %s. Valid roles are: %s", role, strings.Join(ValidRoles, ", ")))
	}

	if name := row.Field(FieldName); name != "" && !validNameLength(name) {
		errs = append(errs, fmt.Sprintf("Name length must be between %d and %d characters: %s", minNameLength, maxNameLength, name))
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func validNameLength(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= minNameLength && n <= maxNameLength
}

type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

func NewUser(id, name, email, role string) (User, error) {
	name = strings.TrimSpace(name)
	if !validNameLength(name) {
		return User{}, ErrInvalidName
	}
	if !ValidateEmail(email) {
		return User{}, ErrInvalidEmail
	}
	if !IsValidRole(role) {
		return User{}, ErrInvalidRole
	}

	return User{
		ID:    id,
		Name:  name,
		Email: strings.TrimSpace(email),
		Role:  strings.ToLower(strings.TrimSpace(role)),
	}, nil
}
