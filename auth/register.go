package auth

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries a registration request
type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Username, validation.Length(3, 100)),
		validation.Field(&e.FirstName, validation.Length(1, 200)),
		validation.Field(&e.LastName, validation.Length(1, 200)),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 100)),
	)
}

// RegisterUserHandler persists registrations through the repository manager
type RegisterUserHandler struct {
	repo RepositoryManager
}

var _ AccountRegisterer = (*RegisterUserHandler)(nil)

// NewAccountRegisterer wires registration persistence for an Authenticator
func NewAccountRegisterer(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// RegisterUser hashes the credential and inserts the record in a single
// transaction. Identifier uniqueness is enforced by the storage layer; a
// concurrent duplicate loses at the constraint, not at a read.
func (h *RegisterUserHandler) RegisterUser(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(msg.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		record := &User{
			Email:        msg.Email,
			FirstName:    msg.FirstName,
			LastName:     msg.LastName,
			Username:     getUsername(msg.Username, msg.Email),
			PasswordHash: hash,
			Role:         roleOrDefault(msg.Role),
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, record); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}

func roleOrDefault(role string) UserRole {
	if ValidRole(role) {
		return role
	}
	return RoleMember
}
