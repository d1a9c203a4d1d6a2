package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/tradepost/tradepost/auth"
)

// LoginRequest payload
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.Password, validation.Required),
	)
}

func (s *Server) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unable to parse login payload")
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload")
	}

	token, err := s.auther.Login(c.UserContext(), payload.Identifier, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"token": token})
}

// RegisterRequest payload
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Username, validation.Length(3, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// RegisterPost creates the account and, like login, answers with a fresh
// token. Registration never has a role field: every signup is a member.
func (s *Server) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unable to parse registration payload")
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	msg := auth.RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		Role:      string(auth.RoleMember),
	}

	token, err := s.auther.Register(c.UserContext(), msg)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"token": token})
}
