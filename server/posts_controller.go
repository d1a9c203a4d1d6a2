package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/tradepost/tradepost/market"
)

// PostRequest payload
type PostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Validate will run validation rules
func (r PostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Body, validation.Required, validation.Length(1, 10000)),
	)
}

func (s *Server) PostsList(c *fiber.Ctx) error {
	posts, err := s.market.Posts().List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (s *Server) PostCreate(c *fiber.Ctx) error {
	claims, err := s.currentClaims(c)
	if err != nil {
		return err
	}

	payload := new(PostRequest)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unable to parse post payload")
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid post payload")
	}

	authorID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryAuth, "malformed user id in claims")
	}

	post, err := s.market.Posts().Create(c.UserContext(), &market.Post{
		AuthorID: authorID,
		Title:    payload.Title,
		Body:     payload.Body,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}
