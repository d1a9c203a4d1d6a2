package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/tradepost/tradepost/auth"
	"github.com/tradepost/tradepost/market"
)

// ItemRequest payload for create and update
type ItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
}

// Validate will run validation rules
func (r ItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.PriceCents, validation.Required, validation.Min(1)),
		validation.Field(&r.Currency, validation.Required, validation.Length(3, 3)),
	)
}

func (s *Server) ItemsList(c *fiber.Ctx) error {
	items, err := s.market.Items().List(c.UserContext(), !c.QueryBool("all"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

func (s *Server) ItemShow(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	item, err := s.market.Items().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (s *Server) ItemCreate(c *fiber.Ctx) error {
	claims, err := s.currentClaims(c)
	if err != nil {
		return err
	}

	payload := new(ItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unable to parse item payload")
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid item payload")
	}

	sellerID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryAuth, "malformed user id in claims")
	}

	item, err := s.market.Items().Create(c.UserContext(), &market.Item{
		SellerID:    sellerID,
		Title:       payload.Title,
		Description: payload.Description,
		PriceCents:  payload.PriceCents,
		Currency:    payload.Currency,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (s *Server) ItemUpdate(c *fiber.Ctx) error {
	claims, err := s.currentClaims(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := new(ItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unable to parse item payload")
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid item payload")
	}

	item, err := s.market.Items().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if err := requireOwner(claims, item.SellerID); err != nil {
		return err
	}

	item.Title = payload.Title
	item.Description = payload.Description
	item.PriceCents = payload.PriceCents
	item.Currency = payload.Currency

	item, err = s.market.Items().Update(c.UserContext(), item)
	if err != nil {
		return err
	}

	return c.JSON(item)
}

func (s *Server) ItemDelete(c *fiber.Ctx) error {
	claims, err := s.currentClaims(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	item, err := s.market.Items().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if err := requireOwner(claims, item.SellerID); err != nil {
		return err
	}

	if err := s.market.Items().Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryValidation, "malformed resource id")
	}
	return id, nil
}

// requireOwner lets the record owner or an admin through, everyone else
// gets a forbidden error. Ownership is decided from verified claims only.
func requireOwner(claims interface {
	UserID() string
	Role() string
}, ownerID uuid.UUID) error {
	if claims.Role() == string(auth.RoleAdmin) {
		return nil
	}
	if claims.UserID() == ownerID.String() {
		return nil
	}
	return market.ErrNotItemSeller
}
