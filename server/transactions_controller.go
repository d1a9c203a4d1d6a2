package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// PurchaseRequest payload
type PurchaseRequest struct {
	ItemID string `json:"item_id"`
}

// Validate will run validation rules
func (r PurchaseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemID, validation.Required, is.UUIDv4),
	)
}

func (s *Server) TransactionsList(c *fiber.Ctx) error {
	claims, err := s.currentClaims(c)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryAuth, "malformed user id in claims")
	}

	transactions, err := s.market.Transactions().ListByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transactions": transactions})
}

// TransactionCreate settles a purchase. The whole exchange runs in one
// transaction so an item can never sell twice.
func (s *Server) TransactionCreate(c *fiber.Ctx) error {
	claims, err := s.currentClaims(c)
	if err != nil {
		return err
	}

	payload := new(PurchaseRequest)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unable to parse purchase payload")
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid purchase payload")
	}

	buyerID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryAuth, "malformed user id in claims")
	}

	itemID, err := uuid.Parse(payload.ItemID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "malformed item id")
	}

	trx, err := s.market.PurchaseItem(c.UserContext(), buyerID, itemID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(trx)
}
