package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// errorHandler is the single place errors become HTTP responses. Expected
// failures carry a category that maps to a 4xx; anything else is a server
// fault and must never be disguised as an authentication failure.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
		})
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		status := statusFromCategory(richErr.Category)
		if status >= fiber.StatusInternalServerError {
			s.log.Error("request failed",
				"error", err,
				"path", c.Path(),
				"method", c.Method(),
			)
			return c.Status(status).JSON(fiber.Map{
				"message": "internal server error",
			})
		}

		// Verified identity but wrong owner is forbidden, not unauthenticated.
		if richErr.TextCode == "FORBIDDEN" {
			status = fiber.StatusForbidden
		}

		body := fiber.Map{"message": richErr.Message}
		if richErr.TextCode != "" {
			body["code"] = richErr.TextCode
		}
		return c.Status(status).JSON(body)
	}

	s.log.Error("unhandled error",
		"error", err,
		"path", c.Path(),
		"method", c.Method(),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

// guardErrorHandler normalizes token rejections into 401 rich errors.
// Internal faults (missing signing key, storage down) keep their category
// and still surface as 500 through errorHandler.
func (s *Server) guardErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryAuth, "invalid authentication token").
			WithCode(goerrors.CodeUnauthorized)
	}

	return s.errorHandler(c, richErr)
}

func statusFromCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryValidation:
		return fiber.StatusBadRequest
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
