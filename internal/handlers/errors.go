package handlers

import (
	"errors"

	"petshop/internal/types"
	"petshop/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const deniedRedirect = "/home"

// ErrorHandler is the fiber error handler. It turns the error taxonomy into
// status codes and bodies; anything unclassified is a 500 with a generic
// message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	log := logger.NewWithContext(c.UserContext(), "handlers").Function("ErrorHandler")

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"status":  "error",
			"message": fiberErr.Message,
		})
	}

	fields, hasFields := types.AsFieldErrors(err)

	switch {
	case errors.Is(err, types.ErrValidation):
		if !hasFields {
			fields = map[string]string{"_": err.Error()}
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": fields})

	case errors.Is(err, types.ErrConflict):
		if !hasFields {
			fields = map[string]string{"_": err.Error()}
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"errors": fields})

	case errors.Is(err, types.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "authentication required",
		})

	case errors.Is(err, types.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":   "error",
			"message":  err.Error(),
			"redirect": deniedRedirect,
		})

	case errors.Is(err, types.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":   "error",
			"message":  "resource not found",
			"redirect": deniedRedirect,
		})
	}

	log.Er("unhandled request error", err, "method", c.Method(), "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "error",
		"message": "something went wrong, please try again",
	})
}

func badRequest(message string) error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

// paramID reads the :id route parameter. Ids that cannot exist are reported
// as not found.
func paramID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, types.ErrNotFound
	}
	return id, nil
}

func pageRequest(c *fiber.Ctx) types.PageRequest {
	return types.PageRequest{Page: c.QueryInt("page", 1)}
}
