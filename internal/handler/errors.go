package handler

import (
	"errors"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/middleware"
	"compta-pme-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	errInvalidJSON = apperror.NewValidation("Invalid JSON")
	errInvalidID   = apperror.NewValidation("Invalid ID")
)

// ErrorHandler turns the errors returned by handlers into JSON bodies
// {"error", "code", "details"}. Internal errors are logged and hidden.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = log.WithComponent("http")
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		appErr := apperror.From(err)
		if appErr.HTTPStatus >= fiber.StatusInternalServerError {
			log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}

		body := fiber.Map{"error": appErr.Message, "code": appErr.Code}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		return c.Status(appErr.HTTPStatus).JSON(body)
	}
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, errInvalidID.WithDetail("param", param)
	}
	return id, nil
}

// tenant returns the société and the acting user of a tenant route.
func tenant(c *fiber.Ctx) (uuid.UUID, string, error) {
	societeID, ok := middleware.SocieteID(c)
	if !ok {
		return uuid.Nil, "", apperror.NewNotFound("societe not found")
	}
	userID, _ := middleware.UserID(c)
	return societeID, userID.String(), nil
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message, "data": data})
}
