package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/apperr"
)

const genericErrorMessage = "An error occurred while processing the request."

// ErrorHandler maps errors to JSON responses. Application errors answer 500
// except not_found, which answers 404.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
			})
		}

		kind := apperr.KindOf(err)
		status := fiber.StatusInternalServerError
		if kind == apperr.KindNotFound {
			status = fiber.StatusNotFound
		}

		message := genericErrorMessage
		var appErr *apperr.AppError
		if errors.As(err, &appErr) && appErr.Message != "" {
			message = appErr.Message
		}

		entry := logger.WithError(err).WithFields(logrus.Fields{
			"kind":   kind,
			"method": c.Method(),
			"path":   c.Path(),
		})
		if status >= fiber.StatusInternalServerError {
			entry.Error("Request failed")
		} else {
			entry.Info("Request failed")
		}

		return c.Status(status).JSON(fiber.Map{
			"error": message,
			"kind":  kind,
		})
	}
}
