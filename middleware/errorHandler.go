package middleware

import (
	"errors"

	"movein-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders errors that escape handlers in the same envelope the controllers use.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An internal server error occurred."

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		config.Logger.Error("Unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
		"error":   message,
	})
}
