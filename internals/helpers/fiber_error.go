package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler: error yang lolos dari handler (termasuk *fiber.Error dari middleware)
// tetap keluar dengan shape ErrorResponse.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, "")
}
