package auth

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "masjidku_meetings/internals/helpers/auth"
)

const RoleOwner = "owner"

// RequireOrganizer: lolos kalau owner atau punya minimal satu organizer_area_ids.
// Cek per-area tetap dilakukan di service.
func RequireOrganizer(customMessage string) fiber.Handler {
	if customMessage == "" {
		customMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		if helperAuth.GetRole(c) == RoleOwner {
			return c.Next()
		}
		if len(helperAuth.GetOrganizerAreaIDs(c)) > 0 {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, customMessage)
	}
}
