package middlewares

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"masjidku_meetings/internals/helpers/dbtime"
)

const HeaderTimezone = "X-Timezone"

// TimezoneMiddleware mengisi locals zona waktu untuk dbtime.GetLocation.
// Header X-Timezone (kalau ada) menang atas zona aplikasi.
func TimezoneMiddleware(loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(c *fiber.Ctx) error {
		if tz := strings.TrimSpace(c.Get(HeaderTimezone)); tz != "" {
			c.Locals(dbtime.LocTimezone, tz)
		} else {
			c.Locals(dbtime.LocLoc, loc)
		}
		return c.Next()
	}
}
