// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"masjidku_meetings/internals/configs"
	meetingController "masjidku_meetings/internals/features/meetings/controller"
	meetingRoute "masjidku_meetings/internals/features/meetings/route"
	authMiddleware "masjidku_meetings/internals/middlewares/auth"
)

var startTime = time.Now()

func SetupRoutes(app *fiber.App, db *gorm.DB, meetings *meetingController.MeetingController) {
	startTime = time.Now()

	BaseRoutes(app, db)

	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== PRIVATE (USER) =====================
	log.Info().Msg("[ROUTES] Setting up PRIVATE group /api/u")
	private := app.Group("/api/u", jwt)
	meetingRoute.MeetingUserRoutes(private, meetings)

	// ===================== ADMIN (organizer / owner) =====================
	log.Info().Msg("[ROUTES] Setting up ADMIN group /api/a")
	admin := app.Group("/api/a",
		jwt,
		authMiddleware.RequireOrganizer("Hanya pengurus yang boleh mengelola rapat"),
	)
	meetingRoute.MeetingAdminRoutes(admin, meetings)
}
