package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_meetings/internals/features/meetings/controller"
	"masjidku_meetings/internals/middlewares"
)

// MeetingAdminRoutes dipasang di group /api/a (organizer / owner).
func MeetingAdminRoutes(r fiber.Router, ctl *controller.MeetingController) {
	g := r.Group("/meetings")
	g.Post("/", middlewares.WriteRateLimiter(), ctl.CreateSeries)
	g.Patch("/:id", ctl.UpdateMeeting)
	g.Delete("/:id", ctl.DeleteMeeting)
	g.Post("/:id/horizon", ctl.EnsureHorizon)
}

// MeetingUserRoutes dipasang di group /api/u (semua user login).
func MeetingUserRoutes(r fiber.Router, ctl *controller.MeetingController) {
	g := r.Group("/meetings")
	g.Get("/next", ctl.NextMeeting)
	g.Get("/recent", ctl.RecentMeetings)
	g.Get("/:id/series", ctl.SeriesMeetings)
	g.Get("/:id/series.ics", ctl.ExportSeriesICS)
	g.Get("/:id/attendance", ctl.AttendanceReport)
	g.Post("/:id/attendance", middlewares.WriteRateLimiter(), ctl.MarkAttendance)
	g.Get("/:id/audit", ctl.SeriesAudit)

	r.Get("/areas/:area_id/dashboard", ctl.Dashboard)
}
