// file: internals/features/meetings/controller/user_meeting_controller.go
package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"masjidku_meetings/internals/features/meetings/dto"
	helper "masjidku_meetings/internals/helpers"
	"masjidku_meetings/internals/helpers/dbtime"
)

/* ===================== ATTENDANCE ===================== */
// POST /api/u/meetings/:id/attendance
func (ctl *MeetingController) MarkAttendance(c *fiber.Ctx) error {
	r, err := requesterFrom(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	res, err := ctl.Series.MarkAttendance(c.UserContext(), req.ToInput(id), r)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "Kehadiran tercatat", dto.NewMarkAttendanceResponse(res))
}

/* ===================== QUERIES ===================== */

// GET /api/u/meetings/next?area_id=
func (ctl *MeetingController) NextMeeting(c *fiber.Ctx) error {
	areaID, err := parseUUIDQuery(c, "area_id")
	if err != nil {
		return err
	}
	mt, err := ctl.Query.NextMeeting(c.UserContext(), areaID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewMeetingResponse(*mt))
}

// GET /api/u/meetings/recent?area_id=&page=&per_page=
func (ctl *MeetingController) RecentMeetings(c *fiber.Ctx) error {
	areaID, err := parseUUIDQuery(c, "area_id")
	if err != nil {
		return err
	}
	pg := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctl.Query.RecentMeetings(c.UserContext(), areaID, pg.Offset, pg.Limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	p := helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage)
	return helper.JsonList(c, "ok", dto.NewMeetingResponses(rows), &p)
}

// GET /api/u/meetings/:id/series
func (ctl *MeetingController) SeriesMeetings(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := ctl.Query.SeriesMeetings(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewMeetingResponses(rows))
}

// GET /api/u/meetings/:id/attendance
func (ctl *MeetingController) AttendanceReport(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	rep, err := ctl.Query.AttendanceReport(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewAttendanceReportResponse(rep))
}

// GET /api/u/meetings/:id/series.ics
func (ctl *MeetingController) ExportSeriesICS(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	body, err := ctl.Query.ExportSeriesICS(c.UserContext(), id, dbtime.GetLocation(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="series-`+id.String()+`.ics"`)
	return c.SendString(body)
}

// GET /api/u/meetings/:id/audit?limit=
func (ctl *MeetingController) SeriesAudit(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	rows, err := ctl.Query.SeriesAudit(c.UserContext(), id, limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/u/areas/:area_id/dashboard
func (ctl *MeetingController) Dashboard(c *fiber.Ctx) error {
	areaID, err := parseUUIDParam(c, "area_id")
	if err != nil {
		return err
	}
	d, err := ctl.Query.Dashboard(c.UserContext(), areaID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", d)
}
