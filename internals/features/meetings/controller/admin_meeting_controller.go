// file: internals/features/meetings/controller/admin_meeting_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_meetings/internals/features/meetings/dto"
	"masjidku_meetings/internals/features/meetings/service"
	helper "masjidku_meetings/internals/helpers"
)

/* ===================== CREATE ===================== */
// POST /api/a/meetings
func (ctl *MeetingController) CreateSeries(c *fiber.Ctx) error {
	r, err := requesterFrom(c)
	if err != nil {
		return err
	}

	var req dto.CreateMeetingSeriesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	res, err := ctl.Series.CreateSeries(c.UserContext(), req.ToInput(), r)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Seri rapat berhasil dibuat", dto.CreateSeriesResponse{
		Root:    dto.NewMeetingResponse(res.Root),
		Horizon: dto.NewHorizonResponse(res.Horizon),
	})
}

/* ===================== UPDATE ===================== */
// PATCH /api/a/meetings/:id?propagate=true
func (ctl *MeetingController) UpdateMeeting(c *fiber.Ctx) error {
	r, err := requesterFrom(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if req.IsEmpty() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	res, err := ctl.Series.UpdateMeeting(c.UserContext(), req.ToInput(id, queryBool(c, "propagate")), r)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Rapat berhasil diperbarui", dto.UpdateMeetingResponse{
		Meeting:         dto.NewMeetingResponse(res.Meeting),
		ChangedFields:   res.ChangedFields,
		PropagatedCount: res.PropagatedCount,
	})
}

/* ===================== DELETE ===================== */
// DELETE /api/a/meetings/:id?series=true
func (ctl *MeetingController) DeleteMeeting(c *fiber.Ctx) error {
	r, err := requesterFrom(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	res, err := ctl.Series.DeleteMeeting(c.UserContext(), service.DeleteMeetingInput{
		MeetingID:    id,
		DeleteSeries: queryBool(c, "series"),
	}, r)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Rapat berhasil dihapus", res)
}

/* ===================== HORIZON ===================== */
// POST /api/a/meetings/:id/horizon
func (ctl *MeetingController) EnsureHorizon(c *fiber.Ctx) error {
	r, err := requesterFrom(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	res, err := ctl.Series.EnsureHorizon(c.UserContext(), id, r)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "Horizon seri diperbarui", dto.NewHorizonResponse(*res))
}
