// file: internals/features/meetings/controller/meeting_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"masjidku_meetings/internals/features/meetings/service"
	helper "masjidku_meetings/internals/helpers"
	helperAuth "masjidku_meetings/internals/helpers/auth"
)

type MeetingController struct {
	Series    *service.SeriesService
	Query     *service.QueryService
	Validator *validator.Validate
}

func NewMeetingController(series *service.SeriesService, query *service.QueryService) *MeetingController {
	return &MeetingController{
		Series:    series,
		Query:     query,
		Validator: validator.New(),
	}
}

/* ===================== helpers ===================== */

// requester dari locals JWT
func requesterFrom(c *fiber.Ctx) (service.Requester, error) {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return service.Requester{}, err
	}
	return service.Requester{
		UserID:         userID,
		Role:           helperAuth.GetRole(c),
		OrganizerAreas: helperAuth.GetOrganizerAreaIDs(c),
	}, nil
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return id, nil
}

func parseUUIDQuery(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" wajib diisi")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return id, nil
}

func queryBool(c *fiber.Ctx, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// Kind error service → HTTP status + kode.
// Validation 400, AccessDenied 403, NotFound 404, Duplicate/NoChanges 409,
// LockTimeout 503 (retryable), StorageFailure 500 (retryable).
func statusForKind(kind error) (int, string) {
	switch kind {
	case service.ErrValidation:
		return fiber.StatusBadRequest, "VALIDATION_ERROR"
	case service.ErrAccessDenied:
		return fiber.StatusForbidden, "ACCESS_DENIED"
	case service.ErrNotFound:
		return fiber.StatusNotFound, "NOT_FOUND"
	case service.ErrDuplicateMeeting:
		return fiber.StatusConflict, "DUPLICATE_MEETING"
	case service.ErrNoChanges:
		return fiber.StatusConflict, "NO_CHANGES"
	case service.ErrLockTimeout:
		return fiber.StatusServiceUnavailable, "LOCK_TIMEOUT"
	default:
		return fiber.StatusInternalServerError, "STORAGE_FAILURE"
	}
}

func writeServiceError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	var se *service.Error
	if !errors.As(err, &se) {
		log.Error().Err(err).Str("path", c.Path()).Msg("[MEETINGS] unexpected error")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	status, code := statusForKind(se.Kind)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.Path()).Str("code", code).Msg("[MEETINGS] request gagal")
	}
	msg := se.Message
	if status == fiber.StatusInternalServerError {
		// detail DB tidak dibocorkan ke klien
		msg = "Terjadi gangguan penyimpanan, coba lagi"
	}
	return helper.JsonErrorCode(c, status, code, msg, se.Retryable())
}
