// file: internals/features/meetings/dto/meeting_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "masjidku_meetings/internals/features/meetings/model"
	"masjidku_meetings/internals/features/meetings/service"
	"masjidku_meetings/internals/helpers/dbtime"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Create seri (JSON)
type CreateMeetingSeriesRequest struct {
	MeetingAreaID   uuid.UUID `json:"meeting_area_id" validate:"required"`
	MeetingDate     string    `json:"meeting_date" validate:"required,datetime=2006-01-02"`
	MeetingTime     string    `json:"meeting_time" validate:"required,len=5,datetime=15:04"`
	MeetingLocation *string   `json:"meeting_location" validate:"omitempty,max=200"`
	MeetingAgenda   *string   `json:"meeting_agenda" validate:"omitempty,max=2000"`
}

func (r CreateMeetingSeriesRequest) ToInput() service.CreateSeriesInput {
	return service.CreateSeriesInput{
		Date:     strings.TrimSpace(r.MeetingDate),
		Time:     strings.TrimSpace(r.MeetingTime),
		Location: r.MeetingLocation,
		Agenda:   r.MeetingAgenda,
		AreaID:   r.MeetingAreaID,
	}
}

// Update (partial JSON); propagate dari query ?propagate=true
type UpdateMeetingRequest struct {
	MeetingDate     *string `json:"meeting_date" validate:"omitempty,datetime=2006-01-02"`
	MeetingTime     *string `json:"meeting_time" validate:"omitempty,len=5,datetime=15:04"`
	MeetingLocation *string `json:"meeting_location" validate:"omitempty,max=200"`
	MeetingAgenda   *string `json:"meeting_agenda" validate:"omitempty,max=2000"`
	MeetingStatus   *string `json:"meeting_status" validate:"omitempty,oneof=scheduled completed cancelled"`
}

func (r UpdateMeetingRequest) IsEmpty() bool {
	return r.MeetingDate == nil && r.MeetingTime == nil && r.MeetingLocation == nil &&
		r.MeetingAgenda == nil && r.MeetingStatus == nil
}

func (r UpdateMeetingRequest) ToInput(id uuid.UUID, propagate bool) service.UpdateMeetingInput {
	return service.UpdateMeetingInput{
		MeetingID:         id,
		Date:              r.MeetingDate,
		Time:              r.MeetingTime,
		Location:          r.MeetingLocation,
		Agenda:            r.MeetingAgenda,
		Status:            r.MeetingStatus,
		PropagateToSeries: propagate,
	}
}

// Absensi; user_id kosong = diri sendiri
type MarkAttendanceRequest struct {
	MeetingAttendanceUserID *uuid.UUID `json:"meeting_attendance_user_id" validate:"omitempty"`
	MeetingAttendanceStatus string     `json:"meeting_attendance_status" validate:"required,oneof=present absent excused"`
	MeetingAttendanceReason *string    `json:"meeting_attendance_reason" validate:"omitempty,max=500"`
}

func (r MarkAttendanceRequest) ToInput(meetingID uuid.UUID) service.MarkAttendanceInput {
	in := service.MarkAttendanceInput{
		MeetingID: meetingID,
		Status:    r.MeetingAttendanceStatus,
		Reason:    r.MeetingAttendanceReason,
	}
	if r.MeetingAttendanceUserID != nil {
		in.UserID = *r.MeetingAttendanceUserID
	}
	return in
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type MeetingResponse struct {
	MeetingID       uuid.UUID  `json:"meeting_id"`
	MeetingAreaID   uuid.UUID  `json:"meeting_area_id"`
	MeetingDate     string     `json:"meeting_date"`
	MeetingTime     string     `json:"meeting_time"`
	MeetingLocation string     `json:"meeting_location"`
	MeetingAgenda   string     `json:"meeting_agenda"`
	MeetingStatus   string     `json:"meeting_status"`
	MeetingParentID *uuid.UUID `json:"meeting_parent_id,omitempty"`
	MeetingRootID   uuid.UUID  `json:"meeting_root_id"`
	MeetingIsRoot   bool       `json:"meeting_is_root"`

	MeetingCreatedBy uuid.UUID `json:"meeting_created_by"`
	MeetingCreatedAt time.Time `json:"meeting_created_at"`
	MeetingUpdatedAt time.Time `json:"meeting_updated_at"`
}

func NewMeetingResponse(mdl m.MeetingModel) MeetingResponse {
	return MeetingResponse{
		MeetingID:        mdl.MeetingID,
		MeetingAreaID:    mdl.MeetingAreaID,
		MeetingDate:      dbtime.FormatDate(mdl.MeetingDate),
		MeetingTime:      mdl.MeetingTime,
		MeetingLocation:  mdl.MeetingLocation,
		MeetingAgenda:    mdl.MeetingAgenda,
		MeetingStatus:    string(mdl.MeetingStatus),
		MeetingParentID:  mdl.MeetingParentID,
		MeetingRootID:    mdl.Ref().RootID,
		MeetingIsRoot:    mdl.IsRoot(),
		MeetingCreatedBy: mdl.MeetingCreatedBy,
		MeetingCreatedAt: mdl.MeetingCreatedAt,
		MeetingUpdatedAt: mdl.MeetingUpdatedAt,
	}
}

func NewMeetingResponses(rows []m.MeetingModel) []MeetingResponse {
	out := make([]MeetingResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewMeetingResponse(r))
	}
	return out
}

type AttendanceResponse struct {
	MeetingAttendanceMeetingID uuid.UUID `json:"meeting_attendance_meeting_id"`
	MeetingAttendanceUserID    uuid.UUID `json:"meeting_attendance_user_id"`
	MeetingAttendanceStatus    string    `json:"meeting_attendance_status"`
	MeetingAttendanceReason    *string   `json:"meeting_attendance_reason,omitempty"`
	MeetingAttendanceMarkedAt  time.Time `json:"meeting_attendance_marked_at"`
	MeetingAttendanceMarkedBy  uuid.UUID `json:"meeting_attendance_marked_by"`
}

func NewAttendanceResponse(a m.MeetingAttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		MeetingAttendanceMeetingID: a.MeetingAttendanceMeetingID,
		MeetingAttendanceUserID:    a.MeetingAttendanceUserID,
		MeetingAttendanceStatus:    string(a.MeetingAttendanceStatus),
		MeetingAttendanceReason:    a.MeetingAttendanceReason,
		MeetingAttendanceMarkedAt:  a.MeetingAttendanceMarkedAt,
		MeetingAttendanceMarkedBy:  a.MeetingAttendanceMarkedBy,
	}
}

type HorizonResponse struct {
	RootID       uuid.UUID         `json:"root_id"`
	CreatedCount int               `json:"created_count"`
	Created      []MeetingResponse `json:"created"`
}

func NewHorizonResponse(h service.HorizonResult) HorizonResponse {
	return HorizonResponse{
		RootID:       h.RootID,
		CreatedCount: h.CreatedCount,
		Created:      NewMeetingResponses(h.Meetings),
	}
}

type CreateSeriesResponse struct {
	Root    MeetingResponse `json:"root"`
	Horizon HorizonResponse `json:"horizon"`
}

type MarkAttendanceResponse struct {
	Record         AttendanceResponse `json:"record"`
	PreviousStatus *string            `json:"previous_status,omitempty"`
	Horizon        HorizonResponse    `json:"horizon"`
	NextMeeting    *MeetingResponse   `json:"next_meeting,omitempty"`
}

func NewMarkAttendanceResponse(res *service.MarkAttendanceResult) MarkAttendanceResponse {
	out := MarkAttendanceResponse{
		Record:  NewAttendanceResponse(res.Record),
		Horizon: NewHorizonResponse(res.Horizon),
	}
	if res.PreviousStatus != nil {
		ps := string(*res.PreviousStatus)
		out.PreviousStatus = &ps
	}
	if res.NextMeeting != nil {
		nm := NewMeetingResponse(*res.NextMeeting)
		out.NextMeeting = &nm
	}
	return out
}

type UpdateMeetingResponse struct {
	Meeting         MeetingResponse `json:"meeting"`
	ChangedFields   []string        `json:"changed_fields"`
	PropagatedCount int64           `json:"propagated_count"`
}

type AttendanceReportResponse struct {
	Meeting MeetingResponse      `json:"meeting"`
	Records []AttendanceResponse `json:"records"`
	Counts  map[string]int       `json:"counts"`
}

func NewAttendanceReportResponse(r *service.AttendanceReport) AttendanceReportResponse {
	recs := make([]AttendanceResponse, 0, len(r.Records))
	for _, a := range r.Records {
		recs = append(recs, NewAttendanceResponse(a))
	}
	return AttendanceReportResponse{
		Meeting: NewMeetingResponse(r.Meeting),
		Records: recs,
		Counts:  r.Counts,
	}
}
