// file: internals/features/meetings/service/query_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	m "masjidku_meetings/internals/features/meetings/model"
	"masjidku_meetings/internals/features/meetings/store"
	"masjidku_meetings/internals/helpers/dbtime"
)

// QueryService: proyeksi read-only, tanpa lock (dirty read boleh untuk dashboard).
type QueryService struct {
	DB         *gorm.DB
	Meetings   *store.MeetingStore
	Attendance *store.AttendanceStore
	Audit      *store.AuditStore
	Clock      dbtime.Clock
}

func NewQueryService(db *gorm.DB, clock dbtime.Clock) *QueryService {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	return &QueryService{
		DB:         db,
		Meetings:   store.NewMeetingStore(),
		Attendance: store.NewAttendanceStore(),
		Audit:      store.NewAuditStore(),
		Clock:      clock,
	}
}

func (q *QueryService) db(ctx context.Context) *gorm.DB { return q.DB.WithContext(ctx) }

func (q *QueryService) NextMeeting(ctx context.Context, areaID uuid.UUID) (*m.MeetingModel, error) {
	var rows []m.MeetingModel
	err := q.db(ctx).
		Where("meeting_area_id = ? AND meeting_date >= ? AND meeting_status = ?", areaID, dbtime.Today(q.Clock), m.MeetingScheduled).
		Order("meeting_date ASC, meeting_time ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, classifyDBError(err, "next_meeting")
	}
	if len(rows) == 0 {
		return nil, newError(ErrNotFound, "belum ada rapat mendatang")
	}
	return &rows[0], nil
}

// RecentMeetings: date <= today, terbaru dulu. Return rows + total.
func (q *QueryService) RecentMeetings(ctx context.Context, areaID uuid.UUID, offset, limit int) ([]m.MeetingModel, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	base := q.db(ctx).Model(&m.MeetingModel{}).
		Where("meeting_area_id = ? AND meeting_date <= ?", areaID, dbtime.Today(q.Clock))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, classifyDBError(err, "recent_meetings")
	}
	var rows []m.MeetingModel
	if err := base.Session(&gorm.Session{}).
		Order("meeting_date DESC, meeting_time DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, classifyDBError(err, "recent_meetings")
	}
	return rows, total, nil
}

func (q *QueryService) SeriesMeetings(ctx context.Context, meetingID uuid.UUID) ([]m.MeetingModel, error) {
	mt, err := q.Meetings.GetMeeting(q.db(ctx), meetingID)
	if err != nil {
		return nil, classifyDBError(err, "series_meetings")
	}
	rows, err := q.Meetings.SeriesMembers(q.db(ctx), mt.Ref().RootID)
	if err != nil {
		return nil, classifyDBError(err, "series_meetings")
	}
	return rows, nil
}

type AttendanceReport struct {
	Meeting m.MeetingModel             `json:"meeting"`
	Records []m.MeetingAttendanceModel `json:"records"`
	Counts  map[string]int             `json:"counts"`
}

func (q *QueryService) AttendanceReport(ctx context.Context, meetingID uuid.UUID) (*AttendanceReport, error) {
	mt, err := q.Meetings.GetMeeting(q.db(ctx), meetingID)
	if err != nil {
		return nil, classifyDBError(err, "attendance_report")
	}
	recs, err := q.Attendance.ListForMeeting(q.db(ctx), meetingID)
	if err != nil {
		return nil, classifyDBError(err, "attendance_report")
	}
	counts := map[string]int{
		string(m.AttendancePresent): 0,
		string(m.AttendanceAbsent):  0,
		string(m.AttendanceExcused): 0,
	}
	for _, r := range recs {
		counts[string(r.MeetingAttendanceStatus)]++
	}
	return &AttendanceReport{Meeting: *mt, Records: recs, Counts: counts}, nil
}

type Dashboard struct {
	AreaID           uuid.UUID      `json:"area_id"`
	Today            string         `json:"today"`
	MeetingsByStatus map[string]int `json:"meetings_by_status"`
	UpcomingCount    int64          `json:"upcoming_count"`
	SeriesCount      int64          `json:"series_count"`
	AttendanceCounts map[string]int `json:"attendance_counts"`
	PresentRate      float64        `json:"present_rate"`
	NextMeetingDate  *string        `json:"next_meeting_date,omitempty"`
	LastMeetingDate  *string        `json:"last_meeting_date,omitempty"`
}

type statusCount struct {
	Status string `gorm:"column:status"`
	Total  int    `gorm:"column:total"`
}

func (q *QueryService) Dashboard(ctx context.Context, areaID uuid.UUID) (*Dashboard, error) {
	const op = "dashboard"
	today := dbtime.Today(q.Clock)
	db := q.db(ctx)

	out := &Dashboard{
		AreaID:           areaID,
		Today:            dbtime.FormatDate(today),
		MeetingsByStatus: map[string]int{},
		AttendanceCounts: map[string]int{},
	}

	var byStatus []statusCount
	if err := db.Model(&m.MeetingModel{}).
		Select("meeting_status AS status, COUNT(*) AS total").
		Where("meeting_area_id = ?", areaID).
		Group("meeting_status").
		Scan(&byStatus).Error; err != nil {
		return nil, classifyDBError(err, op)
	}
	for _, s := range byStatus {
		out.MeetingsByStatus[s.Status] = s.Total
	}

	if err := db.Model(&m.MeetingModel{}).
		Where("meeting_area_id = ? AND meeting_date > ? AND meeting_status = ?", areaID, today, m.MeetingScheduled).
		Count(&out.UpcomingCount).Error; err != nil {
		return nil, classifyDBError(err, op)
	}
	if err := db.Model(&m.MeetingModel{}).
		Where("meeting_area_id = ? AND meeting_parent_id IS NULL", areaID).
		Count(&out.SeriesCount).Error; err != nil {
		return nil, classifyDBError(err, op)
	}

	// absensi untuk meeting yang sudah lewat / hari ini
	var att []statusCount
	if err := db.Table("meeting_attendances AS a").
		Select("a.meeting_attendance_status AS status, COUNT(*) AS total").
		Joins("JOIN meetings mt ON mt.meeting_id = a.meeting_attendance_meeting_id").
		Where("mt.meeting_area_id = ? AND mt.meeting_date <= ?", areaID, today).
		Group("a.meeting_attendance_status").
		Scan(&att).Error; err != nil {
		return nil, classifyDBError(err, op)
	}
	marked := 0
	for _, s := range att {
		out.AttendanceCounts[s.Status] = s.Total
		marked += s.Total
	}
	if marked > 0 {
		out.PresentRate = float64(out.AttendanceCounts[string(m.AttendancePresent)]) / float64(marked)
	}

	// belum ada rapat mendatang bukan error untuk dashboard
	next, err := q.NextMeeting(ctx, areaID)
	switch {
	case err == nil:
		s := dbtime.FormatDate(next.MeetingDate)
		out.NextMeetingDate = &s
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}
	rows, _, err := q.RecentMeetings(ctx, areaID, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		s := dbtime.FormatDate(rows[0].MeetingDate)
		out.LastMeetingDate = &s
	}
	return out, nil
}

// SeriesAudit: log audit seri (termasuk root lama hasil reroot).
func (q *QueryService) SeriesAudit(ctx context.Context, meetingID uuid.UUID, limit int) ([]m.MeetingAuditLogModel, error) {
	mt, err := q.Meetings.GetMeeting(q.db(ctx), meetingID)
	if err != nil {
		return nil, classifyDBError(err, "series_audit")
	}
	rootIDs := []uuid.UUID{mt.Ref().RootID}

	// root lama tercatat di payload reroot
	var reroots []m.MeetingAuditLogModel
	if err := q.db(ctx).
		Where("meeting_audit_log_root_id = ? AND meeting_audit_log_action = ?", mt.Ref().RootID, m.AuditReroot).
		Find(&reroots).Error; err != nil {
		return nil, classifyDBError(err, "series_audit")
	}
	for _, a := range reroots {
		if old, ok := oldRootFromPayload(a); ok {
			rootIDs = append(rootIDs, old)
		}
	}

	rows, err := q.Audit.ListForRoots(q.db(ctx), rootIDs, limit)
	if err != nil {
		return nil, classifyDBError(err, "series_audit")
	}
	return rows, nil
}

func oldRootFromPayload(a m.MeetingAuditLogModel) (uuid.UUID, bool) {
	var p struct {
		OldRootID string `json:"old_root_id"`
	}
	if len(a.MeetingAuditLogPayload) == 0 {
		return uuid.Nil, false
	}
	if err := json.Unmarshal(a.MeetingAuditLogPayload, &p); err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(p.OldRootID)
	return id, err == nil
}
