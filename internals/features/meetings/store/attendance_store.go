// file: internals/features/meetings/store/attendance_store.go
package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	m "masjidku_meetings/internals/features/meetings/model"
)

type AttendanceStore struct{}

func NewAttendanceStore() *AttendanceStore { return &AttendanceStore{} }

// Upsert: satu statement INSERT ... ON CONFLICT DO UPDATE, tanpa read-then-write.
func (s *AttendanceStore) Upsert(
	tx *gorm.DB,
	meetingID, userID uuid.UUID,
	status m.AttendanceStatus,
	reason *string,
	markedBy uuid.UUID,
	markedAt time.Time,
) (*m.MeetingAttendanceModel, error) {
	row := m.MeetingAttendanceModel{
		MeetingAttendanceMeetingID: meetingID,
		MeetingAttendanceUserID:    userID,
		MeetingAttendanceStatus:    status,
		MeetingAttendanceReason:    reason,
		MeetingAttendanceMarkedAt:  markedAt,
		MeetingAttendanceMarkedBy:  markedBy,
	}
	err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "meeting_attendance_meeting_id"},
			{Name: "meeting_attendance_user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"meeting_attendance_status",
			"meeting_attendance_reason",
			"meeting_attendance_marked_at",
			"meeting_attendance_marked_by",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *AttendanceStore) DeleteByMeetingIDs(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.Where("meeting_attendance_meeting_id IN ?", ids).Delete(&m.MeetingAttendanceModel{})
	return res.RowsAffected, res.Error
}

// FindForUser: nil, nil kalau belum ada record.
func (s *AttendanceStore) FindForUser(tx *gorm.DB, meetingID, userID uuid.UUID) (*m.MeetingAttendanceModel, error) {
	var rows []m.MeetingAttendanceModel
	if err := tx.Where("meeting_attendance_meeting_id = ? AND meeting_attendance_user_id = ?", meetingID, userID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *AttendanceStore) ListForMeeting(tx *gorm.DB, meetingID uuid.UUID) ([]m.MeetingAttendanceModel, error) {
	var rows []m.MeetingAttendanceModel
	err := tx.Where("meeting_attendance_meeting_id = ?", meetingID).
		Order("meeting_attendance_marked_at ASC").
		Find(&rows).Error
	return rows, err
}
