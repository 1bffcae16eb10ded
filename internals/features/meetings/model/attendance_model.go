// file: internals/features/meetings/model/attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

// Satu record per (meeting, user). Tidak ada record = belum ditandai.
type MeetingAttendanceModel struct {
	MeetingAttendanceMeetingID uuid.UUID `gorm:"type:uuid;primaryKey;column:meeting_attendance_meeting_id" json:"meeting_attendance_meeting_id"`
	MeetingAttendanceUserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:meeting_attendance_user_id" json:"meeting_attendance_user_id"`

	MeetingAttendanceStatus AttendanceStatus `gorm:"type:varchar(16);not null;column:meeting_attendance_status" json:"meeting_attendance_status"`
	MeetingAttendanceReason *string          `gorm:"type:text;column:meeting_attendance_reason" json:"meeting_attendance_reason,omitempty"`

	MeetingAttendanceMarkedAt time.Time `gorm:"not null;column:meeting_attendance_marked_at" json:"meeting_attendance_marked_at"`
	MeetingAttendanceMarkedBy uuid.UUID `gorm:"type:uuid;not null;column:meeting_attendance_marked_by" json:"meeting_attendance_marked_by"`

	Meeting *MeetingModel `gorm:"foreignKey:MeetingAttendanceMeetingID;references:MeetingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MeetingAttendanceModel) TableName() string { return "meeting_attendances" }
