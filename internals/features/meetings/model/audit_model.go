package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditReroot AuditAction = "reroot"
)

type MeetingAuditLogModel struct {
	MeetingAuditLogID         uuid.UUID      `gorm:"type:uuid;primaryKey;column:meeting_audit_log_id" json:"meeting_audit_log_id"`
	MeetingAuditLogAction     AuditAction    `gorm:"type:varchar(16);not null;column:meeting_audit_log_action" json:"meeting_audit_log_action"`
	MeetingAuditLogActorID    uuid.UUID      `gorm:"type:uuid;not null;column:meeting_audit_log_actor_id" json:"meeting_audit_log_actor_id"`
	MeetingAuditLogRootID     uuid.UUID      `gorm:"type:uuid;not null;index;column:meeting_audit_log_root_id" json:"meeting_audit_log_root_id"`
	MeetingAuditLogMeetingIDs datatypes.JSON `gorm:"column:meeting_audit_log_meeting_ids" json:"meeting_audit_log_meeting_ids"`
	MeetingAuditLogPayload    datatypes.JSON `gorm:"column:meeting_audit_log_payload" json:"meeting_audit_log_payload,omitempty"`
	MeetingAuditLogCreatedAt  time.Time      `gorm:"column:meeting_audit_log_created_at;autoCreateTime" json:"meeting_audit_log_created_at"`
}

func (MeetingAuditLogModel) TableName() string { return "meeting_audit_logs" }

func (a *MeetingAuditLogModel) BeforeCreate(tx *gorm.DB) error {
	if a.MeetingAuditLogID == uuid.Nil {
		a.MeetingAuditLogID = uuid.New()
	}
	return nil
}

// All model yang dimigrasi fitur meetings.
func All() []any {
	return []any{&MeetingModel{}, &MeetingAttendanceModel{}, &MeetingAuditLogModel{}}
}
