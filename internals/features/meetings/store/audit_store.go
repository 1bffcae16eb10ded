package store

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	m "masjidku_meetings/internals/features/meetings/model"
)

type AuditStore struct{}

func NewAuditStore() *AuditStore { return &AuditStore{} }

func (s *AuditStore) Record(
	tx *gorm.DB,
	action m.AuditAction,
	actor, rootID uuid.UUID,
	meetingIDs []uuid.UUID,
	payload any,
) error {
	if meetingIDs == nil {
		meetingIDs = []uuid.UUID{}
	}
	ids, err := json.Marshal(meetingIDs)
	if err != nil {
		return err
	}
	row := m.MeetingAuditLogModel{
		MeetingAuditLogAction:     action,
		MeetingAuditLogActorID:    actor,
		MeetingAuditLogRootID:     rootID,
		MeetingAuditLogMeetingIDs: datatypes.JSON(ids),
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		row.MeetingAuditLogPayload = datatypes.JSON(b)
	}
	return tx.Create(&row).Error
}

// ListForRoots: audit seri (root lama ikut, karena root bisa berpindah saat reroot).
func (s *AuditStore) ListForRoots(db *gorm.DB, rootIDs []uuid.UUID, limit int) ([]m.MeetingAuditLogModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []m.MeetingAuditLogModel
	err := db.Where("meeting_audit_log_root_id IN ?", rootIDs).
		Order("meeting_audit_log_created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
