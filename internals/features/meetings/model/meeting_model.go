// file: internals/features/meetings/model/meeting_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enum
========================= */

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingScheduled, MeetingCompleted, MeetingCancelled:
		return true
	}
	return false
}

const (
	DefaultLocation = "Masjid"
	DefaultAgenda   = "Rapat rutin pengurus"
)

/* =========================
   Model: MeetingModel
   parent_id NULL → root seri; selain itu → id root
========================= */

type MeetingModel struct {
	MeetingID uuid.UUID `gorm:"type:uuid;primaryKey;column:meeting_id" json:"meeting_id"`

	// Area (unit organisasi pemilik)
	MeetingAreaID uuid.UUID `gorm:"type:uuid;not null;column:meeting_area_id;uniqueIndex:uq_meetings_area_date_time,priority:1" json:"meeting_area_id"`

	// Slot
	MeetingDate time.Time `gorm:"type:date;not null;column:meeting_date;uniqueIndex:uq_meetings_area_date_time,priority:2;index:idx_meetings_parent_date,priority:2" json:"meeting_date"`
	MeetingTime string    `gorm:"type:varchar(5);not null;column:meeting_time;uniqueIndex:uq_meetings_area_date_time,priority:3" json:"meeting_time"`

	MeetingLocation string        `gorm:"type:text;not null;column:meeting_location" json:"meeting_location"`
	MeetingAgenda   string        `gorm:"type:text;not null;column:meeting_agenda" json:"meeting_agenda"`
	MeetingStatus   MeetingStatus `gorm:"type:varchar(16);not null;default:'scheduled';column:meeting_status" json:"meeting_status"`

	// Seri
	MeetingParentID *uuid.UUID `gorm:"type:uuid;column:meeting_parent_id;index:idx_meetings_parent_date,priority:1" json:"meeting_parent_id,omitempty"`

	// Audit
	MeetingCreatedBy uuid.UUID `gorm:"type:uuid;not null;column:meeting_created_by" json:"meeting_created_by"`
	MeetingCreatedAt time.Time `gorm:"column:meeting_created_at;autoCreateTime" json:"meeting_created_at"`
	MeetingUpdatedAt time.Time `gorm:"column:meeting_updated_at;autoUpdateTime" json:"meeting_updated_at"`
}

func (MeetingModel) TableName() string { return "meetings" }

func (m *MeetingModel) BeforeCreate(tx *gorm.DB) error {
	if m.MeetingID == uuid.Nil {
		m.MeetingID = uuid.New()
	}
	if m.MeetingStatus == "" {
		m.MeetingStatus = MeetingScheduled
	}
	return nil
}

func (m *MeetingModel) IsRoot() bool {
	return m.MeetingParentID == nil || *m.MeetingParentID == uuid.Nil
}

// Ref mengembalikan posisi meeting di dalam seri (root atau child).
func (m *MeetingModel) Ref() SeriesRef {
	if m.IsRoot() {
		return SeriesRef{MeetingID: m.MeetingID, RootID: m.MeetingID}
	}
	return SeriesRef{MeetingID: m.MeetingID, RootID: *m.MeetingParentID}
}
