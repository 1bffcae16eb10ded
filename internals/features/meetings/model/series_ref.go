package model

import "github.com/google/uuid"

// SeriesRef: meeting yang sudah di-resolve ke root efektifnya.
// Root → RootID == MeetingID; Child → RootID = parent_id.
type SeriesRef struct {
	MeetingID uuid.UUID
	RootID    uuid.UUID
}

func (r SeriesRef) IsRoot() bool { return r.MeetingID == r.RootID }
