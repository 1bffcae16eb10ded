// file: internals/features/meetings/store/meeting_store.go
package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	m "masjidku_meetings/internals/features/meetings/model"
)

const insertBatchSize = 100

// MeetingStore: semua operasi jalan di dalam tx milik pemanggil.
type MeetingStore struct{}

func NewMeetingStore() *MeetingStore { return &MeetingStore{} }

func inSeries(db *gorm.DB, rootID uuid.UUID) *gorm.DB {
	return db.Where("(meeting_id = ? OR meeting_parent_id = ?)", rootID, rootID)
}

// LockMeeting: SELECT ... FOR UPDATE. gorm.ErrRecordNotFound kalau tidak ada.
func (s *MeetingStore) LockMeeting(tx *gorm.DB, id uuid.UUID) (*m.MeetingModel, error) {
	var row m.MeetingModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("meeting_id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetMeeting: baca tanpa lock.
func (s *MeetingStore) GetMeeting(tx *gorm.DB, id uuid.UUID) (*m.MeetingModel, error) {
	var row m.MeetingModel
	if err := tx.Where("meeting_id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CountFutureScheduled menghitung occurrence scheduled dengan date > since.
// Baris yang cocok ikut di-lock (FOR UPDATE tidak boleh dengan agregat, jadi pluck id).
func (s *MeetingStore) CountFutureScheduled(tx *gorm.DB, rootID uuid.UUID, since time.Time) (int, error) {
	var ids []uuid.UUID
	err := inSeries(tx.Model(&m.MeetingModel{}).Clauses(clause.Locking{Strength: "UPDATE"}), rootID).
		Where("meeting_date > ? AND meeting_status = ?", since, m.MeetingScheduled).
		Pluck("meeting_id", &ids).Error
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// LatestDate: tanggal terbesar di seri.
func (s *MeetingStore) LatestDate(tx *gorm.DB, rootID uuid.UUID) (time.Time, error) {
	var row m.MeetingModel
	if err := inSeries(tx, rootID).
		Order("meeting_date DESC").
		Limit(1).
		Find(&row).Error; err != nil {
		return time.Time{}, err
	}
	if row.MeetingID == uuid.Nil {
		return time.Time{}, gorm.ErrRecordNotFound
	}
	return row.MeetingDate, nil
}

// ExistsAt cek slot (area, date, time). exclude boleh uuid.Nil.
func (s *MeetingStore) ExistsAt(tx *gorm.DB, areaID uuid.UUID, date time.Time, tod string, exclude uuid.UUID) (bool, error) {
	q := tx.Model(&m.MeetingModel{}).
		Where("meeting_area_id = ? AND meeting_date = ? AND meeting_time = ?", areaID, date, tod)
	if exclude != uuid.Nil {
		q = q.Where("meeting_id <> ?", exclude)
	}
	var n int64
	if err := q.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MeetingStore) InsertOne(tx *gorm.DB, row *m.MeetingModel) (uuid.UUID, error) {
	if err := tx.Create(row).Error; err != nil {
		return uuid.Nil, err
	}
	return row.MeetingID, nil
}

func (s *MeetingStore) InsertMany(tx *gorm.DB, rows []m.MeetingModel) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := tx.CreateInBatches(&rows, insertBatchSize)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// UpdateFields: partial update satu meeting.
func (s *MeetingStore) UpdateFields(tx *gorm.DB, id uuid.UUID, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	res := tx.Model(&m.MeetingModel{}).Where("meeting_id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

// UpdateFutureChildren: bulk update child dengan date > after.
func (s *MeetingStore) UpdateFutureChildren(tx *gorm.DB, rootID uuid.UUID, after time.Time, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	res := tx.Model(&m.MeetingModel{}).
		Where("meeting_parent_id = ? AND meeting_date > ?", rootID, after).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// LockSeriesFrom: id anggota seri dengan date >= from (kecuali exclude), di-lock.
func (s *MeetingStore) LockSeriesFrom(tx *gorm.DB, rootID uuid.UUID, from time.Time, exclude uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := inSeries(tx.Model(&m.MeetingModel{}).Clauses(clause.Locking{Strength: "UPDATE"}), rootID).
		Where("meeting_date >= ? AND meeting_id <> ?", from, exclude).
		Order("meeting_date ASC").
		Pluck("meeting_id", &ids).Error
	return ids, err
}

// SeriesMembers: seluruh anggota seri urut tanggal.
func (s *MeetingStore) SeriesMembers(tx *gorm.DB, rootID uuid.UUID) ([]m.MeetingModel, error) {
	var rows []m.MeetingModel
	err := inSeries(tx, rootID).Order("meeting_date ASC, meeting_time ASC").Find(&rows).Error
	return rows, err
}

// Reparent memindahkan child dari oldRoot ke newRoot; newRoot sendiri jadi root.
func (s *MeetingStore) Reparent(tx *gorm.DB, oldRoot, newRoot uuid.UUID) (int64, error) {
	if err := tx.Model(&m.MeetingModel{}).
		Where("meeting_id = ?", newRoot).
		Update("meeting_parent_id", nil).Error; err != nil {
		return 0, err
	}
	res := tx.Model(&m.MeetingModel{}).
		Where("meeting_parent_id = ?", oldRoot).
		Update("meeting_parent_id", newRoot)
	return res.RowsAffected, res.Error
}

func (s *MeetingStore) DeleteMany(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.Where("meeting_id IN ?", ids).Delete(&m.MeetingModel{})
	return res.RowsAffected, res.Error
}

// NextUnmarked: meeting terdekat (>= today, scheduled) yang belum ada absensi user tsb.
func (s *MeetingStore) NextUnmarked(tx *gorm.DB, rootID, userID uuid.UUID, today time.Time, exclude uuid.UUID) (*m.MeetingModel, error) {
	var rows []m.MeetingModel
	err := inSeries(tx, rootID).
		Where("meeting_date >= ? AND meeting_status = ? AND meeting_id <> ?", today, m.MeetingScheduled, exclude).
		Where("NOT EXISTS (SELECT 1 FROM meeting_attendances a WHERE a.meeting_attendance_meeting_id = meetings.meeting_id AND a.meeting_attendance_user_id = ?)", userID).
		Order("meeting_date ASC, meeting_time ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// ActiveRootIDs: root seri yang masih punya occurrence scheduled (untuk sweep).
func (s *MeetingStore) ActiveRootIDs(db *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Model(&m.MeetingModel{}).
		Where("meeting_parent_id IS NULL").
		Where(`EXISTS (SELECT 1 FROM meetings c
			WHERE (c.meeting_id = meetings.meeting_id OR c.meeting_parent_id = meetings.meeting_id)
			  AND c.meeting_status = ?)`, m.MeetingScheduled).
		Order("meeting_date ASC").
		Pluck("meeting_id", &ids).Error
	return ids, err
}
