// file: internals/features/meetings/service/tx.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	m "masjidku_meetings/internals/features/meetings/model"
	"masjidku_meetings/internals/features/meetings/store"
)

// lockedSeries: hasil resolve + lock di awal transaksi (urutan: root → target).
type lockedSeries struct {
	Root   *m.MeetingModel
	Target *m.MeetingModel
}

func (ls lockedSeries) RootID() uuid.UUID { return ls.Root.MeetingID }

// txRunner memusatkan disiplin transaksi + lock untuk semua operasi seri.
type txRunner struct {
	DB          *gorm.DB
	Meetings    *store.MeetingStore
	LockTimeout time.Duration
}

const maxResolveAttempts = 3

func isPostgres(tx *gorm.DB) bool {
	return tx.Dialector != nil && tx.Dialector.Name() == "postgres"
}

// inTx: buka transaksi, set lock_timeout (postgres), jalankan fn.
// Error apapun → rollback penuh lalu diklasifikasikan.
func (r *txRunner) inTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.LockTimeout > 0 && isPostgres(tx) {
			ms := r.LockTimeout.Milliseconds()
			if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ms)).Error; err != nil {
				return err
			}
		}
		return fn(tx)
	})
	return classifyDBError(err, op)
}

// withSeriesLock: transaksi + lock root seri.
func (r *txRunner) withSeriesLock(ctx context.Context, op string, rootID uuid.UUID, fn func(tx *gorm.DB, root *m.MeetingModel) error) error {
	return r.inTx(ctx, op, func(tx *gorm.DB) error {
		root, err := r.Meetings.LockMeeting(tx, rootID)
		if err != nil {
			return classifyDBError(err, op)
		}
		if !root.IsRoot() {
			return newError(ErrNotFound, "%s: %s bukan root seri", op, rootID)
		}
		return fn(tx, root)
	})
}

// withMeetingLock: resolve meeting → root efektif, lock root lalu target.
// Kalau seri di-reroot di antara baca & lock, resolve diulang.
func (r *txRunner) withMeetingLock(ctx context.Context, op string, meetingID uuid.UUID, fn func(tx *gorm.DB, ls lockedSeries) error) error {
	return r.inTx(ctx, op, func(tx *gorm.DB) error {
		ls, err := r.lockSeriesOf(tx, op, meetingID)
		if err != nil {
			return err
		}
		return fn(tx, ls)
	})
}

func (r *txRunner) lockSeriesOf(tx *gorm.DB, op string, meetingID uuid.UUID) (lockedSeries, error) {
	for attempt := 0; attempt < maxResolveAttempts; attempt++ {
		peek, err := r.Meetings.GetMeeting(tx, meetingID)
		if err != nil {
			return lockedSeries{}, classifyDBError(err, op)
		}
		ref := peek.Ref()

		root, err := r.Meetings.LockMeeting(tx, ref.RootID)
		if err != nil {
			if KindOf(classifyDBError(err, op)) == ErrNotFound {
				continue
			}
			return lockedSeries{}, classifyDBError(err, op)
		}
		if ref.IsRoot() {
			return lockedSeries{Root: root, Target: root}, nil
		}

		target, err := r.Meetings.LockMeeting(tx, meetingID)
		if err != nil {
			return lockedSeries{}, classifyDBError(err, op)
		}
		if target.Ref().RootID != root.MeetingID || !root.IsRoot() {
			continue
		}
		return lockedSeries{Root: root, Target: target}, nil
	}
	return lockedSeries{}, newError(ErrLockTimeout, "%s: seri berubah saat di-lock, coba lagi", op)
}

// lockSlot: advisory lock per (area, date, time) untuk create (belum ada baris untuk di-lock).
func lockSlot(tx *gorm.DB, areaID uuid.UUID, date time.Time, tod string) error {
	if !isPostgres(tx) {
		return nil
	}
	key := fmt.Sprintf("meeting-slot:%s:%s:%s", areaID, date.Format("2006-01-02"), tod)
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}
