// file: internals/features/meetings/service/horizon_service.go
package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"masjidku_meetings/internals/configs"
	m "masjidku_meetings/internals/features/meetings/model"
	"masjidku_meetings/internals/features/meetings/store"
	"masjidku_meetings/internals/helpers/dbtime"
)

// batas backfill supaya seri yang lama mati tidak meledak jadi ribuan baris
const maxBackfillWeeks = 104

type HorizonResult struct {
	RootID       uuid.UUID        `json:"root_id"`
	CreatedCount int              `json:"created_count"`
	Meetings     []m.MeetingModel `json:"meetings"`
}

// HorizonService menjaga minimal N occurrence scheduled di masa depan per seri.
type HorizonService struct {
	Meetings *store.MeetingStore
	Policy   configs.HorizonPolicy
}

func NewHorizonService(ms *store.MeetingStore, policy configs.HorizonPolicy) *HorizonService {
	if policy == "" {
		policy = configs.PolicyResume
	}
	return &HorizonService{Meetings: ms, Policy: policy}
}

// EnsureFutureMeetings: dipanggil di dalam tx yang sudah memegang lock root seri.
// Idempotent: tanpa aktivitas lain di antaranya, panggilan kedua membuat 0 meeting.
func (h *HorizonService) EnsureFutureMeetings(tx *gorm.DB, anyMeeting *m.MeetingModel, minFuture int, today time.Time) (HorizonResult, error) {
	const op = "ensure_future_meetings"
	ref := anyMeeting.Ref()
	res := HorizonResult{RootID: ref.RootID, Meetings: []m.MeetingModel{}}
	today = dbtime.CanonicalDate(today)

	// 1) Template = root
	template := anyMeeting
	if !ref.IsRoot() {
		t, err := h.Meetings.GetMeeting(tx, ref.RootID)
		if err != nil {
			return res, classifyDBError(err, op)
		}
		template = t
	}

	// 2) Hitung yang sudah ada (baris ikut di-lock)
	count, err := h.Meetings.CountFutureScheduled(tx, ref.RootID, today)
	if err != nil {
		return res, classifyDBError(err, op)
	}
	deficit := minFuture - count
	if deficit <= 0 {
		return res, nil
	}

	// 3) Base date
	latest, err := h.Meetings.LatestDate(tx, ref.RootID)
	if err != nil {
		return res, classifyDBError(err, op)
	}

	// 4) Kandidat + re-check slot.
	// Slot yang sudah dipakai seri lain di-skip, lalu maju seminggu lagi
	// sampai deficit terpenuhi (dibatasi maxBackfillWeeks langkah ekstra).
	rows := make([]m.MeetingModel, 0, deficit)
	free := func(d time.Time) (bool, error) {
		exists, err := h.Meetings.ExistsAt(tx, template.MeetingAreaID, d, template.MeetingTime, uuid.Nil)
		if err != nil {
			return false, err
		}
		if exists {
			log.Debug().
				Str("root_id", ref.RootID.String()).
				Str("date", dbtime.FormatDate(d)).
				Msg("[HORIZON] slot sudah terisi, skip")
		}
		return !exists, nil
	}
	add := func(d time.Time) {
		rootID := ref.RootID
		rows = append(rows, m.MeetingModel{
			MeetingAreaID:    template.MeetingAreaID,
			MeetingDate:      d,
			MeetingTime:      template.MeetingTime,
			MeetingLocation:  template.MeetingLocation,
			MeetingAgenda:    template.MeetingAgenda,
			MeetingStatus:    m.MeetingScheduled,
			MeetingParentID:  &rootID,
			MeetingCreatedBy: template.MeetingCreatedBy,
		})
	}

	// backfill: slot lampau tidak dihitung ke deficit
	for _, d := range h.missedSlots(latest, today) {
		ok, err := free(d)
		if err != nil {
			return res, classifyDBError(err, op)
		}
		if ok {
			add(d)
		}
	}

	first := h.firstFuture(latest, today)
	filled := 0
	for i := 0; filled < deficit && i < deficit+maxBackfillWeeks; i++ {
		d := dbtime.AddWeeks(first, i)
		ok, err := free(d)
		if err != nil {
			return res, classifyDBError(err, op)
		}
		if ok {
			add(d)
			filled++
		}
	}
	if filled < deficit {
		log.Warn().
			Str("root_id", ref.RootID.String()).
			Int("deficit", deficit).
			Int("filled", filled).
			Msg("[HORIZON] tidak cukup slot kosong dalam batas pencarian")
	}

	// 5) Bulk insert
	n, err := h.Meetings.InsertMany(tx, rows)
	if err != nil {
		return res, classifyDBError(err, op)
	}
	res.CreatedCount = n
	res.Meetings = rows

	if n > 0 {
		log.Info().
			Str("root_id", ref.RootID.String()).
			Int("existing", count).
			Int("created", n).
			Str("policy", string(h.Policy)).
			Msg("[HORIZON] occurrence baru dibuat")
	}
	return res, nil
}

// missedSlots: minggu yang terlewat antara latest dan today, hanya untuk backfill.
func (h *HorizonService) missedSlots(latest, today time.Time) []time.Time {
	out := []time.Time{}
	if h.Policy != configs.PolicyBackfill {
		return out
	}
	latest = dbtime.CanonicalDate(latest)
	for d, i := dbtime.AddWeeks(latest, 1), 0; !d.After(today) && i < maxBackfillWeeks; d, i = dbtime.AddWeeks(d, 1), i+1 {
		out = append(out, d)
	}
	return out
}

// firstFuture: slot masa depan pertama sesuai policy.
func (h *HorizonService) firstFuture(latest, today time.Time) time.Time {
	latest = dbtime.CanonicalDate(latest)
	switch h.Policy {
	case configs.PolicyAlign, configs.PolicyBackfill:
		return firstAlignedAfter(latest, today)
	default:
		return dbtime.AddWeeks(dbtime.MaxDate(latest, today), 1)
	}
}

// firstAlignedAfter: slot pertama latest + k minggu yang > today (k >= 1).
func firstAlignedAfter(latest, today time.Time) time.Time {
	if !latest.Before(today) {
		return dbtime.AddWeeks(latest, 1)
	}
	return dbtime.AddWeeks(latest, dbtime.WeeksBetween(latest, today)+1)
}
