// file: internals/features/meetings/service/series_service.go
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"masjidku_meetings/internals/configs"
	m "masjidku_meetings/internals/features/meetings/model"
	"masjidku_meetings/internals/features/meetings/store"
	"masjidku_meetings/internals/helpers/dbtime"
)

/* =========================
   Service & Constructor
========================= */

type SeriesService struct {
	DB         *gorm.DB
	Meetings   *store.MeetingStore
	Attendance *store.AttendanceStore
	Audit      *store.AuditStore
	Horizon    *HorizonService
	Authz      Authorizer
	Clock      dbtime.Clock
	MinFuture  int

	tx *txRunner
}

func NewSeriesService(db *gorm.DB, cfg configs.EngineConfig, authz Authorizer, clock dbtime.Clock) *SeriesService {
	ms := store.NewMeetingStore()
	if authz == nil {
		authz = ClaimsAuthorizer{}
	}
	if clock == nil {
		clock = dbtime.SystemClock{Location: dbtime.LoadLocation(cfg.Timezone)}
	}
	minFuture := cfg.MinFuture
	if minFuture <= 0 {
		minFuture = 2
	}
	return &SeriesService{
		DB:         db,
		Meetings:   ms,
		Attendance: store.NewAttendanceStore(),
		Audit:      store.NewAuditStore(),
		Horizon:    NewHorizonService(ms, cfg.Policy),
		Authz:      authz,
		Clock:      clock,
		MinFuture:  minFuture,
		tx:         &txRunner{DB: db, Meetings: ms, LockTimeout: cfg.LockTimeout},
	}
}

func (s *SeriesService) today() time.Time { return dbtime.Today(s.Clock) }

/* =========================
   Create
========================= */

type CreateSeriesInput struct {
	Date     string
	Time     string
	Location *string
	Agenda   *string
	AreaID   uuid.UUID
}

type CreateSeriesResult struct {
	Root    m.MeetingModel `json:"root"`
	Horizon HorizonResult  `json:"horizon"`
}

func (s *SeriesService) CreateSeries(ctx context.Context, in CreateSeriesInput, r Requester) (*CreateSeriesResult, error) {
	const op = "create_series"

	if in.AreaID == uuid.Nil {
		return nil, newError(ErrValidation, "area_id wajib diisi")
	}
	date, err := dbtime.ParseDate(in.Date)
	if err != nil {
		return nil, wrapError(ErrValidation, err, "tanggal tidak valid")
	}
	tod, err := dbtime.NormalizeTOD(in.Time)
	if err != nil {
		return nil, wrapError(ErrValidation, err, "jam tidak valid")
	}
	if err := requireOrganizer(ctx, s.Authz, r, in.AreaID); err != nil {
		return nil, err
	}

	today := s.today()
	root := m.MeetingModel{
		MeetingAreaID:    in.AreaID,
		MeetingDate:      date,
		MeetingTime:      tod,
		MeetingLocation:  textOrDefault(in.Location, m.DefaultLocation),
		MeetingAgenda:    textOrDefault(in.Agenda, m.DefaultAgenda),
		MeetingStatus:    m.MeetingScheduled,
		MeetingCreatedBy: r.UserID,
	}

	var out CreateSeriesResult
	err = s.tx.inTx(ctx, op, func(tx *gorm.DB) error {
		if err := lockSlot(tx, in.AreaID, date, tod); err != nil {
			return err
		}
		exists, err := s.Meetings.ExistsAt(tx, in.AreaID, date, tod, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return newError(ErrDuplicateMeeting, "sudah ada rapat pada %s %s", dbtime.FormatDate(date), tod)
		}
		if _, err := s.Meetings.InsertOne(tx, &root); err != nil {
			return err
		}
		hr, err := s.Horizon.EnsureFutureMeetings(tx, &root, s.MinFuture, today)
		if err != nil {
			return err
		}
		out = CreateSeriesResult{Root: root, Horizon: hr}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("root_id", root.MeetingID.String()).
		Str("area_id", in.AreaID.String()).
		Str("date", dbtime.FormatDate(date)).
		Int("generated", out.Horizon.CreatedCount).
		Msg("[SERIES] seri rapat dibuat")
	return &out, nil
}

/* =========================
   Mark attendance
========================= */

type MarkAttendanceInput struct {
	MeetingID uuid.UUID
	UserID    uuid.UUID
	Status    string
	Reason    *string
}

type MarkAttendanceResult struct {
	Record         m.MeetingAttendanceModel `json:"record"`
	PreviousStatus *m.AttendanceStatus      `json:"previous_status,omitempty"` // nil = record baru
	Horizon        HorizonResult            `json:"horizon"`
	NextMeeting    *m.MeetingModel          `json:"next_meeting,omitempty"`
}

func (s *SeriesService) MarkAttendance(ctx context.Context, in MarkAttendanceInput, r Requester) (*MarkAttendanceResult, error) {
	const op = "mark_attendance"

	status := m.AttendanceStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !status.Valid() {
		return nil, newError(ErrValidation, "status kehadiran harus present, absent, atau excused")
	}
	reason := trimPtr(in.Reason)
	if status == m.AttendanceExcused && reason == nil {
		return nil, newError(ErrValidation, "alasan wajib diisi untuk status excused")
	}
	userID := in.UserID
	if userID == uuid.Nil {
		userID = r.UserID
	}
	if userID == uuid.Nil || r.UserID == uuid.Nil {
		return nil, newError(ErrAccessDenied, "requester tidak dikenal")
	}

	today := s.today()
	markedAt := s.Clock.Now().UTC()

	var out MarkAttendanceResult
	err := s.tx.withMeetingLock(ctx, op, in.MeetingID, func(tx *gorm.DB, ls lockedSeries) error {
		// pengurus boleh menandai orang lain, anggota hanya dirinya sendiri
		if userID != r.UserID {
			if err := requireOrganizer(ctx, s.Authz, r, ls.Target.MeetingAreaID); err != nil {
				return err
			}
		}

		// baris meeting sudah di-lock, jadi record lama stabil sampai upsert
		prev, err := s.Attendance.FindForUser(tx, ls.Target.MeetingID, userID)
		if err != nil {
			return err
		}
		rec, err := s.Attendance.Upsert(tx, ls.Target.MeetingID, userID, status, reason, r.UserID, markedAt)
		if err != nil {
			return err
		}
		hr, err := s.Horizon.EnsureFutureMeetings(tx, ls.Target, s.MinFuture, today)
		if err != nil {
			return err
		}
		next, err := s.Meetings.NextUnmarked(tx, ls.RootID(), userID, today, ls.Target.MeetingID)
		if err != nil {
			return err
		}
		out = MarkAttendanceResult{Record: *rec, Horizon: hr, NextMeeting: next}
		if prev != nil {
			ps := prev.MeetingAttendanceStatus
			out.PreviousStatus = &ps
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================
   Update
========================= */

type UpdateMeetingInput struct {
	MeetingID         uuid.UUID
	Date              *string
	Time              *string
	Location          *string
	Agenda            *string
	Status            *string
	PropagateToSeries bool
}

type UpdateMeetingResult struct {
	Meeting         m.MeetingModel `json:"meeting"`
	ChangedFields   []string       `json:"changed_fields"`
	PropagatedCount int64          `json:"propagated_count"`
}

// kolom yang boleh dipropagasi ke child (tanggal tidak pernah ikut)
var propagatableColumns = map[string]bool{
	"meeting_time":     true,
	"meeting_location": true,
	"meeting_agenda":   true,
}

func (s *SeriesService) UpdateMeeting(ctx context.Context, in UpdateMeetingInput, r Requester) (*UpdateMeetingResult, error) {
	const op = "update_meeting"

	// parse dulu di luar transaksi
	var (
		newDate   *time.Time
		newTime   *string
		newStatus *m.MeetingStatus
	)
	if in.Date != nil {
		d, err := dbtime.ParseDate(*in.Date)
		if err != nil {
			return nil, wrapError(ErrValidation, err, "tanggal tidak valid")
		}
		newDate = &d
	}
	if in.Time != nil {
		t, err := dbtime.NormalizeTOD(*in.Time)
		if err != nil {
			return nil, wrapError(ErrValidation, err, "jam tidak valid")
		}
		newTime = &t
	}
	if in.Status != nil {
		st := m.MeetingStatus(strings.ToLower(strings.TrimSpace(*in.Status)))
		if !st.Valid() {
			return nil, newError(ErrValidation, "status harus scheduled, completed, atau cancelled")
		}
		newStatus = &st
	}
	if in.Location != nil && strings.TrimSpace(*in.Location) == "" {
		return nil, newError(ErrValidation, "lokasi tidak boleh kosong")
	}
	if in.Agenda != nil && strings.TrimSpace(*in.Agenda) == "" {
		return nil, newError(ErrValidation, "agenda tidak boleh kosong")
	}

	today := s.today()

	var out UpdateMeetingResult
	err := s.tx.withMeetingLock(ctx, op, in.MeetingID, func(tx *gorm.DB, ls lockedSeries) error {
		cur := ls.Target
		if err := requireOrganizer(ctx, s.Authz, r, cur.MeetingAreaID); err != nil {
			return err
		}

		// hanya field yang benar-benar berubah
		changes := map[string]any{}
		if newDate != nil && !newDate.Equal(dbtime.CanonicalDate(cur.MeetingDate)) {
			changes["meeting_date"] = *newDate
		}
		if newTime != nil && *newTime != cur.MeetingTime {
			changes["meeting_time"] = *newTime
		}
		if in.Location != nil && strings.TrimSpace(*in.Location) != cur.MeetingLocation {
			changes["meeting_location"] = strings.TrimSpace(*in.Location)
		}
		if in.Agenda != nil && strings.TrimSpace(*in.Agenda) != cur.MeetingAgenda {
			changes["meeting_agenda"] = strings.TrimSpace(*in.Agenda)
		}
		if newStatus != nil && *newStatus != cur.MeetingStatus {
			changes["meeting_status"] = *newStatus
		}
		if len(changes) == 0 {
			return newError(ErrNoChanges, "tidak ada perubahan")
		}

		// slot baru tidak boleh bentrok
		_, dateChanged := changes["meeting_date"]
		_, timeChanged := changes["meeting_time"]
		if dateChanged || timeChanged {
			date := dbtime.CanonicalDate(cur.MeetingDate)
			if newDate != nil {
				date = *newDate
			}
			tod := cur.MeetingTime
			if newTime != nil {
				tod = *newTime
			}
			exists, err := s.Meetings.ExistsAt(tx, cur.MeetingAreaID, date, tod, cur.MeetingID)
			if err != nil {
				return err
			}
			if exists {
				return newError(ErrDuplicateMeeting, "sudah ada rapat pada %s %s", dbtime.FormatDate(date), tod)
			}
		}

		if _, err := s.Meetings.UpdateFields(tx, cur.MeetingID, changes); err != nil {
			return err
		}

		var propagated int64
		if in.PropagateToSeries && cur.IsRoot() {
			fields := map[string]any{}
			for k, v := range changes {
				if propagatableColumns[k] {
					fields[k] = v
				}
			}
			n, err := s.Meetings.UpdateFutureChildren(tx, cur.MeetingID, today, fields)
			if err != nil {
				return err
			}
			propagated = n
		}

		changed := make([]string, 0, len(changes))
		for k := range changes {
			changed = append(changed, k)
		}
		sort.Strings(changed)

		if err := s.Audit.Record(tx, m.AuditUpdate, r.UserID, ls.RootID(), []uuid.UUID{cur.MeetingID}, map[string]any{
			"changes":          changes,
			"propagate":        in.PropagateToSeries,
			"propagated_count": propagated,
		}); err != nil {
			return err
		}

		fresh, err := s.Meetings.GetMeeting(tx, cur.MeetingID)
		if err != nil {
			return err
		}
		out = UpdateMeetingResult{Meeting: *fresh, ChangedFields: changed, PropagatedCount: propagated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================
   Delete
========================= */

type DeleteMeetingInput struct {
	MeetingID    uuid.UUID
	DeleteSeries bool
}

type DeleteMeetingResult struct {
	DeletedMeetingIDs      []uuid.UUID `json:"deleted_meeting_ids"`
	DeletedAttendanceCount int64       `json:"deleted_attendance_count"`
	NewRootID              *uuid.UUID  `json:"new_root_id,omitempty"`
}

func (s *SeriesService) DeleteMeeting(ctx context.Context, in DeleteMeetingInput, r Requester) (*DeleteMeetingResult, error) {
	const op = "delete_meeting"
	today := s.today()

	var out DeleteMeetingResult
	err := s.tx.withMeetingLock(ctx, op, in.MeetingID, func(tx *gorm.DB, ls lockedSeries) error {
		target := ls.Target
		if err := requireOrganizer(ctx, s.Authz, r, target.MeetingAreaID); err != nil {
			return err
		}

		var siblings []uuid.UUID
		if in.DeleteSeries {
			ids, err := s.Meetings.LockSeriesFrom(tx, ls.RootID(), today, target.MeetingID)
			if err != nil {
				return err
			}
			siblings = ids
		}

		deleted := make(map[uuid.UUID]bool, len(siblings)+1)
		for _, id := range siblings {
			deleted[id] = true
		}
		deleted[target.MeetingID] = true

		// root ikut terhapus tapi masih ada child lampau → promosikan child paling awal
		var newRoot *uuid.UUID
		if deleted[ls.RootID()] {
			members, err := s.Meetings.SeriesMembers(tx, ls.RootID())
			if err != nil {
				return err
			}
			for _, mm := range members {
				if !deleted[mm.MeetingID] {
					id := mm.MeetingID
					newRoot = &id
					break
				}
			}
			if newRoot != nil {
				if _, err := s.Meetings.Reparent(tx, ls.RootID(), *newRoot); err != nil {
					return err
				}
			}
		}

		// urutan: absensi sibling → sibling → absensi target → target
		var attCount int64
		if len(siblings) > 0 {
			n, err := s.Attendance.DeleteByMeetingIDs(tx, siblings)
			if err != nil {
				return err
			}
			attCount += n
			if _, err := s.Meetings.DeleteMany(tx, siblings); err != nil {
				return err
			}
		}
		n, err := s.Attendance.DeleteByMeetingIDs(tx, []uuid.UUID{target.MeetingID})
		if err != nil {
			return err
		}
		attCount += n
		if _, err := s.Meetings.DeleteMany(tx, []uuid.UUID{target.MeetingID}); err != nil {
			return err
		}

		ids := append(append([]uuid.UUID{}, siblings...), target.MeetingID)
		payload := map[string]any{
			"delete_series":    in.DeleteSeries,
			"attendance_count": attCount,
		}
		if newRoot != nil {
			payload["new_root_id"] = newRoot.String()
		}
		if err := s.Audit.Record(tx, m.AuditDelete, r.UserID, ls.RootID(), ids, payload); err != nil {
			return err
		}
		if newRoot != nil {
			if err := s.Audit.Record(tx, m.AuditReroot, r.UserID, *newRoot, []uuid.UUID{*newRoot}, map[string]any{
				"old_root_id": ls.RootID().String(),
			}); err != nil {
				return err
			}
		}

		out = DeleteMeetingResult{DeletedMeetingIDs: ids, DeletedAttendanceCount: attCount, NewRootID: newRoot}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("meeting_id", in.MeetingID.String()).
		Bool("series", in.DeleteSeries).
		Int("meetings", len(out.DeletedMeetingIDs)).
		Int64("attendance", out.DeletedAttendanceCount).
		Msg("[SERIES] meeting dihapus")
	return &out, nil
}

/* =========================
   Horizon (manual & sweep)
========================= */

func (s *SeriesService) EnsureHorizon(ctx context.Context, meetingID uuid.UUID, r Requester) (*HorizonResult, error) {
	const op = "ensure_horizon"
	today := s.today()

	var out HorizonResult
	err := s.tx.withMeetingLock(ctx, op, meetingID, func(tx *gorm.DB, ls lockedSeries) error {
		if err := requireOrganizer(ctx, s.Authz, r, ls.Target.MeetingAreaID); err != nil {
			return err
		}
		hr, err := s.Horizon.EnsureFutureMeetings(tx, ls.Target, s.MinFuture, today)
		if err != nil {
			return err
		}
		out = hr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type SweepSummary struct {
	SeriesVisited   int `json:"series_visited"`
	MeetingsCreated int `json:"meetings_created"`
	Failures        int `json:"failures"`
}

// SweepHorizons: top-up horizon semua seri aktif, satu transaksi per seri.
func (s *SeriesService) SweepHorizons(ctx context.Context) (SweepSummary, error) {
	var sum SweepSummary
	roots, err := s.Meetings.ActiveRootIDs(s.DB.WithContext(ctx))
	if err != nil {
		return sum, classifyDBError(err, "sweep_horizons")
	}
	today := s.today()

	for _, rootID := range roots {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		sum.SeriesVisited++
		created := 0
		err := s.tx.withSeriesLock(ctx, "sweep_horizons", rootID, func(tx *gorm.DB, root *m.MeetingModel) error {
			hr, err := s.Horizon.EnsureFutureMeetings(tx, root, s.MinFuture, today)
			if err != nil {
				return err
			}
			created = hr.CreatedCount
			return nil
		})
		if err != nil {
			sum.Failures++
			log.Warn().Err(err).Str("root_id", rootID.String()).Msg("[SWEEP] gagal top-up horizon")
			continue
		}
		sum.MeetingsCreated += created
	}
	return sum, nil
}

/* =========================
   Helpers
========================= */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func textOrDefault(s *string, def string) string {
	if v := trimPtr(s); v != nil {
		return *v
	}
	return def
}
