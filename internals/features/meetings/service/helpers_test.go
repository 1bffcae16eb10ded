package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"masjidku_meetings/internals/configs"
	m "masjidku_meetings/internals/features/meetings/model"
	"masjidku_meetings/internals/helpers/dbtime"
	"masjidku_meetings/internals/testinfra"
)

type fixture struct {
	db     *gorm.DB
	clock  *dbtime.FixedClock
	series *SeriesService
	query  *QueryService
	area   uuid.UUID
	org    Requester
}

func day(s string) time.Time {
	d, err := dbtime.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// clock jam 09:00 UTC pada tanggal s
func at(s string) time.Time {
	return day(s).Add(9 * time.Hour)
}

func newFixture(t *testing.T, today string, mutate ...func(*configs.EngineConfig)) *fixture {
	t.Helper()
	db := testinfra.NewSQLiteDB(t)
	cfg := configs.DefaultEngineConfig()
	cfg.Timezone = "UTC"
	for _, fn := range mutate {
		fn(&cfg)
	}
	clock := dbtime.NewFixedClock(at(today))
	area := uuid.New()
	return &fixture{
		db:     db,
		clock:  clock,
		series: NewSeriesService(db, cfg, nil, clock),
		query:  NewQueryService(db, clock),
		area:   area,
		org:    Requester{UserID: uuid.New(), Role: "organizer", OrganizerAreas: []uuid.UUID{area}},
	}
}

func (f *fixture) member() Requester {
	return Requester{UserID: uuid.New(), Role: "member"}
}

func (f *fixture) setToday(s string) { f.clock.Set(at(s)) }

func (f *fixture) create(t *testing.T, date, tod string) *CreateSeriesResult {
	t.Helper()
	res, err := f.series.CreateSeries(context.Background(), CreateSeriesInput{
		Date:   date,
		Time:   tod,
		AreaID: f.area,
	}, f.org)
	if err != nil {
		t.Fatalf("CreateSeries(%s %s): %v", date, tod, err)
	}
	return res
}

func (f *fixture) members(t *testing.T, anyID uuid.UUID) []m.MeetingModel {
	t.Helper()
	rows, err := f.query.SeriesMeetings(context.Background(), anyID)
	if err != nil {
		t.Fatalf("SeriesMeetings: %v", err)
	}
	return rows
}

// meetingOn mencari anggota seri di tanggal tertentu.
func (f *fixture) meetingOn(t *testing.T, anyID uuid.UUID, date string) m.MeetingModel {
	t.Helper()
	for _, row := range f.members(t, anyID) {
		if dbtime.FormatDate(row.MeetingDate) == date {
			return row
		}
	}
	t.Fatalf("no meeting on %s", date)
	return m.MeetingModel{}
}

func (f *fixture) countMeetings(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&m.MeetingModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count meetings: %v", err)
	}
	return n
}

func dates(rows []m.MeetingModel) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, dbtime.FormatDate(r.MeetingDate))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func strPtr(s string) *string { return &s }
