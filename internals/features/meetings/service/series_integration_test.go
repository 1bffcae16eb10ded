//go:build integration

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"masjidku_meetings/internals/configs"
	database "masjidku_meetings/internals/databases"
	m "masjidku_meetings/internals/features/meetings/model"
	"masjidku_meetings/internals/helpers/dbtime"
	"masjidku_meetings/internals/testinfra"
)

func newPostgresFixture(t *testing.T, lockTimeout time.Duration) *fixture {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	pg, err := testinfra.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	db, err := database.Open(pg.DSN)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	database.TunePool(db)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := configs.DefaultEngineConfig()
	cfg.Timezone = "UTC"
	cfg.LockTimeout = lockTimeout
	clock := dbtime.NewFixedClock(at("2025-01-05"))
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

func TestPostgres_ConcurrentMarkAttendance(t *testing.T) {
	f := newPostgresFixture(t, 5*time.Second)
	res := f.create(t, "2025-01-05", "10:00")
	f.setToday("2025-01-12")
	target := f.meetingOn(t, res.Root.MeetingID, "2025-01-12")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.series.MarkAttendance(context.Background(), MarkAttendanceInput{
				MeetingID: target.MeetingID,
				Status:    "present",
			}, Requester{UserID: uuid.New(), Role: "member"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("mark: %v", err)
		}
	}

	if n := f.countMeetings(t); n != 4 {
		t.Fatalf("meetings = %d, want 4", n)
	}
}

func TestPostgres_ConcurrentCreateSameSlot(t *testing.T) {
	f := newPostgresFixture(t, 5*time.Second)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, dup int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.series.CreateSeries(context.Background(), CreateSeriesInput{
				Date: "2025-01-05", Time: "10:00", AreaID: f.area,
			}, f.org)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicateMeeting):
				dup++
			default:
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || dup != 7 {
		t.Fatalf("ok=%d dup=%d", ok, dup)
	}
	if n := f.countMeetings(t); n != 3 {
		t.Fatalf("meetings = %d, want 3", n)
	}
}

func TestPostgres_LockTimeout(t *testing.T) {
	f := newPostgresFixture(t, 300*time.Millisecond)
	res := f.create(t, "2025-01-05", "10:00")

	// tahan lock root di transaksi lain
	holder := f.db.Begin()
	var row m.MeetingModel
	if err := holder.Raw("SELECT * FROM meetings WHERE meeting_id = ? FOR UPDATE", res.Root.MeetingID).Scan(&row).Error; err != nil {
		t.Fatalf("hold lock: %v", err)
	}
	defer holder.Rollback()

	_, err := f.series.MarkAttendance(context.Background(), MarkAttendanceInput{
		MeetingID: res.Root.MeetingID,
		Status:    "present",
	}, Requester{UserID: uuid.New()})
	assertKind(t, err, ErrLockTimeout)
	if !IsRetryable(err) {
		t.Fatal("lock timeout must be retryable")
	}

	// tidak ada efek samping parsial
	var n int64
	f.db.Model(&m.MeetingAttendanceModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("attendance rows = %d", n)
	}
}

func TestPostgres_UniqueSlotIndex(t *testing.T) {
	f := newPostgresFixture(t, time.Second)
	f.create(t, "2025-01-05", "10:00")

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&m.MeetingModel{
			MeetingAreaID:    f.area,
			MeetingDate:      day("2025-01-12"),
			MeetingTime:      "10:00",
			MeetingLocation:  m.DefaultLocation,
			MeetingAgenda:    m.DefaultAgenda,
			MeetingCreatedBy: uuid.New(),
		}).Error
	})
	assertKind(t, classifyDBError(err, "insert"), ErrDuplicateMeeting)
}
