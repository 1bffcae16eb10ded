package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	m "masjidku_meetings/internals/features/meetings/model"
	"masjidku_meetings/internals/helpers/dbtime"
)

/* =========================
   Create
========================= */

func TestCreateSeries_GeneratesHorizon(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")

	if !res.Root.IsRoot() {
		t.Fatalf("root should have no parent")
	}
	if res.Horizon.CreatedCount != 2 {
		t.Fatalf("created = %d, want 2", res.Horizon.CreatedCount)
	}
	got := dates(f.members(t, res.Root.MeetingID))
	want := []string{"2025-01-05", "2025-01-12", "2025-01-19"}
	if !equalStrings(got, want) {
		t.Fatalf("series = %v, want %v", got, want)
	}
	for _, row := range f.members(t, res.Root.MeetingID) {
		if row.MeetingTime != "10:00" || row.MeetingLocation != m.DefaultLocation || row.MeetingAgenda != m.DefaultAgenda {
			t.Errorf("child %s did not copy template: %+v", dbtime.FormatDate(row.MeetingDate), row)
		}
		if !row.IsRoot() && *row.MeetingParentID != res.Root.MeetingID {
			t.Errorf("child %s points to %s", row.MeetingID, *row.MeetingParentID)
		}
	}
}

func TestCreateSeries_PastRootProjectsFromToday(t *testing.T) {
	f := newFixture(t, "2025-03-01")
	res := f.create(t, "2025-01-05", "10:00")

	got := dates(f.members(t, res.Root.MeetingID))
	want := []string{"2025-01-05", "2025-03-08", "2025-03-15"}
	if !equalStrings(got, want) {
		t.Fatalf("series = %v, want %v", got, want)
	}
}

func TestCreateSeries_Validation(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	ctx := context.Background()

	cases := []CreateSeriesInput{
		{Date: "2025-13-01", Time: "10:00", AreaID: f.area},
		{Date: "2025-01-05", Time: "9:00", AreaID: f.area},
		{Date: "2025-01-05", Time: "25:00", AreaID: f.area},
		{Date: "2025-01-05", Time: "10:00"},
	}
	for _, in := range cases {
		_, err := f.series.CreateSeries(ctx, in, f.org)
		assertKind(t, err, ErrValidation)
	}
	if n := f.countMeetings(t); n != 0 {
		t.Fatalf("meetings = %d after failed creates", n)
	}
}

func TestCreateSeries_Duplicate(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	f.create(t, "2025-01-05", "10:00")

	_, err := f.series.CreateSeries(context.Background(), CreateSeriesInput{
		Date: "2025-01-12", Time: "10:00", AreaID: f.area,
	}, f.org)
	assertKind(t, err, ErrDuplicateMeeting)

	// jam lain di tanggal yang sama boleh
	f.create(t, "2025-01-12", "19:30")
}

func TestCreateSeries_AccessDenied(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	_, err := f.series.CreateSeries(context.Background(), CreateSeriesInput{
		Date: "2025-01-05", Time: "10:00", AreaID: f.area,
	}, f.member())
	assertKind(t, err, ErrAccessDenied)

	other := Requester{UserID: uuid.New(), Role: "organizer", OrganizerAreas: []uuid.UUID{uuid.New()}}
	_, err = f.series.CreateSeries(context.Background(), CreateSeriesInput{
		Date: "2025-01-05", Time: "10:00", AreaID: f.area,
	}, other)
	assertKind(t, err, ErrAccessDenied)

	owner := Requester{UserID: uuid.New(), Role: "owner"}
	if _, err := f.series.CreateSeries(context.Background(), CreateSeriesInput{
		Date: "2025-01-05", Time: "10:00", AreaID: f.area,
	}, owner); err != nil {
		t.Fatalf("owner create: %v", err)
	}
}

/* =========================
   Mark attendance
========================= */

func TestMarkAttendance_ExtendsHorizon(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	f.setToday("2025-01-12")

	target := f.meetingOn(t, res.Root.MeetingID, "2025-01-19")
	member := f.member()
	out, err := f.series.MarkAttendance(context.Background(), MarkAttendanceInput{
		MeetingID: target.MeetingID,
		Status:    "present",
	}, member)
	if err != nil {
		t.Fatalf("MarkAttendance: %v", err)
	}
	if out.Record.MeetingAttendanceUserID != member.UserID {
		t.Fatalf("record user = %s, want requester", out.Record.MeetingAttendanceUserID)
	}
	if out.Horizon.CreatedCount != 1 {
		t.Fatalf("created = %d, want 1", out.Horizon.CreatedCount)
	}
	if out.NextMeeting == nil || dbtime.FormatDate(out.NextMeeting.MeetingDate) != "2025-01-12" {
		t.Fatalf("next meeting = %+v, want 2025-01-12", out.NextMeeting)
	}
	got := dates(f.members(t, res.Root.MeetingID))
	want := []string{"2025-01-05", "2025-01-12", "2025-01-19", "2025-01-26"}
	if !equalStrings(got, want) {
		t.Fatalf("series = %v, want %v", got, want)
	}
}

func TestMarkAttendance_HorizonSkipsSlotsOfOtherSeries(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	a := f.create(t, "2025-01-05", "10:00")
	// seri lain di area yang sama menempati 01-26 dan 02-02
	b := f.create(t, "2025-01-26", "10:00")
	if got := dates(f.members(t, b.Root.MeetingID)); !equalStrings(got, []string{"2025-01-26", "2025-02-02"}) {
		t.Fatalf("series b = %v", got)
	}

	f.setToday("2025-01-13")
	target := f.meetingOn(t, a.Root.MeetingID, "2025-01-19")
	out, err := f.series.MarkAttendance(context.Background(), MarkAttendanceInput{
		MeetingID: target.MeetingID,
		Status:    "present",
	}, f.member())
	if err != nil {
		t.Fatalf("MarkAttendance: %v", err)
	}
	if out.Horizon.CreatedCount != 1 {
		t.Fatalf("created = %d, want 1", out.Horizon.CreatedCount)
	}

	got := dates(f.members(t, a.Root.MeetingID))
	want := []string{"2025-01-05", "2025-01-12", "2025-01-19", "2025-02-09"}
	if !equalStrings(got, want) {
		t.Fatalf("series a = %v, want %v", got, want)
	}

	var future int64
	if err := f.db.Model(&m.MeetingModel{}).
		Where("(meeting_id = ? OR meeting_parent_id = ?) AND meeting_date > ? AND meeting_status = ?",
			a.Root.MeetingID, a.Root.MeetingID, day("2025-01-13"), m.MeetingScheduled).
		Count(&future).Error; err != nil {
		t.Fatalf("count future: %v", err)
	}
	if future < 2 {
		t.Fatalf("future scheduled = %d, want >= 2", future)
	}
}

func TestMarkAttendance_UpsertKeepsOneRecord(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	member := f.member()
	ctx := context.Background()

	first, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{MeetingID: res.Root.MeetingID, Status: "absent"}, member)
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if first.PreviousStatus != nil {
		t.Fatalf("previous status on first mark = %v, want nil", *first.PreviousStatus)
	}
	out, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{
		MeetingID: res.Root.MeetingID,
		Status:    "Excused",
		Reason:    strPtr("  sakit  "),
	}, member)
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if out.Record.MeetingAttendanceStatus != m.AttendanceExcused {
		t.Fatalf("status = %s", out.Record.MeetingAttendanceStatus)
	}
	if out.PreviousStatus == nil || *out.PreviousStatus != m.AttendanceAbsent {
		t.Fatalf("previous status = %v, want absent", out.PreviousStatus)
	}

	report, err := f.query.AttendanceReport(ctx, res.Root.MeetingID)
	if err != nil {
		t.Fatalf("AttendanceReport: %v", err)
	}
	if len(report.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(report.Records))
	}
	rec := report.Records[0]
	if rec.MeetingAttendanceReason == nil || *rec.MeetingAttendanceReason != "sakit" {
		t.Fatalf("reason = %v", rec.MeetingAttendanceReason)
	}
	if report.Counts["excused"] != 1 || report.Counts["absent"] != 0 {
		t.Fatalf("counts = %v", report.Counts)
	}
}

func TestMarkAttendance_Validation(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	ctx := context.Background()

	_, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{MeetingID: res.Root.MeetingID, Status: "late"}, f.member())
	assertKind(t, err, ErrValidation)

	_, err = f.series.MarkAttendance(ctx, MarkAttendanceInput{MeetingID: res.Root.MeetingID, Status: "excused", Reason: strPtr("   ")}, f.member())
	assertKind(t, err, ErrValidation)

	_, err = f.series.MarkAttendance(ctx, MarkAttendanceInput{MeetingID: uuid.New(), Status: "present"}, f.member())
	assertKind(t, err, ErrNotFound)
}

func TestMarkAttendance_OnBehalf(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	ctx := context.Background()
	someone := uuid.New()

	_, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{
		MeetingID: res.Root.MeetingID, UserID: someone, Status: "present",
	}, f.member())
	assertKind(t, err, ErrAccessDenied)

	out, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{
		MeetingID: res.Root.MeetingID, UserID: someone, Status: "present",
	}, f.org)
	if err != nil {
		t.Fatalf("organizer mark: %v", err)
	}
	if out.Record.MeetingAttendanceUserID != someone || out.Record.MeetingAttendanceMarkedBy != f.org.UserID {
		t.Fatalf("record = %+v", out.Record)
	}

	owner := Requester{UserID: uuid.New(), Role: "OWNER"}
	if _, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{
		MeetingID: res.Root.MeetingID, UserID: someone, Status: "absent",
	}, owner); err != nil {
		t.Fatalf("owner mark: %v", err)
	}
}

func TestMarkAttendance_ConcurrentKeepsHorizonExact(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	f.setToday("2025-01-12")
	target := f.meetingOn(t, res.Root.MeetingID, "2025-01-12")

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
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
			t.Fatalf("concurrent mark: %v", err)
		}
	}

	if n := f.countMeetings(t); n != 4 {
		t.Fatalf("meetings = %d, want 4", n)
	}
	report, err := f.query.AttendanceReport(context.Background(), target.MeetingID)
	if err != nil {
		t.Fatalf("AttendanceReport: %v", err)
	}
	if report.Counts["present"] != 10 {
		t.Fatalf("present = %d, want 10", report.Counts["present"])
	}
}

/* =========================
   Horizon
========================= */

func TestEnsureHorizon_Idempotent(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	ctx := context.Background()

	hr, err := f.series.EnsureHorizon(ctx, res.Root.MeetingID, f.org)
	if err != nil {
		t.Fatalf("EnsureHorizon: %v", err)
	}
	if hr.CreatedCount != 0 {
		t.Fatalf("created = %d, want 0", hr.CreatedCount)
	}

	f.setToday("2025-01-13")
	child := f.meetingOn(t, res.Root.MeetingID, "2025-01-12")
	hr, err = f.series.EnsureHorizon(ctx, child.MeetingID, f.org)
	if err != nil {
		t.Fatalf("EnsureHorizon: %v", err)
	}
	if hr.CreatedCount != 1 || hr.RootID != res.Root.MeetingID {
		t.Fatalf("horizon = %+v", hr)
	}
	hr, err = f.series.EnsureHorizon(ctx, child.MeetingID, f.org)
	if err != nil || hr.CreatedCount != 0 {
		t.Fatalf("second call: %+v, %v", hr, err)
	}

	_, err = f.series.EnsureHorizon(ctx, child.MeetingID, f.member())
	assertKind(t, err, ErrAccessDenied)
}

func TestEnsureHorizon_CancelledDoesNotCount(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	ctx := context.Background()

	child := f.meetingOn(t, res.Root.MeetingID, "2025-01-19")
	if _, err := f.series.UpdateMeeting(ctx, UpdateMeetingInput{
		MeetingID: child.MeetingID, Status: strPtr("cancelled"),
	}, f.org); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	hr, err := f.series.EnsureHorizon(ctx, res.Root.MeetingID, f.org)
	if err != nil {
		t.Fatalf("EnsureHorizon: %v", err)
	}
	if hr.CreatedCount != 1 || dbtime.FormatDate(hr.Meetings[0].MeetingDate) != "2025-01-26" {
		t.Fatalf("horizon = %+v", hr)
	}
}

func TestSweepHorizons(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	f.setToday("2025-01-20")
	ctx := context.Background()

	sum, err := f.series.SweepHorizons(ctx)
	if err != nil {
		t.Fatalf("SweepHorizons: %v", err)
	}
	if sum.SeriesVisited != 1 || sum.MeetingsCreated != 2 || sum.Failures != 0 {
		t.Fatalf("summary = %+v", sum)
	}
	got := dates(f.members(t, res.Root.MeetingID))
	want := []string{"2025-01-05", "2025-01-12", "2025-01-19", "2025-01-27", "2025-02-03"}
	if !equalStrings(got, want) {
		t.Fatalf("series = %v, want %v", got, want)
	}

	sum, err = f.series.SweepHorizons(ctx)
	if err != nil || sum.MeetingsCreated != 0 {
		t.Fatalf("second sweep: %+v, %v", sum, err)
	}
}

/* =========================
   Update
========================= */

func TestUpdateMeeting_NoChanges(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")

	_, err := f.series.UpdateMeeting(context.Background(), UpdateMeetingInput{
		MeetingID: res.Root.MeetingID,
		Time:      strPtr("10:00"),
		Location:  strPtr(m.DefaultLocation),
	}, f.org)
	assertKind(t, err, ErrNoChanges)
}

func TestUpdateMeeting_PropagateFromRoot(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	ctx := context.Background()

	out, err := f.series.UpdateMeeting(ctx, UpdateMeetingInput{
		MeetingID:         res.Root.MeetingID,
		Agenda:            strPtr("Evaluasi program"),
		Time:              strPtr("20:00"),
		PropagateToSeries: true,
	}, f.org)
	if err != nil {
		t.Fatalf("UpdateMeeting: %v", err)
	}
	if out.PropagatedCount != 2 {
		t.Fatalf("propagated = %d, want 2", out.PropagatedCount)
	}
	if !equalStrings(out.ChangedFields, []string{"meeting_agenda", "meeting_time"}) {
		t.Fatalf("changed = %v", out.ChangedFields)
	}
	for _, row := range f.members(t, res.Root.MeetingID) {
		if row.MeetingAgenda != "Evaluasi program" || row.MeetingTime != "20:00" {
			t.Errorf("%s not updated: %+v", dbtime.FormatDate(row.MeetingDate), row)
		}
	}
}

func TestUpdateMeeting_PropagateFromChildOnlyTouchesChild(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	child := f.meetingOn(t, res.Root.MeetingID, "2025-01-12")

	out, err := f.series.UpdateMeeting(context.Background(), UpdateMeetingInput{
		MeetingID:         child.MeetingID,
		Location:          strPtr("Aula"),
		PropagateToSeries: true,
	}, f.org)
	if err != nil {
		t.Fatalf("UpdateMeeting: %v", err)
	}
	if out.PropagatedCount != 0 || out.Meeting.MeetingLocation != "Aula" {
		t.Fatalf("result = %+v", out)
	}
	if got := f.meetingOn(t, res.Root.MeetingID, "2025-01-19").MeetingLocation; got != m.DefaultLocation {
		t.Fatalf("sibling location = %q", got)
	}
}

func TestUpdateMeeting_DateCollision(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	child := f.meetingOn(t, res.Root.MeetingID, "2025-01-12")

	_, err := f.series.UpdateMeeting(context.Background(), UpdateMeetingInput{
		MeetingID: child.MeetingID,
		Date:      strPtr("2025-01-19"),
	}, f.org)
	assertKind(t, err, ErrDuplicateMeeting)

	out, err := f.series.UpdateMeeting(context.Background(), UpdateMeetingInput{
		MeetingID: child.MeetingID,
		Date:      strPtr("2025-01-13"),
	}, f.org)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if dbtime.FormatDate(out.Meeting.MeetingDate) != "2025-01-13" {
		t.Fatalf("date = %s", dbtime.FormatDate(out.Meeting.MeetingDate))
	}
}

func TestUpdateMeeting_Validation(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	ctx := context.Background()

	bad := []UpdateMeetingInput{
		{MeetingID: res.Root.MeetingID, Date: strPtr("05-01-2025")},
		{MeetingID: res.Root.MeetingID, Time: strPtr("10")},
		{MeetingID: res.Root.MeetingID, Status: strPtr("postponed")},
		{MeetingID: res.Root.MeetingID, Agenda: strPtr(" ")},
	}
	for _, in := range bad {
		_, err := f.series.UpdateMeeting(ctx, in, f.org)
		assertKind(t, err, ErrValidation)
	}

	_, err := f.series.UpdateMeeting(ctx, UpdateMeetingInput{MeetingID: res.Root.MeetingID, Agenda: strPtr("x")}, f.member())
	assertKind(t, err, ErrAccessDenied)
}

/* =========================
   Delete
========================= */

func TestDeleteMeeting_Single(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	child := f.meetingOn(t, res.Root.MeetingID, "2025-01-12")
	ctx := context.Background()

	if _, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{MeetingID: child.MeetingID, Status: "present"}, f.member()); err != nil {
		t.Fatalf("mark: %v", err)
	}
	out, err := f.series.DeleteMeeting(ctx, DeleteMeetingInput{MeetingID: child.MeetingID}, f.org)
	if err != nil {
		t.Fatalf("DeleteMeeting: %v", err)
	}
	if len(out.DeletedMeetingIDs) != 1 || out.DeletedAttendanceCount != 1 || out.NewRootID != nil {
		t.Fatalf("result = %+v", out)
	}
	got := dates(f.members(t, res.Root.MeetingID))
	if !equalStrings(got, []string{"2025-01-05", "2025-01-19"}) {
		t.Fatalf("series = %v", got)
	}
}

func TestDeleteMeeting_SeriesFromChild(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	f.setToday("2025-01-10")
	child := f.meetingOn(t, res.Root.MeetingID, "2025-01-12")
	later := f.meetingOn(t, res.Root.MeetingID, "2025-01-19")
	ctx := context.Background()

	// dua member absen di kedua sibling, satu di root
	for _, u := range []Requester{f.member(), f.member()} {
		for _, id := range []uuid.UUID{child.MeetingID, later.MeetingID} {
			if _, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{MeetingID: id, Status: "present"}, u); err != nil {
				t.Fatalf("mark: %v", err)
			}
		}
	}
	if _, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{MeetingID: res.Root.MeetingID, Status: "present"}, f.member()); err != nil {
		t.Fatalf("mark root: %v", err)
	}

	out, err := f.series.DeleteMeeting(ctx, DeleteMeetingInput{
		MeetingID:    child.MeetingID,
		DeleteSeries: true,
	}, f.org)
	if err != nil {
		t.Fatalf("DeleteMeeting: %v", err)
	}
	if len(out.DeletedMeetingIDs) != 2 {
		t.Fatalf("deleted = %d, want 2", len(out.DeletedMeetingIDs))
	}
	if out.DeletedAttendanceCount != 4 {
		t.Fatalf("attendance deleted = %d, want 4", out.DeletedAttendanceCount)
	}
	got := dates(f.members(t, res.Root.MeetingID))
	if !equalStrings(got, []string{"2025-01-05"}) {
		t.Fatalf("series = %v", got)
	}

	var orphans int64
	if err := f.db.Model(&m.MeetingAttendanceModel{}).
		Where("meeting_attendance_meeting_id IN ?", out.DeletedMeetingIDs).
		Count(&orphans).Error; err != nil {
		t.Fatalf("count orphans: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("orphan attendance = %d, want 0", orphans)
	}
	var kept int64
	if err := f.db.Model(&m.MeetingAttendanceModel{}).Count(&kept).Error; err != nil {
		t.Fatalf("count attendance: %v", err)
	}
	if kept != 1 {
		t.Fatalf("remaining attendance = %d, want 1", kept)
	}
}

func TestDeleteMeeting_RootPromotesEarliestChild(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	ctx := context.Background()
	if _, err := f.series.MarkAttendance(ctx, MarkAttendanceInput{MeetingID: res.Root.MeetingID, Status: "present"}, f.member()); err != nil {
		t.Fatalf("mark: %v", err)
	}

	f.setToday("2025-01-13")
	next := f.meetingOn(t, res.Root.MeetingID, "2025-01-12")
	out, err := f.series.DeleteMeeting(ctx, DeleteMeetingInput{MeetingID: res.Root.MeetingID}, f.org)
	if err != nil {
		t.Fatalf("DeleteMeeting: %v", err)
	}
	if out.NewRootID == nil || *out.NewRootID != next.MeetingID {
		t.Fatalf("new root = %v, want %s", out.NewRootID, next.MeetingID)
	}
	if out.DeletedAttendanceCount != 1 {
		t.Fatalf("attendance deleted = %d", out.DeletedAttendanceCount)
	}

	rows := f.members(t, next.MeetingID)
	if !equalStrings(dates(rows), []string{"2025-01-12", "2025-01-19"}) {
		t.Fatalf("series = %v", dates(rows))
	}
	for _, row := range rows {
		if row.MeetingID == next.MeetingID && !row.IsRoot() {
			t.Fatalf("promoted meeting still has a parent")
		}
		if row.MeetingID != next.MeetingID && (row.MeetingParentID == nil || *row.MeetingParentID != next.MeetingID) {
			t.Fatalf("child %s not reparented", row.MeetingID)
		}
	}

	audit, err := f.query.SeriesAudit(ctx, next.MeetingID, 0)
	if err != nil {
		t.Fatalf("SeriesAudit: %v", err)
	}
	actions := map[m.AuditAction]int{}
	for _, a := range audit {
		actions[a.MeetingAuditLogAction]++
	}
	if actions[m.AuditDelete] != 1 || actions[m.AuditReroot] != 1 {
		t.Fatalf("audit actions = %v", actions)
	}
}

func TestDeleteMeeting_NotFoundAndDenied(t *testing.T) {
	f := newFixture(t, "2025-01-05")
	res := f.create(t, "2025-01-05", "10:00")
	ctx := context.Background()

	_, err := f.series.DeleteMeeting(ctx, DeleteMeetingInput{MeetingID: uuid.New()}, f.org)
	assertKind(t, err, ErrNotFound)

	_, err = f.series.DeleteMeeting(ctx, DeleteMeetingInput{MeetingID: res.Root.MeetingID}, f.member())
	assertKind(t, err, ErrAccessDenied)
	if n := f.countMeetings(t); n != 3 {
		t.Fatalf("meetings = %d, want 3", n)
	}
}
