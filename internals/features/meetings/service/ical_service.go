// file: internals/features/meetings/service/ical_service.go
package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	m "masjidku_meetings/internals/features/meetings/model"
	"masjidku_meetings/internals/helpers/dbtime"
)

const (
	icalService       = "masjidku"
	icalSeriesRRule   = "X-SERIES-RRULE"
	icalEventDuration = time.Hour
)

// ExportSeriesICS: seluruh anggota seri sebagai VCALENDAR (satu VEVENT per rapat).
// Aturan mingguannya ikut disertakan sebagai X-SERIES-RRULE untuk klien yang mau ekspansi sendiri.
func (q *QueryService) ExportSeriesICS(ctx context.Context, meetingID uuid.UUID, loc *time.Location) (string, error) {
	rows, err := q.SeriesMeetings(ctx, meetingID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", newError(ErrNotFound, "seri tidak ditemukan")
	}
	if loc == nil {
		loc = time.UTC
	}

	cal := ics.NewCalendarFor(icalService)
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName("Rapat " + rows[0].MeetingAgenda)
	cal.SetXWRTimezone(loc.String())

	root := rows[0]
	for _, r := range rows {
		if r.IsRoot() {
			root = r
			break
		}
	}
	if rule, err := seriesRRule(root, rows, loc); err == nil && rule != "" {
		cal.CalendarProperties = append(cal.CalendarProperties, ics.CalendarProperty{
			BaseProperty: ics.BaseProperty{
				IANAToken: icalSeriesRRule,
				ICalParameters: map[string][]string{
					string(ics.ParameterValue): {string(ics.ValueDataTypeRecur)},
				},
				Value: rule,
			},
		})
	}

	stamp := q.Clock.Now().UTC()
	for _, r := range rows {
		start, err := dbtime.Combine(r.MeetingDate, r.MeetingTime, loc)
		if err != nil {
			return "", wrapError(ErrStorageFailure, err, "jam rapat tidak valid")
		}
		ev := cal.AddEvent(r.MeetingID.String() + "@masjidku")
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(r.MeetingCreatedAt)
		ev.SetModifiedAt(r.MeetingUpdatedAt)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(icalEventDuration))
		ev.SetSummary(fmt.Sprintf("Rapat pengurus (%s)", r.MeetingStatus))
		ev.SetLocation(r.MeetingLocation)
		ev.SetDescription(r.MeetingAgenda)
		ev.SetStatus(icalStatus(r.MeetingStatus))
	}
	return cal.Serialize(), nil
}

// seriesRRule: FREQ=WEEKLY dari root sampai anggota terakhir.
func seriesRRule(root m.MeetingModel, rows []m.MeetingModel, loc *time.Location) (string, error) {
	start, err := dbtime.Combine(root.MeetingDate, root.MeetingTime, loc)
	if err != nil {
		return "", err
	}
	last := root.MeetingDate
	for _, r := range rows {
		last = dbtime.MaxDate(last, r.MeetingDate)
	}
	until, err := dbtime.Combine(last, root.MeetingTime, loc)
	if err != nil {
		return "", err
	}
	opt := rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: start,
		Until:   until,
	}
	if _, err := rrule.NewRRule(opt); err != nil {
		return "", err
	}
	return opt.RRuleString(), nil
}

func icalStatus(s m.MeetingStatus) ics.ObjectStatus {
	switch s {
	case m.MeetingCancelled:
		return ics.ObjectStatusCancelled
	case m.MeetingCompleted:
		return ics.ObjectStatusConfirmed
	default:
		return ics.ObjectStatusTentative
	}
}
