// Package calendarexport turns a published SchedulePeriod's assignments
// into an iCalendar feed pushed to a CalDAV server over go-webdav/caldav,
// narrowed to one direction: export only, no import back into the core.
package calendarexport

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"golang.org/x/oauth2"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// PropXShiftSched marks a VEVENT as produced by shiftsched, so a later pass
// over the same calendar can recognize and update its own events instead of
// treating them as externally authored.
const PropXShiftSched = "X-SHIFTSCHED"

// BuildCalendar renders every assignment in result for the given period and
// roster into one VCALENDAR, one VEVENT per assignment. Only periods with
// PeriodPublished status should ever reach this function; callers enforce
// that, it is not re-checked here.
func BuildCalendar(period domain.SchedulePeriod, staff []domain.Staff, slots []domain.ShiftSlot, assignments []domain.Assignment) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//shiftsched//Schedule Export//EN")

	staffByID := make(map[string]domain.Staff, len(staff))
	for _, st := range staff {
		staffByID[st.ID.String()] = st
	}
	slotByID := make(map[string]domain.ShiftSlot, len(slots))
	for _, sl := range slots {
		slotByID[sl.ID.String()] = sl
	}

	for _, a := range assignments {
		slot, ok := slotByID[a.ShiftSlotID.String()]
		if !ok {
			return nil, fmt.Errorf("assignment references unknown shift slot %s", a.ShiftSlotID)
		}
		st, ok := staffByID[a.StaffID.String()]
		if !ok {
			return nil, fmt.Errorf("assignment references unknown staff %s", a.StaffID)
		}

		event := toEvent(period, st, slot, a)
		cal.Children = append(cal.Children, event.Component)
	}

	return cal, nil
}

func toEvent(period domain.SchedulePeriod, st domain.Staff, slot domain.ShiftSlot, a domain.Assignment) *ical.Event {
	start := assignmentTime(a.Date, slot.StartTime)
	end := assignmentTime(a.Date, slot.EndTime)
	if slot.EndTime.Minutes() <= slot.StartTime.Minutes() {
		end = end.AddDate(0, 0, 1) // slot wraps past midnight, per domain.ShiftSlot's doc comment
	}

	event := ical.NewEvent()
	uid := fmt.Sprintf("%s-%s-%s", period.ID, a.StaffID, a.Date.Compact())
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, end)
	event.Props.SetText(ical.PropSummary, fmt.Sprintf("%s shift: %s", slot.Name, st.Name))
	event.Props.SetText(ical.PropDescription, fmt.Sprintf("Role: %s\nShift: %s", st.Role, slot.Name))

	shiftschedProp := ical.NewProp(PropXShiftSched)
	shiftschedProp.Value = "1"
	event.Props[PropXShiftSched] = []ical.Prop{*shiftschedProp}

	return event
}

func assignmentTime(d domain.Date, clock domain.Clock) time.Time {
	return time.Date(d.Year, d.Month, d.Day, clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}

// Publisher pushes a built calendar to a staff member's personal CalDAV
// calendar, authorized via an OAuth2 token source (e.g. Google Calendar)
// rather than basic auth (used for Apple/Fastmail/Nextcloud, which do not
// support OAuth2 app flows the same way).
type Publisher struct {
	baseURL string
}

// NewPublisher targets a CalDAV endpoint (e.g. the staff member's connected
// calendar home set).
func NewPublisher(baseURL string) *Publisher {
	return &Publisher{baseURL: baseURL}
}

// Push uploads cal as a single calendar object at eventPath, authorizing the
// request with tokenSource. The returned *http.Client from oauth2.NewClient
// already implements the Do method go-webdav's HTTPClient interface
// requires, so it is passed straight through without an adapter.
func (p *Publisher) Push(ctx context.Context, tokenSource oauth2.TokenSource, eventPath string, cal *ical.Calendar) error {
	httpClient := oauth2.NewClient(ctx, tokenSource)

	client, err := caldav.NewClient(httpClient, p.baseURL)
	if err != nil {
		return fmt.Errorf("create caldav client: %w", err)
	}

	if _, err := client.PutCalendarObject(ctx, eventPath, cal); err != nil {
		return fmt.Errorf("put calendar object: %w", err)
	}
	return nil
}
