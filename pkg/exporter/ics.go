package exporter

import (
	"fmt"
	"io"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"manabify/pkg/config"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"
)

const localTimeLayout = "20060102T150405"

// ICSOptions control how periods become calendar events
type ICSOptions struct {
	// Periods[i] is the wall clock slot of period i+1
	Periods []config.PeriodTime
	Zone    string
	// From is the first day of the term; each event starts on its first weekday on or after From
	From  time.Time
	Weeks int
}

// GenerateICS writes one weekly recurring event per schedule entry and returns how
// many events were written. Entries whose period has no configured time are skipped.
func GenerateICS(courses []timetable.Course, w io.Writer, opts ICSOptions) (int, error) {
	loc, err := time.LoadLocation(opts.Zone)
	if err != nil {
		return 0, fmt.Errorf("could not load timezone: %w", err)
	}
	if opts.Weeks <= 0 {
		opts.Weeks = 15
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//manabify//timetable//EN")
	cal.SetXWRTimezone(loc.String())

	from := opts.From.In(loc)
	written := 0

	for _, c := range courses {
		for _, e := range c.Schedule {
			if e.Period < 1 || e.Period > len(opts.Periods) {
				continue
			}
			slot := opts.Periods[e.Period-1]

			day := firstWeekday(from, e.Day)
			start, err := atClock(day, slot.Start)
			if err != nil {
				return written, fmt.Errorf("period %d: %w", e.Period, err)
			}
			end, err := atClock(day, slot.End)
			if err != nil {
				return written, fmt.Errorf("period %d: %w", e.Period, err)
			}

			event := cal.AddEvent(eventUID(c, e))
			event.SetCreatedTime(time.Now())
			event.SetDtStampTime(time.Now())
			event.SetModifiedAt(time.Now())
			setLocalTime(event, ics.ComponentPropertyDtStart, start)
			setLocalTime(event, ics.ComponentPropertyDtEnd, end)
			event.SetSummary(c.Name)
			if e.Classroom != "" {
				event.SetLocation(e.Classroom)
			}
			if c.URL != "" {
				event.SetURL(c.URL)
			}
			event.SetDescription(fmt.Sprintf("%s %d限", e.Day.Label(schedule.Japanese), e.Period))
			event.AddProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", opts.Weeks))
			written++
		}
	}

	return written, cal.SerializeTo(w)
}

// setLocalTime writes a wall clock time with its TZID so weekly recurrences keep
// the same local time across DST changes
func setLocalTime(event *ics.VEvent, prop ics.ComponentProperty, t time.Time) {
	event.SetProperty(prop, t.Format(localTimeLayout), ics.WithTZID(t.Location().String()))
}

// eventUID is stable across exports so calendar apps update instead of duplicating
func eventUID(c timetable.Course, e schedule.Entry) string {
	id := c.URL
	if id == "" {
		id = c.Name
	}
	name := fmt.Sprintf("%s#%s%d", id, e.Day, e.Period)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@manabify"
}

func firstWeekday(from time.Time, d schedule.Day) time.Time {
	want := time.Weekday((int(d) + 1) % 7)
	offset := (int(want) - int(from.Weekday()) + 7) % 7
	day := from.AddDate(0, 0, offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, from.Location())
}

func atClock(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", hhmm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
