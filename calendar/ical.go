package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
)

const prodID = "-//steward//calendar//EN"

// dateLayout is the iCalendar DATE value format used for all-day events.
const dateLayout = "20060102"

// encodeEvent builds a single-event VCALENDAR from the given event.
func encodeEvent(event *Event) (*ical.Calendar, error) {
	if event.Summary == "" {
		return nil, fmt.Errorf("event summary required")
	}
	if event.Start.IsZero() || event.End.IsZero() {
		return nil, fmt.Errorf("event start and end required")
	}

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, event.ID)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, time.Now())
	ev.Props.SetText(ical.PropSummary, event.Summary)

	if event.AllDay {
		setDate(&ev.Props, ical.PropDateTimeStart, event.Start)
		setDate(&ev.Props, ical.PropDateTimeEnd, event.End)
	} else {
		ev.Props.SetDateTime(ical.PropDateTimeStart, event.Start)
		ev.Props.SetDateTime(ical.PropDateTimeEnd, event.End)
	}

	if event.Description != "" {
		ev.Props.SetText(ical.PropDescription, event.Description)
	}
	if event.Location != "" {
		ev.Props.SetText(ical.PropLocation, event.Location)
	}
	for _, attendee := range event.Attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.Value = "mailto:" + attendee
		ev.Props.Add(prop)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Children = append(cal.Children, ev.Component)
	return cal, nil
}

// setDate writes a DATE-valued property (no time component).
func setDate(props *ical.Props, name string, t time.Time) {
	prop := ical.NewProp(name)
	prop.SetValueType(ical.ValueDate)
	prop.Value = t.Format(dateLayout)
	props.Set(prop)
}

// decodeObject extracts the first VEVENT from a fetched calendar object.
func decodeObject(obj *caldav.CalendarObject) (*Event, error) {
	if obj.Data == nil {
		return nil, fmt.Errorf("calendar object %s has no data", obj.Path)
	}

	events := obj.Data.Events()
	if len(events) == 0 {
		return nil, fmt.Errorf("calendar object %s has no events", obj.Path)
	}

	return decodeEvent(&events[0])
}

// decodeEvent converts an ical VEVENT into the package's Event form.
func decodeEvent(ev *ical.Event) (*Event, error) {
	out := &Event{}

	if prop := ev.Props.Get(ical.PropUID); prop != nil {
		out.ID = prop.Value
	}
	if summary, err := ev.Props.Text(ical.PropSummary); err == nil {
		out.Summary = summary
	}
	if desc, err := ev.Props.Text(ical.PropDescription); err == nil {
		out.Description = desc
	}
	if loc, err := ev.Props.Text(ical.PropLocation); err == nil {
		out.Location = loc
	}

	if prop := ev.Props.Get(ical.PropDateTimeStart); prop != nil {
		out.AllDay = prop.ValueType() == ical.ValueDate
	}

	start, err := ev.DateTimeStart(time.Local)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad start: %w", out.ID, err)
	}
	out.Start = start

	end, err := ev.DateTimeEnd(time.Local)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad end: %w", out.ID, err)
	}
	out.End = end

	for _, prop := range ev.Props.Values(ical.PropAttendee) {
		out.Attendees = append(out.Attendees, strings.TrimPrefix(prop.Value, "mailto:"))
	}

	return out, nil
}
