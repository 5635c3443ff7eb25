package notification

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

// EventDetails is the slice of an event the notification layer needs to
// compose messages and calendar payloads without importing the event package.
type EventDetails struct {
	ID       uint
	Title    string
	Location string
	StartsAt time.Time
	EndsAt   *time.Time
}

// BuildICS renders the event as an iCalendar REQUEST payload, attached to
// invitation emails so guests can add the event to their calendars.
func BuildICS(ev EventDetails, organizerEmail string) ([]byte, error) {
	vevent := ical.NewComponent(ical.CompEvent)
	vevent.Props.SetText(ical.PropUID, fmt.Sprintf("event-%d@event-invite", ev.ID))
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeStart, ev.StartsAt.UTC())
	if ev.EndsAt != nil {
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, ev.EndsAt.UTC())
	} else {
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, ev.StartsAt.Add(time.Hour).UTC())
	}
	vevent.Props.SetText(ical.PropSummary, ev.Title)
	if ev.Location != "" {
		vevent.Props.SetText(ical.PropLocation, ev.Location)
	}
	if organizerEmail != "" {
		vevent.Props.SetText(ical.PropOrganizer, "mailto:"+organizerEmail)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//event-invite-backend//EN")
	cal.Props.SetText(ical.PropMethod, "REQUEST")
	cal.Children = append(cal.Children, vevent)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode ics: %w", err)
	}
	return buf.Bytes(), nil
}
