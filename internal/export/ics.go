// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/pdiddy/calparse/pkg/types"
)

const productID = "-//calparse//calendar events//EN"

// uidNamespace scopes event UIDs so the same record always exports with
// the same UID.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/pdiddy/calparse/events"))

// WriteICS writes records as all-day iCalendar events. Placeholder records
// are omitted. Records that are identical in every column still get
// distinct UIDs, numbered in input order.
func WriteICS(w io.Writer, records []types.Record, stamp time.Time) error {
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stamp = stamp.UTC()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	seen := make(map[string]int)
	for _, r := range records {
		if r.IsPlaceholder() || r.Date.IsZero() {
			continue
		}
		key := strings.Join(append(r.Row(), r.Source), "\x1f")
		n := seen[key]
		seen[key]++

		cal.Children = append(cal.Children, event(r, EventUID(r, n), stamp).Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding iCalendar: %w", err)
	}
	return nil
}

// EventUID returns the UID of the nth occurrence of a record.
func EventUID(r types.Record, n int) string {
	key := strings.Join(append(r.Row(), r.Source, fmt.Sprint(n)), "\x1f")
	return uuid.NewSHA1(uidNamespace, []byte(key)).String()
}

func event(r types.Record, uid string, stamp time.Time) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)

	day := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC)
	ev.Props.SetDate(ical.PropDateTimeStart, day)
	ev.Props.SetDate(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))

	summary := r.EventName
	if summary == "" {
		summary = r.MeetingPlace
	}
	ev.Props.SetText(ical.PropSummary, summary)
	if r.MeetingPlace != "" {
		ev.Props.SetText(ical.PropLocation, r.MeetingPlace)
	}

	var desc []string
	if r.Person != "" {
		desc = append(desc, "Person: "+r.Person)
	}
	if r.Source != "" {
		desc = append(desc, "Source: "+r.Source)
	}
	if len(desc) > 0 {
		ev.Props.SetText(ical.PropDescription, strings.Join(desc, "\n"))
	}
	return ev
}
