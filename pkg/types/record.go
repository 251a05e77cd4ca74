// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DateLayout is the ISO form used for dates in every output format.
const DateLayout = "2006-01-02"

// Fields holds the three classified text fields of one event.
type Fields struct {
	EventName    string `json:"event_name" yaml:"event_name"`
	MeetingPlace string `json:"meeting_place" yaml:"meeting_place"`
	Person       string `json:"person" yaml:"person"`
}

// Record is one output row: a calendar event attributed to the date printed
// on its page. A page with a date but no events produces a single Record
// whose text fields are all empty.
type Record struct {
	// Date is the calendar date of the page the event was found on.
	Date time.Time `json:"-" yaml:"-"`

	Fields `yaml:",inline"`

	// Source is the base name of the document the record came from. It is
	// only set by multi-document runs.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// DateString returns the record's date in ISO form.
func (r Record) DateString() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format(DateLayout)
}

// IsPlaceholder reports whether the record stands in for a page that had a
// date but no events.
func (r Record) IsPlaceholder() bool {
	return r.EventName == "" && r.MeetingPlace == "" && r.Person == ""
}

// Row returns the record as the four output columns
// date, Event Name, Meeting Place, Person.
func (r Record) Row() []string {
	return []string{r.DateString(), r.EventName, r.MeetingPlace, r.Person}
}
