// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fields turns a segmented event into its output columns: event
// name, meeting place and person.
package fields

import (
	"regexp"
	"strings"

	"github.com/pdiddy/calparse/internal/classify"
	"github.com/pdiddy/calparse/pkg/types"
)

const (
	phonePrefix    = "PH:"
	meetingPrefix  = "MTG:"
	phoneInterview = "PH: INTERVIEW"
	fieldSeparator = "; "
	compareTrimSet = " ;"
)

var (
	// embeddedName finds a "Lastname, F" start inside a segment.
	embeddedName = regexp.MustCompile(`[A-Z][a-z]+,\s+[A-Z]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Formatter assigns an event's segments to output columns.
type Formatter struct {
	cls *classify.Classifier
}

// New returns a Formatter that classifies segments with cls.
func New(cls *classify.Classifier) *Formatter {
	return &Formatter{cls: cls}
}

// Format returns the fields for one event. The first segment is the event
// name; phone details are folded into it, segments repeating it are
// dropped, and the remainder is split between meeting place and person.
func (f *Formatter) Format(event types.Event) types.Fields {
	if len(event) == 0 {
		return types.Fields{}
	}

	name := strings.TrimSpace(event[0])
	var pieces []string
	for _, seg := range event[1:] {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(seg), phonePrefix) {
			name = strings.TrimSpace(name + " " + seg)
			continue
		}
		if isRedundant(name, seg) {
			continue
		}
		pieces = append(pieces, splitEmbeddedName(seg)...)
	}

	var places, persons []string
	for _, p := range pieces {
		if f.cls.IsPerson(p) {
			persons = append(persons, p)
		} else {
			places = append(places, p)
		}
	}

	upperName := strings.ToUpper(name)
	switch {
	case strings.Contains(upperName, phoneInterview):
		// The place column of a phone interview lists who is interviewed.
		if len(places) > 0 {
			persons = append(places, persons...)
			places = nil
		}
	case strings.HasPrefix(upperName, phonePrefix), strings.HasPrefix(upperName, meetingPrefix):
		if len(places) == 0 && len(persons) > 0 {
			places, persons = persons, nil
		}
	}

	return types.Fields{
		EventName:    name,
		MeetingPlace: cleanMeetingPlace(join(places)),
		Person:       join(persons),
	}
}

// Reformat runs already formatted fields back through Format, treating the
// meeting place and person columns as segments of the named event. Text
// already present in the event name is not repeated.
func (f *Formatter) Reformat(in types.Fields) types.Fields {
	event := types.Event{in.EventName}
	for _, col := range []string{in.MeetingPlace, in.Person} {
		for _, part := range strings.Split(col, ";") {
			if part = strings.TrimSpace(part); part != "" {
				event = append(event, part)
			}
		}
	}
	return f.Format(event)
}

func normalizeForCompare(s string) string {
	return strings.Trim(whitespace.ReplaceAllString(strings.ToUpper(s), " "), compareTrimSet)
}

// isRedundant reports whether seg repeats the event name or its ending.
func isRedundant(name, seg string) bool {
	upper := strings.Trim(strings.ToUpper(seg), compareTrimSet)
	norm := normalizeForCompare(name)
	return upper == norm || strings.HasSuffix(norm, upper)
}

// splitEmbeddedName separates a trailing "Lastname, First" list from the
// text before it, e.g. "Budget staff Smith, John" becomes "Budget staff"
// and "Smith, John".
func splitEmbeddedName(seg string) []string {
	loc := embeddedName.FindStringIndex(seg)
	if loc == nil || loc[0] == 0 {
		return []string{seg}
	}
	var out []string
	if before := strings.Trim(seg[:loc[0]], compareTrimSet); before != "" {
		out = append(out, before)
	}
	if after := strings.TrimSpace(seg[loc[0]:]); after != "" {
		out = append(out, after)
	}
	return out
}

func join(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, fieldSeparator)
}

// cleanMeetingPlace drops a leading phone marker from the place column.
func cleanMeetingPlace(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToUpper(s), phonePrefix) {
		s = strings.TrimSpace(s[len(phonePrefix):])
	}
	return s
}
