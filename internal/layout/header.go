// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/calparse/pkg/types"
)

// datePattern matches a long-form date such as "September 7, 2023" anywhere
// in a line.
var datePattern = regexp.MustCompile(`[A-Za-z]+ \d{1,2}, \d{4}`)

// longDateLayout parses datePattern matches. Month names are matched
// case-insensitively by time.Parse.
const longDateLayout = "January 2, 2006"

// scheduleOffset is the number of lines between the weekday marker and the
// first schedule line; the line in between is the column header row.
const scheduleOffset = 2

var dayNames = map[string]bool{
	"MONDAY":    true,
	"TUESDAY":   true,
	"WEDNESDAY": true,
	"THURSDAY":  true,
	"FRIDAY":    true,
	"SATURDAY":  true,
	"SUNDAY":    true,
}

// IsDayName reports whether text, trimmed, is exactly an English weekday
// name in any letter case.
func IsDayName(text string) bool {
	return dayNames[strings.ToUpper(strings.TrimSpace(text))]
}

// ContainsDate reports whether text contains something shaped like a
// long-form date. It does not check that the date is valid.
func ContainsDate(text string) bool {
	return datePattern.MatchString(text)
}

// ParseDate returns the first valid long-form date found in text.
func ParseDate(text string) (time.Time, bool) {
	for _, m := range datePattern.FindAllString(text, -1) {
		if d, err := time.Parse(longDateLayout, m); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ExtractDate scans lines top to bottom and returns the first date that
// parses. Lines whose matches fail to parse are passed over.
func ExtractDate(lines []types.Line) (time.Time, bool) {
	for _, line := range lines {
		if d, ok := ParseDate(line.Text); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// FindDayLineIndex returns the index of the first line that is exactly a
// weekday name.
func FindDayLineIndex(lines []types.Line) (int, bool) {
	for i, line := range lines {
		if IsDayName(line.Text) {
			return i, true
		}
	}
	return -1, false
}

// ScheduleStart returns the index of the first schedule line given the
// index of the weekday marker line.
func ScheduleStart(dayIndex int) int {
	return dayIndex + scheduleOffset
}
