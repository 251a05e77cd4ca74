// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides what a segment of calendar event text describes:
// a meeting place, an attendee, or neither, and whether it opens a new
// event. Keyword tables come from a types.Vocabulary so that a calendar
// with different conventions can be supported by configuration alone.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/calparse/pkg/types"
)

const (
	phonePrefix   = "PH:"
	meetingPrefix = "MTG:"
	teleconf      = "TELECONFERENCE"
	chiefsConf    = "CHIEF'S CONFERENCE"
	conference    = "CONFERENCE"
)

var (
	// namePattern matches "John Smith", "Mary Ann Jones", "Bob Lee J." and
	// the same shapes followed by a parenthetical such as "(DNR)".
	namePattern = regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z][a-z]+){0,2}(?: [A-Z]\.)?(?: \(.+\))?$`)

	clockPattern    = regexp.MustCompile(`^\d{1,2}[:.]\d{2}`)
	meridiemPattern = regexp.MustCompile(`^\d{1,2}\s?(AM|PM)`)
)

// title-like segments have between minTitleWords and maxTitleWords words.
const (
	minTitleWords = 2
	maxTitleWords = 8
)

// Classifier applies a vocabulary to segments. It is safe for concurrent
// use.
type Classifier struct {
	vocab   types.Vocabulary
	markers []*regexp.Regexp
	noise   map[string]bool
}

// New returns a Classifier for vocab. Empty tables fall back to the
// defaults; entries are upper-cased.
func New(vocab types.Vocabulary) *Classifier {
	v := vocab.Merge(types.DefaultVocabulary())
	upper := func(xs []string) []string {
		out := make([]string, len(xs))
		for i, x := range xs {
			out[i] = strings.ToUpper(x)
		}
		return out
	}
	c := &Classifier{
		vocab: types.Vocabulary{
			LocationHints:        upper(v.LocationHints),
			ConferenceQualifiers: upper(v.ConferenceQualifiers),
			PersonHints:          upper(v.PersonHints),
			PersonExclusions:     upper(v.PersonExclusions),
			ForcedEventPrefixes:  upper(v.ForcedEventPrefixes),
			MeetingTypeKeywords:  upper(v.MeetingTypeKeywords),
			SplitMarkers:         upper(v.SplitMarkers),
			NoiseSegments:        upper(v.NoiseSegments),
		},
		noise: make(map[string]bool),
	}
	for _, m := range c.vocab.SplitMarkers {
		c.markers = append(c.markers, regexp.MustCompile(`(?i)\s+`+regexp.QuoteMeta(m)))
	}
	for _, n := range c.vocab.NoiseSegments {
		c.noise[n] = true
	}
	return c
}

// Vocabulary returns the normalized vocabulary in use.
func (c *Classifier) Vocabulary() types.Vocabulary {
	return c.vocab
}

// IsLocation reports whether seg names a meeting place. A bare mention of
// "conference" names a kind of meeting, not a place, unless it is
// qualified ("Conference Room", "Conference Call").
func (c *Classifier) IsLocation(seg string) bool {
	cleaned := strings.TrimSpace(seg)
	if cleaned == "" {
		return false
	}
	upper := strings.ToUpper(cleaned)
	if strings.Contains(upper, teleconf) {
		return true
	}
	if strings.Contains(upper, chiefsConf) {
		return false
	}
	if strings.Contains(upper, conference) && !containsAny(upper, c.vocab.ConferenceQualifiers) {
		return false
	}
	return containsAny(upper, c.vocab.LocationHints)
}

// IsPerson reports whether seg names one or more attendees. It is never
// true for a segment IsLocation accepts.
func (c *Classifier) IsPerson(seg string) bool {
	cleaned := strings.TrimSpace(seg)
	if cleaned == "" {
		return false
	}
	upper := strings.ToUpper(cleaned)
	if strings.HasPrefix(upper, phonePrefix) || strings.Contains(upper, teleconf) {
		return false
	}
	if c.IsLocation(cleaned) {
		return false
	}
	if strings.HasPrefix(upper, meetingPrefix) {
		return false
	}
	if containsAny(upper, c.vocab.PersonExclusions) {
		return false
	}
	if strings.Contains(cleaned, ",") && !hasDigit(cleaned) && hasAlphaPart(cleaned) {
		return true
	}
	if IsNameShape(cleaned) {
		return true
	}
	return containsAny(upper, c.vocab.PersonHints)
}

// ShouldForceNewEvent reports whether seg, arriving on a line without a
// time stamp, starts a new event instead of extending the open one.
func (c *Classifier) ShouldForceNewEvent(seg string) bool {
	cleaned := strings.TrimSpace(seg)
	if cleaned == "" {
		return false
	}
	upper := strings.ToUpper(cleaned)
	if strings.HasPrefix(upper, phonePrefix) || strings.Contains(upper, teleconf) {
		return false
	}
	if c.IsLocation(cleaned) {
		return false
	}
	if IsNameShape(cleaned) {
		return true
	}
	if containsAny(upper, c.vocab.PersonHints) {
		return false
	}
	if clockPattern.MatchString(cleaned) || meridiemPattern.MatchString(upper) {
		return true
	}
	if hasAnyPrefix(upper, c.vocab.ForcedEventPrefixes) {
		return true
	}
	if containsAny(upper, c.vocab.MeetingTypeKeywords) {
		if !containsAny(upper, c.vocab.LocationHints) {
			return true
		}
		// With a place mentioned, only title-like phrasing starts an event.
		return looksLikeTitle(cleaned)
	}
	return false
}

// StartsWithSplitMarker reports whether seg begins with a phone marker or
// one of the vocabulary's split markers. Such a segment never continues
// the event before it.
func (c *Classifier) StartsWithSplitMarker(seg string) bool {
	upper := strings.ToUpper(seg)
	return strings.HasPrefix(upper, phonePrefix) || hasAnyPrefix(upper, c.vocab.SplitMarkers)
}

// AllLocations reports whether every segment is a location. It is false
// for an empty slice.
func (c *Classifier) AllLocations(segs []string) bool {
	return len(segs) > 0 && all(segs, c.IsLocation)
}

// AllPersons reports whether every segment is a person. It is false for an
// empty slice.
func (c *Classifier) AllPersons(segs []string) bool {
	return len(segs) > 0 && all(segs, c.IsPerson)
}

// IsNameShape reports whether s looks like one to three capitalized words
// with an optional middle initial and trailing parenthetical.
func IsNameShape(s string) bool {
	return namePattern.MatchString(s)
}

// looksLikeTitle reports whether s is a short phrase in which all words
// but at most one start with an upper-case letter.
func looksLikeTitle(s string) bool {
	words := strings.Fields(s)
	if len(words) < minTitleWords || len(words) > maxTitleWords {
		return false
	}
	capitalized := 0
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsLetter(r) && unicode.IsUpper(r) {
			capitalized++
		}
	}
	return capitalized >= len(words)-1
}

func hasAlphaPart(s string) bool {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if unicode.IsLetter([]rune(part)[0]) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func all(segs []string, pred func(string) bool) bool {
	for _, s := range segs {
		if !pred(s) {
			return false
		}
	}
	return true
}
