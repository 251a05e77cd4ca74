// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Vocabulary holds the keyword tables the segment classifier matches
// against. Entries are compared case-insensitively against upper-cased
// segment text, so they are stored upper case.
type Vocabulary struct {
	// LocationHints mark a segment as a meeting place when contained in it.
	LocationHints []string `json:"location_hints" yaml:"location_hints" mapstructure:"location_hints"`

	// ConferenceQualifiers turn a bare "CONFERENCE" mention into a place
	// (e.g. "Conference Room", "Conference Call").
	ConferenceQualifiers []string `json:"conference_qualifiers" yaml:"conference_qualifiers" mapstructure:"conference_qualifiers"`

	// PersonHints are agency suffixes that mark an attendee, e.g. "DNR)".
	PersonHints []string `json:"person_hints" yaml:"person_hints" mapstructure:"person_hints"`

	// PersonExclusions are words that rule out a person segment.
	PersonExclusions []string `json:"person_exclusions" yaml:"person_exclusions" mapstructure:"person_exclusions"`

	// ForcedEventPrefixes start a new event when a segment begins with one.
	ForcedEventPrefixes []string `json:"forced_event_prefixes" yaml:"forced_event_prefixes" mapstructure:"forced_event_prefixes"`

	// MeetingTypeKeywords name a distinct kind of meeting.
	MeetingTypeKeywords []string `json:"meeting_type_keywords" yaml:"meeting_type_keywords" mapstructure:"meeting_type_keywords"`

	// SplitMarkers are phrases that always begin a new segment.
	SplitMarkers []string `json:"split_markers" yaml:"split_markers" mapstructure:"split_markers"`

	// NoiseSegments are dropped whenever a segment equals one of them.
	NoiseSegments []string `json:"noise_segments" yaml:"noise_segments" mapstructure:"noise_segments"`
}

// DefaultVocabulary returns the keyword tables for the calendar format the
// heuristics were developed against.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		LocationHints: []string{
			"MICROSOFT TEAMS",
			"IN PERSON",
			"TELECONFERENCE",
			"ZOOM",
			"BOI",
			"ANC",
			"JNU",
			"ROOM",
			"CONF",
			"SUITE",
			"FLOOR",
			"OFFICE",
			"BUILDING",
			"CAPITOL",
			"ANCHORAGE",
			"JUNEAU",
			"PALMER",
			"FAIRBANKS",
			"TEAMS",
		},
		ConferenceQualifiers: []string{"ROOM", "CENTER", "CALL", "LINE"},
		PersonHints: []string{
			"GOV)", "LAW)", "DNR)", "DOL)", "DOC)",
			"DEC)", "DOT)", "EDU)", "JUD)", "LEG)",
		},
		PersonExclusions: []string{
			"STATEHOOD", "DEFENSE", "MEETING", "CONFERENCE", "CABINET", "BRIEFING",
		},
		ForcedEventPrefixes: []string{
			"CHECK IN",
			"STATEHOOD",
			"OP-ED",
			"OP ED",
			"WORK ON LIST",
			"UPDATE",
			"CHIEF'S CONFERENCE",
		},
		MeetingTypeKeywords: []string{
			"MTG:", "HEARING", "BRIEFING", "INTERVIEW", "DEFENSE", "REVIEW", "PRESS CONFERENCE",
		},
		SplitMarkers:  []string{"CHIEF'S CONFERENCE", "CHIEFS CONFERENCE"},
		NoiseSegments: []string{"BOI BOI"},
	}
}

// Merge returns v with every empty table taken from fallback.
func (v Vocabulary) Merge(fallback Vocabulary) Vocabulary {
	pick := func(a, b []string) []string {
		if len(a) > 0 {
			return a
		}
		return b
	}
	return Vocabulary{
		LocationHints:        pick(v.LocationHints, fallback.LocationHints),
		ConferenceQualifiers: pick(v.ConferenceQualifiers, fallback.ConferenceQualifiers),
		PersonHints:          pick(v.PersonHints, fallback.PersonHints),
		PersonExclusions:     pick(v.PersonExclusions, fallback.PersonExclusions),
		ForcedEventPrefixes:  pick(v.ForcedEventPrefixes, fallback.ForcedEventPrefixes),
		MeetingTypeKeywords:  pick(v.MeetingTypeKeywords, fallback.MeetingTypeKeywords),
		SplitMarkers:         pick(v.SplitMarkers, fallback.SplitMarkers),
		NoiseSegments:        pick(v.NoiseSegments, fallback.NoiseSegments),
	}
}
