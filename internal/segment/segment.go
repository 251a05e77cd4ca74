// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment partitions the schedule lines of a calendar page into
// events. The segmenter is a state machine: Step consumes one line and
// returns the updated State together with any events the line completed,
// so the boundary rules can be exercised one line at a time.
package segment

import (
	"regexp"
	"strings"

	"github.com/pdiddy/calparse/internal/classify"
	"github.com/pdiddy/calparse/internal/layout"
	"github.com/pdiddy/calparse/pkg/types"
)

// boldLookahead is the number of leading event-column tokens checked for a
// bold font.
const boldLookahead = 3

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// State is the segmenter's position between two lines. The zero value is
// not a valid start state; use Segmenter.Start.
type State struct {
	// Current holds the segments of the open event.
	Current []string

	// PendingNewEvent is set after a time stamp with no event text: the
	// next content begins a fresh event.
	PendingNewEvent bool

	// X0 is the leftmost event-column position seen in the open event; it
	// is only meaningful when HasX0 is set.
	X0    float64
	HasX0 bool

	// PendingLocations holds location segments seen while no event was
	// open. They are attached to the next event that opens.
	PendingLocations []string

	// Done is set once a region-end line has been seen. Step ignores
	// further lines.
	Done bool
}

// Segmenter applies the boundary rules using a classifier and layout
// thresholds.
type Segmenter struct {
	cls    *classify.Classifier
	layout types.LayoutConfig
}

// New returns a Segmenter. Zero thresholds in cfg take their defaults.
func New(cls *classify.Classifier, cfg types.LayoutConfig) *Segmenter {
	cfg = types.ExtractConfig{Layout: cfg}.Normalized().Layout
	return &Segmenter{cls: cls, layout: cfg}
}

// Start returns the state before the first schedule line.
func (s *Segmenter) Start() State {
	return State{PendingNewEvent: true}
}

// Segment runs the state machine over lines[start:] and returns the events
// in the order they were completed.
func (s *Segmenter) Segment(lines []types.Line, start int) []types.Event {
	if start < 0 {
		start = 0
	}
	var events []types.Event
	st := s.Start()
	for i := start; i < len(lines) && !st.Done; i++ {
		var done []types.Event
		st, done = s.Step(st, lines[i])
		events = append(events, done...)
	}
	return s.Finish(st, events)
}

// lineParts is a line split at the time column boundary.
type lineParts struct {
	hasTime  bool
	segments []string
	x0       float64
	hasX0    bool
	bold     bool
}

func (s *Segmenter) split(line types.Line) lineParts {
	var p lineParts
	var words []string
	var eventTokens []types.Token
	for _, tok := range line.Tokens {
		if tok.X0 <= s.layout.TimeColumnX {
			p.hasTime = true
			continue
		}
		eventTokens = append(eventTokens, tok)
		words = append(words, tok.Text)
		if !p.hasX0 || tok.X0 < p.x0 {
			p.x0, p.hasX0 = tok.X0, true
		}
	}
	for i, tok := range eventTokens {
		if i >= boldLookahead {
			break
		}
		if tok.Bold {
			p.bold = true
		}
	}
	p.segments = s.cls.SplitEventText(strings.TrimSpace(strings.Join(words, " ")))
	return p
}

// isRegionEnd reports whether line closes the schedule region: another
// weekday marker, another date, or a page number footer.
func (s *Segmenter) isRegionEnd(line types.Line, text string) bool {
	if layout.IsDayName(text) || layout.ContainsDate(text) {
		return true
	}
	return digitsOnly.MatchString(text) && line.X0 > s.layout.FooterMinX
}

// Step consumes one line. It returns the new state and the events the line
// completed, oldest first. Step does not modify st's slices.
func (s *Segmenter) Step(st State, line types.Line) (State, []types.Event) {
	if st.Done {
		return st, nil
	}
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return st, nil
	}
	if s.isRegionEnd(line, text) {
		st.Done = true
		return st, nil
	}

	m := machine{State: st.clone()}
	p := s.split(line)

	if p.hasTime {
		s.timeStamped(&m, p)
	} else if len(p.segments) > 0 {
		s.continuation(&m, p)
	}
	return m.State, m.done
}

// Finish attaches any pending locations and closes the open event. Pending
// locations go to the open event, or else to the last completed event, or
// are discarded when there is none.
func (s *Segmenter) Finish(st State, events []types.Event) []types.Event {
	m := machine{State: st.clone()}
	if len(m.PendingLocations) > 0 {
		if len(m.Current) > 0 {
			m.Current = append(m.Current, m.PendingLocations...)
		} else if len(events) > 0 {
			last := len(events) - 1
			events[last] = append(append(types.Event{}, events[last]...), m.PendingLocations...)
		}
		m.PendingLocations = nil
	}
	m.flush()
	return append(events, m.done...)
}

// timeStamped handles a line that has text in the time column.
func (s *Segmenter) timeStamped(m *machine, p lineParts) {
	// A list of names that happens to share a row with a time stamp
	// continues the open event.
	if len(p.segments) > 0 && !m.PendingNewEvent && len(m.Current) > 0 && s.cls.AllPersons(p.segments) {
		m.Current = append(m.Current, p.segments...)
		if p.hasX0 && !m.HasX0 {
			m.X0, m.HasX0 = p.x0, true
		}
		return
	}

	m.flush()
	m.seedPending()
	if len(p.segments) > 0 {
		m.Current = append(m.Current, p.segments...)
		m.PendingNewEvent = false
		m.X0, m.HasX0 = p.x0, p.hasX0
		return
	}
	m.PendingNewEvent = true
	m.X0, m.HasX0 = 0, false
}

// continuation handles a line with event text but no time stamp.
func (s *Segmenter) continuation(m *machine, p lineParts) {
	allPerson := s.cls.AllPersons(p.segments)
	allLocation := s.cls.AllLocations(p.segments)
	open := len(m.Current) > 0

	switch {
	case allLocation && open:
		m.Current = append(m.Current, p.segments...)
		m.trackX0IfUnset(p)
		return
	case allPerson && open:
		m.Current = append(m.Current, p.segments...)
		return
	case allLocation:
		m.PendingLocations = append(m.PendingLocations, p.segments...)
		m.trackX0IfUnset(p)
		return
	}

	if open && s.forcesNewEvent(m, p, allPerson) {
		m.flush()
		m.seedPending()
	}

	if m.PendingNewEvent && len(m.Current) == 0 {
		m.PendingNewEvent = false
	}
	if len(m.Current) == 0 {
		m.seedPending()
	}
	m.Current = append(m.Current, p.segments...)

	s.resplit(m, p)

	if p.hasX0 {
		if !m.HasX0 || p.x0 < m.X0 {
			m.X0, m.HasX0 = p.x0, true
		}
	}
}

// forcesNewEvent decides whether a mixed or unclassified line ends the
// open event: a large rightward indent, a segment that reads like the
// start of a new entry, or a bold lead-in.
func (s *Segmenter) forcesNewEvent(m *machine, p lineParts, allPerson bool) bool {
	if allPerson {
		return false
	}
	primary := p.segments[0]
	indent := p.hasX0 && m.HasX0 && p.x0-m.X0 > s.layout.IndentThreshold
	switch {
	case indent:
		return true
	case s.cls.ShouldForceNewEvent(primary):
		return true
	case p.bold && !s.cls.IsLocation(primary):
		return true
	}
	return false
}

// resplit closes the open event before the first segment after the first
// that starts with a phone or split marker; that segment and the rest
// become the new open event.
func (s *Segmenter) resplit(m *machine, p lineParts) {
	idx := -1
	for i, seg := range m.Current {
		if i == 0 {
			continue
		}
		if s.cls.StartsWithSplitMarker(seg) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	trailing := append([]string(nil), m.Current[idx:]...)
	m.Current = m.Current[:idx]
	m.flush()
	m.Current = append(m.Current, trailing...)
	m.PendingNewEvent = false
	if p.hasX0 {
		m.X0, m.HasX0 = p.x0, true
	}
}

// machine is a State being advanced by one line, plus the events the line
// has completed so far.
type machine struct {
	State
	done []types.Event
}

func (m *machine) flush() {
	if len(m.Current) > 0 {
		m.done = append(m.done, append(types.Event{}, m.Current...))
	}
	m.Current = nil
	m.PendingNewEvent = true
	m.X0, m.HasX0 = 0, false
}

func (m *machine) seedPending() {
	if len(m.PendingLocations) == 0 {
		return
	}
	m.Current = append(m.Current, m.PendingLocations...)
	m.PendingLocations = nil
}

func (m *machine) trackX0IfUnset(p lineParts) {
	if p.hasX0 && !m.HasX0 {
		m.X0, m.HasX0 = p.x0, true
	}
}

func (st State) clone() State {
	st.Current = append([]string(nil), st.Current...)
	st.PendingLocations = append([]string(nil), st.PendingLocations...)
	return st
}
