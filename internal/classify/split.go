// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "strings"

// SplitEventText breaks the event column text of one line into segments.
// Segments are separated by semicolons; a phone marker (" PH:") and any
// split marker preceded by whitespace also begin a new segment. Blank and
// noise segments are dropped.
func (c *Classifier) SplitEventText(text string) []string {
	if text == "" {
		return nil
	}

	normalized := strings.ReplaceAll(text, " "+phonePrefix, ";"+phonePrefix)
	for _, re := range c.markers {
		normalized = re.ReplaceAllStringFunc(normalized, func(m string) string {
			return "; " + strings.TrimSpace(m)
		})
	}

	var segs []string
	for _, part := range strings.Split(normalized, ";") {
		part = strings.TrimSpace(part)
		if part == "" || c.noise[strings.ToUpper(part)] {
			continue
		}
		segs = append(segs, part)
	}
	return segs
}
