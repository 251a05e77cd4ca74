// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout turns a page's positioned words into text lines and finds
// the calendar header (date and weekday) that opens the schedule region.
package layout

import (
	"sort"
	"strings"

	"github.com/pdiddy/calparse/pkg/types"
)

// BuildLines clusters tokens into lines by vertical position. Tokens are
// ordered by Top and a token joins the current cluster while its Top is
// within tolerance of the previous token's Top, so a cluster may drift
// further than tolerance overall. Each cluster is sorted left to right and
// lines whose text is blank are dropped.
func BuildLines(tokens []types.Token, tolerance float64) []types.Line {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]types.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Top < sorted[j].Top
	})

	var clusters [][]types.Token
	current := []types.Token{sorted[0]}
	last := sorted[0].Top
	for _, tok := range sorted[1:] {
		if tok.Top <= last+tolerance {
			current = append(current, tok)
		} else {
			clusters = append(clusters, current)
			current = []types.Token{tok}
		}
		last = tok.Top
	}
	clusters = append(clusters, current)

	lines := make([]types.Line, 0, len(clusters))
	for _, cluster := range clusters {
		if line, ok := newLine(cluster); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// newLine assembles one cluster into a Line. It reports false when the
// cluster has no visible text.
func newLine(cluster []types.Token) (types.Line, bool) {
	sort.SliceStable(cluster, func(i, j int) bool {
		return cluster[i].X0 < cluster[j].X0
	})

	parts := make([]string, len(cluster))
	x0 := cluster[0].X0
	for i, tok := range cluster {
		parts[i] = tok.Text
		if tok.X0 < x0 {
			x0 = tok.X0
		}
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return types.Line{}, false
	}
	return types.Line{Tokens: cluster, Text: text, X0: x0}, true
}
