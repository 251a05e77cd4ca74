// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/calparse/pkg/types"
)

const (
	// baselineTolerance is the vertical drift, in points, allowed between
	// glyphs of one word.
	baselineTolerance = 3.0
	// gapTolerance is the horizontal gap, in points, that separates words
	// when the content stream carries no space glyph.
	gapTolerance = 3.0
)

// Glyph is one positioned run of text as drawn by the content stream. X and
// Y are in PDF user space, Y increasing upwards.
type Glyph struct {
	Text string
	Font string
	X    float64
	Y    float64
	W    float64
}

// boldMarkers are font-name fragments that mark a bold face, e.g.
// "Arial-BoldMT", "HelveticaBd", "Roboto-Black".
var boldMarkers = []string{"BOLD", "BD", "BLACK"}

// IsBoldFont reports whether a font name denotes a bold face.
func IsBoldFont(font string) bool {
	upper := strings.ToUpper(font)
	for _, m := range boldMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// Words assembles glyphs, in drawing order, into word tokens. A word ends
// at whitespace, at a change of baseline, or at a horizontal jump. Top is
// measured from the top of a page pageHeight points tall. Word text is
// NFKC-normalized so ligatures and full-width forms compare as plain text.
func Words(glyphs []Glyph, pageHeight float64) []types.Token {
	var (
		out  []types.Token
		cur  strings.Builder
		word types.Token
		last Glyph
		open bool
	)

	emit := func() {
		if !open {
			return
		}
		word.Text = norm.NFKC.String(cur.String())
		if strings.TrimSpace(word.Text) != "" {
			word.Bold = IsBoldFont(word.Font)
			out = append(out, word)
		}
		cur.Reset()
		open = false
	}

	for _, g := range glyphs {
		if isSpace(g.Text) {
			emit()
			last = g
			continue
		}
		if open && breaksWord(last, g) {
			emit()
		}
		if !open {
			word = types.Token{X0: g.X, Top: pageHeight - g.Y, Font: g.Font}
			open = true
		}
		cur.WriteString(g.Text)
		word.X1 = g.X + g.W
		last = g
	}
	emit()
	return out
}

func breaksWord(prev, next Glyph) bool {
	if math.Abs(next.Y-prev.Y) > baselineTolerance {
		return true
	}
	end := prev.X + prev.W
	return next.X-end > gapTolerance || next.X < prev.X
}

func isSpace(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
