// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Token is a single word extracted from a PDF page together with its
// position. Coordinates are in PDF points; Top grows downward from the top
// edge of the page so that sorting by Top yields reading order.
type Token struct {
	// Text is the word's text with surrounding whitespace removed.
	Text string `json:"text" yaml:"text"`

	// X0 is the x coordinate of the word's left edge.
	X0 float64 `json:"x0" yaml:"x0"`

	// X1 is the x coordinate of the word's right edge.
	X1 float64 `json:"x1" yaml:"x1"`

	// Top is the distance from the top of the page to the word's baseline.
	Top float64 `json:"top" yaml:"top"`

	// Font is the base font name reported by the PDF (e.g. "ABCDEE+Calibri-Bold").
	Font string `json:"font,omitempty" yaml:"font,omitempty"`

	// Bold reports whether the font name indicates a bold weight.
	Bold bool `json:"bold,omitempty" yaml:"bold,omitempty"`
}

// Line is a run of tokens sharing approximately the same vertical position.
// Tokens are ordered left to right.
type Line struct {
	Tokens []Token `json:"tokens" yaml:"tokens"`

	// Text is the tokens' text joined by single spaces.
	Text string `json:"text" yaml:"text"`

	// X0 is the smallest X0 among the line's tokens.
	X0 float64 `json:"x0" yaml:"x0"`
}

// Event is the ordered list of raw text segments that make up one
// scheduled appointment. The first segment is the provisional event name.
type Event []string
