// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/calparse/pkg/types"
)

func tok(text string, x0, top float64) types.Token {
	return types.Token{Text: text, X0: x0, Top: top}
}

func linesOf(texts ...string) []types.Line {
	lines := make([]types.Line, len(texts))
	for i, s := range texts {
		lines[i] = types.Line{Text: s}
	}
	return lines
}

func TestBuildLines(t *testing.T) {
	tokens := []types.Token{
		tok("Room", 200, 101),
		tok("9:00", 20, 100),
		tok("Staff", 80, 102),
		tok("Lunch", 80, 130),
		tok("meeting;", 110, 100.5),
	}

	lines := BuildLines(tokens, 3)
	require.Len(t, lines, 2)

	assert.Equal(t, "9:00 Staff meeting; Room", lines[0].Text)
	assert.Equal(t, 20.0, lines[0].X0)
	require.Len(t, lines[0].Tokens, 4)
	assert.Equal(t, "9:00", lines[0].Tokens[0].Text)

	assert.Equal(t, "Lunch", lines[1].Text)
	assert.Equal(t, 80.0, lines[1].X0)
}

func TestBuildLines_ChainedTolerance(t *testing.T) {
	// Each step is within tolerance, so all three join one line even
	// though the first and last are 4 units apart.
	tokens := []types.Token{tok("a", 10, 100), tok("b", 20, 102), tok("c", 30, 104)}
	lines := BuildLines(tokens, 3)
	require.Len(t, lines, 1)
	assert.Equal(t, "a b c", lines[0].Text)
}

func TestBuildLines_DropsBlank(t *testing.T) {
	tokens := []types.Token{tok("  ", 10, 50), tok("Text", 10, 80)}
	lines := BuildLines(tokens, 3)
	require.Len(t, lines, 1)
	assert.Equal(t, "Text", lines[0].Text)

	assert.Nil(t, BuildLines(nil, 3))
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name   string
		lines  []types.Line
		want   time.Time
		wantOK bool
	}{
		{
			name:   "date with surrounding text",
			lines:  linesOf("Calendar", "Thursday, September 7, 2023 (updated)"),
			want:   time.Date(2023, time.September, 7, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "lowercase month",
			lines:  linesOf("october 12, 2023"),
			want:   time.Date(2023, time.October, 12, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "invalid match skipped for later line",
			lines:  linesOf("Room 12, 2023", "Septembre 40, 2023", "May 1, 2024"),
			want:   time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "second match on same line",
			lines:  linesOf("Suite 5, 2020 then March 3, 2021"),
			want:   time.Date(2021, time.March, 3, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:  "no date",
			lines: linesOf("Monday", "Time Event"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(tt.lines)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindDayLineIndex(t *testing.T) {
	for _, day := range []string{"Monday", "TUESDAY", "wednesday", " Thursday ", "Friday", "Saturday", "Sunday"} {
		t.Run(day, func(t *testing.T) {
			idx, ok := FindDayLineIndex(linesOf("September 7, 2023", day, "Time Event"))
			require.True(t, ok)
			assert.Equal(t, 1, idx)
		})
	}

	_, ok := FindDayLineIndex(linesOf("Mondays", "Monday morning", "Thursday, September 7, 2023"))
	assert.False(t, ok)
}

func TestScheduleStart(t *testing.T) {
	assert.Equal(t, 5, ScheduleStart(3))
}

func TestContainsDate(t *testing.T) {
	assert.True(t, ContainsDate("Friday, September 8, 2023"))
	assert.False(t, ContainsDate("9:00 AM Staff"))
}
