// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/calparse/pkg/types"
)

// testPage is one page of a generated PDF. An empty mediaBox makes the page
// inherit the 612x792 box set on the page tree root.
type testPage struct {
	mediaBox string
	content  string
}

// buildPDF writes a minimal uncompressed PDF. F1 is Helvetica and F2 is
// Helvetica-Bold; every character in both is 500 units wide, so 5 points
// at size 10.
func buildPDF(pages ...testPage) []byte {
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	font := func(base string) string {
		return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding"+
			" /FirstChar 32 /LastChar 126 /Widths [%s] >>", base, widths)
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 5+2*i)
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
			strings.Join(kids, " "), len(pages)),
		font("Helvetica"),
		font("Helvetica-Bold"),
	}
	for i, p := range pages {
		box := ""
		if p.mediaBox != "" {
			box = " /MediaBox " + p.mediaBox
		}
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R%s /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>",
				box, 6+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(p.content), p.content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func text(font string, x, y float64, s string) string {
	return fmt.Sprintf("BT /%s 10 Tf %g %g Td (%s) Tj ET\n", font, x, y, s)
}

var calendarPDF = buildPDF(
	testPage{content: text("F1", 20, 700, "9:00") +
		text("F2", 80, 700, "Staff meeting; Room 5") +
		text("F1", 20, 680, "Monday")},
	testPage{mediaBox: "[0 0 612 1008]", content: text("F1", 20, 900, "Zoom")},
	testPage{content: "BT 1 Td ET"},
)

type word struct {
	Text string
	X0   float64
	X1   float64
	Top  float64
	Bold bool
}

func wordsOf(toks []types.Token) []word {
	out := make([]word, len(toks))
	for i, t := range toks {
		out[i] = word{Text: t.Text, X0: t.X0, X1: t.X1, Top: t.Top, Bold: t.Bold}
	}
	return out
}

func TestTokens_InheritedMediaBox(t *testing.T) {
	doc, err := OpenReader(bytes.NewReader(calendarPDF), int64(len(calendarPDF)))
	require.NoError(t, err)
	defer doc.Close()
	require.Equal(t, 3, doc.NumPages())

	toks, err := doc.Tokens(1)
	require.NoError(t, err)
	assert.Equal(t, []word{
		{Text: "9:00", X0: 20, X1: 40, Top: 92},
		{Text: "Staff", X0: 80, X1: 105, Top: 92, Bold: true},
		{Text: "meeting;", X0: 110, X1: 150, Top: 92, Bold: true},
		{Text: "Room", X0: 155, X1: 175, Top: 92, Bold: true},
		{Text: "5", X0: 180, X1: 185, Top: 92, Bold: true},
		{Text: "Monday", X0: 20, X1: 50, Top: 112},
	}, wordsOf(toks))
	assert.Equal(t, "Helvetica-Bold", toks[1].Font)
}

func TestTokens_OwnMediaBox(t *testing.T) {
	doc, err := OpenReader(bytes.NewReader(calendarPDF), int64(len(calendarPDF)))
	require.NoError(t, err)

	toks, err := doc.Tokens(2)
	require.NoError(t, err)
	assert.Equal(t, []word{{Text: "Zoom", X0: 20, X1: 40, Top: 108}}, wordsOf(toks))
}

func TestTokens_MalformedContent(t *testing.T) {
	doc, err := OpenReader(bytes.NewReader(calendarPDF), int64(len(calendarPDF)))
	require.NoError(t, err)

	_, err = doc.Tokens(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 3: reading content")
}

func TestTokens_OutOfRange(t *testing.T) {
	doc, err := OpenReader(bytes.NewReader(calendarPDF), int64(len(calendarPDF)))
	require.NoError(t, err)

	for _, n := range []int{0, 4} {
		_, err := doc.Tokens(n)
		assert.ErrorIs(t, err, ErrNoPage, "page %d", n)
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.pdf")
	require.NoError(t, os.WriteFile(path, calendarPDF, 0o644))

	doc, err := Open(path)
	require.NoError(t, err)
	toks, err := doc.Tokens(1)
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, "9:00", toks[0].Text)
	assert.NoError(t, doc.Close())
}
