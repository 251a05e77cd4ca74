package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/calparse/internal/export"
	"github.com/pdiddy/calparse/pkg/types"
)

// markdown renders GFM tables. Raw HTML in cells is not passed through.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// MarkdownTable lays records out as a GFM table with the source column.
func MarkdownTable(records []types.Record) string {
	var b strings.Builder
	header := append(append([]string(nil), export.Header...), export.SourceHeader)
	writeRow(&b, header)
	b.WriteString("|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, r := range records {
		writeRow(&b, append(r.Row(), r.Source))
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// escapeCell backslash-escapes ASCII punctuation so cell text is shown
// literally and cannot break out of its column.
func escapeCell(s string) string {
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(s), " ") {
		if r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// renderTable converts records to HTML through the Markdown table.
func renderTable(records []types.Record) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(MarkdownTable(records)), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
