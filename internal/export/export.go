// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes extracted records as CSV, JSON, YAML or
// iCalendar.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/calparse/pkg/types"
)

// Column headers of the tabular output.
var (
	Header       = []string{"date", "Event Name", "Meeting Place", "Person"}
	SourceHeader = "Source PDF"
)

// Options adjust the output of Write.
type Options struct {
	// IncludeSource adds the source document column to CSV output.
	IncludeSource bool

	// Stamp is the DTSTAMP of iCalendar events. Zero means now.
	Stamp time.Time
}

// Entry is the serialized form of a record in JSON and YAML output.
type Entry struct {
	Date         string `json:"date" yaml:"date"`
	EventName    string `json:"event_name" yaml:"event_name"`
	MeetingPlace string `json:"meeting_place" yaml:"meeting_place"`
	Person       string `json:"person" yaml:"person"`
	Source       string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Entries converts records to their serialized form.
func Entries(records []types.Record) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{
			Date:         r.DateString(),
			EventName:    r.EventName,
			MeetingPlace: r.MeetingPlace,
			Person:       r.Person,
			Source:       r.Source,
		}
	}
	return entries
}

// Write writes records to w in the given format.
func Write(w io.Writer, format types.OutputFormat, records []types.Record, opts Options) error {
	switch format {
	case types.FormatCSV, "":
		return WriteCSV(w, records, opts.IncludeSource)
	case types.FormatJSON:
		return WriteJSON(w, records)
	case types.FormatYAML:
		return WriteYAML(w, records)
	case types.FormatICS:
		return WriteICS(w, records, opts.Stamp)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteCSV writes a header row and one row per record. With includeSource
// a trailing column names the source document.
func WriteCSV(w io.Writer, records []types.Record, includeSource bool) error {
	cw := csv.NewWriter(w)
	header := Header
	if includeSource {
		header = append(append([]string(nil), Header...), SourceHeader)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		row := r.Row()
		if includeSource {
			row = append(row, r.Source)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []types.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Entries(records)); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// WriteYAML writes records as a YAML sequence.
func WriteYAML(w io.Writer, records []types.Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Entries(records)); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
