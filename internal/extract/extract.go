// Package extract drives calendar event extraction over a document, page by
// page: build lines, locate the date and weekday header, segment the
// schedule into events and format each event into a Record.
package extract

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/pdiddy/calparse/internal/classify"
	"github.com/pdiddy/calparse/internal/fields"
	"github.com/pdiddy/calparse/internal/layout"
	"github.com/pdiddy/calparse/internal/segment"
	"github.com/pdiddy/calparse/pkg/types"
)

// Document is a source of positioned words, one page at a time. Pages are
// numbered from 1.
type Document interface {
	NumPages() int
	Tokens(page int) ([]types.Token, error)
}

// Extractor turns documents into Records. An Extractor holds no per-document
// state and may be shared by concurrent callers as long as w is safe for
// concurrent writes.
type Extractor struct {
	cfg       types.ExtractConfig
	segmenter *segment.Segmenter
	formatter *fields.Formatter
	w         io.Writer
}

// New builds an Extractor from cfg. Page-level warnings are written to w;
// a nil w discards them.
func New(cfg types.ExtractConfig, w io.Writer) *Extractor {
	cfg = cfg.Normalized()
	if w == nil {
		w = io.Discard
	}
	cls := classify.New(cfg.Vocabulary)
	return &Extractor{
		cfg:       cfg,
		segmenter: segment.New(cls, cfg.Layout),
		formatter: fields.New(cls),
		w:         w,
	}
}

// PageRecords extracts the records of a single page. It reports false when
// the page is not a calendar page (no date or no weekday marker). A
// calendar page without events yields one placeholder record carrying only
// the date.
func (e *Extractor) PageRecords(tokens []types.Token) ([]types.Record, bool) {
	if len(tokens) == 0 {
		return nil, false
	}
	lines := layout.BuildLines(tokens, e.cfg.Layout.LineTolerance)

	date, ok := layout.ExtractDate(lines)
	if !ok {
		return nil, false
	}
	day, ok := layout.FindDayLineIndex(lines)
	if !ok {
		return nil, false
	}

	events := e.segmenter.Segment(lines, layout.ScheduleStart(day))
	if len(events) == 0 {
		return []types.Record{{Date: date}}, true
	}

	records := make([]types.Record, len(events))
	for i, ev := range events {
		records[i] = types.Record{Date: date, Fields: e.formatter.Format(ev)}
	}
	return records, true
}

// Records returns a lazy sequence of the document's records in page order.
// A page whose tokens cannot be read is reported on the warning writer and
// skipped. The only error yielded is the context's, after which the
// sequence ends.
func (e *Extractor) Records(ctx context.Context, doc Document) iter.Seq2[types.Record, error] {
	return func(yield func(types.Record, error) bool) {
		for page := 1; page <= doc.NumPages(); page++ {
			if err := ctx.Err(); err != nil {
				yield(types.Record{}, err)
				return
			}

			tokens, err := doc.Tokens(page)
			if err != nil {
				fmt.Fprintf(e.w, "warning: page %d: %v\n", page, err)
				continue
			}

			records, ok := e.PageRecords(tokens)
			if !ok {
				continue
			}
			for _, r := range records {
				if !yield(r, nil) {
					return
				}
			}
		}
	}
}

// ExtractAll collects every record of doc. A document without calendar
// pages yields an empty slice and no error.
func (e *Extractor) ExtractAll(ctx context.Context, doc Document) ([]types.Record, error) {
	var out []types.Record
	for r, err := range e.Records(ctx, doc) {
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}
