// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/calparse/internal/export"
	"github.com/pdiddy/calparse/pkg/types"
)

// exportLimit caps Export, which otherwise returns everything.
const exportLimit = 1000000

// QueryOptions holds parameters for calendar queries.
type QueryOptions struct {
	// Query is an FTS5 match expression over event name, meeting place
	// and person.
	Query string

	// From and To bound the event date, inclusive. Zero means unbounded.
	From time.Time
	To   time.Time

	// Source filters by document name.
	Source string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Query returns stored records matching opts. Full-text queries are
// ordered by relevance; other queries by date, then source, then position
// in the source.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.Record, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT e.date, e.event_name, e.meeting_place, e.person, e.source
			FROM events_fts
			JOIN events e ON e.rowid = events_fts.rowid
			WHERE events_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT e.date, e.event_name, e.meeting_place, e.person, e.source
			FROM events e
			WHERE 1=1`)
	}

	if !opts.From.IsZero() {
		qb.WriteString(` AND e.date >= ?`)
		args = append(args, opts.From.Format(types.DateLayout))
	}
	if !opts.To.IsZero() {
		qb.WriteString(` AND e.date <= ?`)
		args = append(args, opts.To.Format(types.DateLayout))
	}
	if opts.Source != "" {
		qb.WriteString(` AND e.source = ?`)
		args = append(args, opts.Source)
	}

	if useFTS {
		qb.WriteString(` ORDER BY events_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY e.date, e.source, e.seq`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying calendar: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var (
			r    types.Record
			date string
		)
		if err := rows.Scan(&date, &r.EventName, &r.MeetingPlace, &r.Person, &r.Source); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if date != "" {
			if r.Date, err = time.Parse(types.DateLayout, date); err != nil {
				return nil, fmt.Errorf("parsing stored date %q: %w", date, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Export writes every record matching opts to w in the given format, with
// the source column included.
func (s *Store) Export(ctx context.Context, w io.Writer, format types.OutputFormat, opts QueryOptions) error {
	opts.MaxResults = exportLimit
	records, err := s.Query(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	return export.Write(w, format, records, export.Options{IncludeSource: true})
}
