// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/calparse/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "db", "calendar.db")})
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { s.Close() })
	return s
}

func day(d int) time.Time {
	return time.Date(2023, time.September, d, 0, 0, 0, 0, time.UTC)
}

func rec(d int, name, place, person string) types.Record {
	return types.Record{Date: day(d), Fields: types.Fields{EventName: name, MeetingPlace: place, Person: person}}
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	_, err := s.Ingest(ctx, "week1.pdf", []types.Record{
		rec(7, "Budget hearing", "Capitol Room 120", "Smith, John"),
		rec(7, "Staff meeting", "Zoom", ""),
		rec(9, "", "", ""),
	})
	require.NoError(t, err)
	_, err = s.Ingest(ctx, "week2.pdf", []types.Record{
		rec(8, "Press call PH: John Doe", "", ""),
		rec(14, "Cabinet budget review", "Juneau Office", "Jane Doe"),
	})
	require.NoError(t, err)
}

func names(records []types.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.EventName
	}
	return out
}

func TestIngest_Replace(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	replaced, err := s.Ingest(ctx, "week1.pdf", []types.Record{rec(7, "Old event", "", "")})
	require.NoError(t, err)
	assert.False(t, replaced)

	replaced, err = s.Ingest(ctx, "week1.pdf", []types.Record{rec(7, "New event", "", ""), rec(8, "Another", "", "")})
	require.NoError(t, err)
	assert.True(t, replaced)

	got, err := s.Query(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"New event", "Another"}, names(got))

	got, err = s.Query(ctx, QueryOptions{Query: "Old"})
	require.NoError(t, err)
	assert.Empty(t, got, "replaced rows leave the full-text index")

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, Document{Source: "week1.pdf", IngestedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Records: 2}, docs[0])
}

func TestIngest_EmptySource(t *testing.T) {
	s := testStore(t)
	_, err := s.Ingest(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestQuery_Structured(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	ctx := context.Background()

	all, err := s.Query(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Budget hearing", "Staff meeting", "Press call PH: John Doe", "", "Cabinet budget review"}, names(all))
	assert.Equal(t, "week1.pdf", all[0].Source)
	assert.True(t, day(7).Equal(all[0].Date))
	assert.True(t, all[3].IsPlaceholder())

	ranged, err := s.Query(ctx, QueryOptions{From: day(8), To: day(9)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Press call PH: John Doe", ""}, names(ranged))

	bySource, err := s.Query(ctx, QueryOptions{Source: "week2.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Press call PH: John Doe", "Cabinet budget review"}, names(bySource))

	limited, err := s.Query(ctx, QueryOptions{MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestQuery_FullText(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	ctx := context.Background()

	budget, err := s.Query(ctx, QueryOptions{Query: "budget"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Budget hearing", "Cabinet budget review"}, names(budget))

	// Person and place columns are indexed too.
	doe, err := s.Query(ctx, QueryOptions{Query: "doe"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Press call PH: John Doe", "Cabinet budget review"}, names(doe))

	place, err := s.Query(ctx, QueryOptions{Query: "meeting_place:zoom"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Staff meeting"}, names(place))

	filtered, err := s.Query(ctx, QueryOptions{Query: "budget", Source: "week1.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Budget hearing"}, names(filtered))
}

func TestQuery_BadMatchExpression(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	_, err := s.Query(context.Background(), QueryOptions{Query: `"unterminated`})
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.Export(context.Background(), &buf, types.FormatCSV, QueryOptions{To: day(7)}))
	assert.Equal(t,
		"date,Event Name,Meeting Place,Person,Source PDF\n"+
			"2023-09-07,Budget hearing,Capitol Room 120,\"Smith, John\",week1.pdf\n"+
			"2023-09-07,Staff meeting,Zoom,,week1.pdf\n",
		buf.String())

	buf.Reset()
	require.NoError(t, s.Export(context.Background(), &buf, types.FormatYAML, QueryOptions{Source: "week2.pdf"}))
	assert.Contains(t, buf.String(), "event_name: Cabinet budget review")
	assert.Contains(t, buf.String(), "source: week2.pdf")
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.db")
	s, err := Open(types.StoreConfig{DBPath: path})
	require.NoError(t, err)
	_, err = s.Ingest(context.Background(), "a.pdf", []types.Record{rec(7, "Kept", "", "")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(types.StoreConfig{DBPath: path})
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Query(context.Background(), QueryOptions{Query: "kept"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kept"}, names(got))
}
