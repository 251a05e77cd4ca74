// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/calparse/pkg/types"
)

func day(d int) time.Time {
	return time.Date(2023, time.September, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []types.Record {
	return []types.Record{
		{Date: day(7), Fields: types.Fields{EventName: "Jane Smith (DNR)", MeetingPlace: "Conference Room 400"}, Source: "a.pdf"},
		{Date: day(7), Fields: types.Fields{EventName: "Budget call PH: John Doe", Person: "Smith, John; Jane Doe"}, Source: "a.pdf"},
		{Date: day(8), Source: "b.pdf"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords(), false))
	// The person column contains a comma and is quoted.
	want := "date,Event Name,Meeting Place,Person\n" +
		"2023-09-07,Jane Smith (DNR),Conference Room 400,\n" +
		"2023-09-07,Budget call PH: John Doe,,\"Smith, John; Jane Doe\"\n" +
		"2023-09-08,,,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Source(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()[2:], true))
	assert.Equal(t, "date,Event Name,Meeting Place,Person,Source PDF\n2023-09-08,,,,b.pdf\n", buf.String())
	assert.Len(t, Header, 4, "header must not grow")
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, false))
	assert.Equal(t, "date,Event Name,Meeting Place,Person\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords()))

	var got []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, Entry{Date: "2023-09-07", EventName: "Jane Smith (DNR)", MeetingPlace: "Conference Room 400", Source: "a.pdf"}, got[0])
	assert.Equal(t, "2023-09-08", got[2].Date)
	assert.Contains(t, buf.String(), `"event_name": "Budget call PH: John Doe"`)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleRecords()))

	var got []Entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, Entries(sampleRecords()), got)
}

func TestWriteICS(t *testing.T) {
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	records := append(sampleRecords(), sampleRecords()[0])

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, records, stamp))

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3, "placeholder is omitted")

	summary, err := events[0].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith (DNR)", summary)

	loc, err := events[0].Props.Text(ical.PropLocation)
	require.NoError(t, err)
	assert.Equal(t, "Conference Room 400", loc)

	start, err := events[0].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, day(7).Equal(start))

	desc, err := events[1].Props.Text(ical.PropDescription)
	require.NoError(t, err)
	assert.Equal(t, "Person: Smith, John; Jane Doe\nSource: a.pdf", desc)

	uid0, err := events[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	uid2, err := events[2].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.NotEqual(t, uid0, uid2, "duplicate records get distinct UIDs")
	assert.Equal(t, EventUID(records[0], 0), uid0)
	assert.Equal(t, EventUID(records[0], 1), uid2)
}

func TestEventUID_Deterministic(t *testing.T) {
	r := sampleRecords()[0]
	assert.Equal(t, EventUID(r, 0), EventUID(r, 0))
	other := r
	other.Source = "b.pdf"
	assert.NotEqual(t, EventUID(r, 0), EventUID(other, 0))
}

func TestWrite(t *testing.T) {
	for _, format := range []types.OutputFormat{"", types.FormatCSV, types.FormatJSON, types.FormatYAML, types.FormatICS} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, format, sampleRecords(), Options{Stamp: day(1)}))
			assert.NotEmpty(t, buf.String())
		})
	}

	var buf bytes.Buffer
	err := Write(&buf, "xml", sampleRecords(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}
