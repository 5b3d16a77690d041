package fetchlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRoundTrip(t *testing.T) {
	e := Entry{
		Timestamp:    time.Date(2023, 10, 31, 8, 0, 0, 123000000, time.UTC),
		RequestID:    "6f1c0e7a-4b8e-4c84-9b7b-2f0a1c7d9e11",
		Endpoint:     "last",
		Status:       200,
		Transactions: 3,
		IDTo:         "25000000003",
	}
	got, err := UnmarshalEntry(MarshalEntry(e))
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	got.Timestamp = e.Timestamp
	assert.Equal(t, e, got)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a"})
	assert.Error(t, err)

	row := MarshalEntry(NewEntry(time.Now(), "last"))
	row[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)

	row = MarshalEntry(NewEntry(time.Now(), "last"))
	row[colStatus] = "ok"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)
}

func TestNewEntry(t *testing.T) {
	ts := time.Date(2023, 10, 31, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	e := NewEntry(ts, "periods")
	assert.Equal(t, "periods", e.Endpoint)
	assert.Len(t, e.RequestID, 36)
	assert.Equal(t, time.UTC, e.Timestamp.Location())
	assert.True(t, ts.Equal(e.Timestamp))

	assert.NotEqual(t, e.RequestID, NewEntry(ts, "periods").RequestID)
}

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fetch-log.csv")

	first := NewEntry(time.Date(2023, 10, 31, 8, 0, 0, 0, time.UTC), "last")
	first.Status = 200
	require.NoError(t, Append(path, []Entry{first}))

	second := NewEntry(time.Date(2023, 10, 31, 8, 0, 10, 0, time.UTC), "set-last-id")
	second.Status = 409
	second.Error = "set-last-id: GET https://x/***: 409 Conflict, retry later"
	require.NoError(t, Append(path, []Entry{second}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "last", entries[0].Endpoint)
	assert.Equal(t, 409, entries[1].Status)
	assert.Equal(t, second.Error, entries[1].Error)
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch-log.csv")
	require.NoError(t, os.WriteFile(path, []byte(Header+"\nnot,a,valid,row,at,all,!\n"), 0o644))

	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestNextAllowed(t *testing.T) {
	assert.True(t, NextAllowed(nil, 30*time.Second).IsZero())

	t0 := time.Date(2023, 10, 31, 8, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Timestamp: t0.Add(20 * time.Second)},
		{Timestamp: t0},
	}
	assert.Equal(t, t0.Add(50*time.Second), NextAllowed(entries, 30*time.Second))
}
