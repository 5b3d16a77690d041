// Package fetchlog keeps an append-only CSV record of API calls. The API
// rejects a second call within its rate window, so the last recorded call
// tells when the next one may be made.
package fetchlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the fetch log.
type Entry struct {
	Timestamp    time.Time
	RequestID    string
	Endpoint     string
	Status       int // HTTP status; 0 when no response was received
	Transactions int
	IDTo         string
	Error        string
}

// Header is the CSV header for the fetch log.
const Header = "timestamp,request_id,endpoint,status,transactions,id_to,error"

const (
	numFields       = 7
	colTimestamp    = 0
	colRequestID    = 1
	colEndpoint     = 2
	colStatus       = 3
	colTransactions = 4
	colIDTo         = 5
	colError        = 6
)

// NewEntry starts an entry for a call to endpoint made at ts.
func NewEntry(ts time.Time, endpoint string) Entry {
	return Entry{
		Timestamp: ts.UTC(),
		RequestID: uuid.NewString(),
		Endpoint:  endpoint,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339Nano)
	row[colRequestID] = e.RequestID
	row[colEndpoint] = e.Endpoint
	row[colStatus] = strconv.Itoa(e.Status)
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colIDTo] = e.IDTo
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339Nano, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	status, err := strconv.Atoi(record[colStatus])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing status %q: %w", record[colStatus], err)
	}
	count, err := strconv.Atoi(record[colTransactions])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTransactions], err)
	}

	return Entry{
		Timestamp:    ts,
		RequestID:    record[colRequestID],
		Endpoint:     record[colEndpoint],
		Status:       status,
		Transactions: count,
		IDTo:         record[colIDTo],
		Error:        record[colError],
	}, nil
}

// Append writes entries to the log at path, creating the file and header
// if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening fetch log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening fetch log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading fetch log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// NextAllowed returns the earliest time a new call may be made given the
// logged calls and the rate window. The zero time means immediately.
func NextAllowed(entries []Entry, window time.Duration) time.Time {
	var last time.Time
	for _, e := range entries {
		if e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}
	if last.IsZero() {
		return time.Time{}
	}
	return last.Add(window)
}
