package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/fio/internal/model"
)

// NamedDecoder maps table columns by the titles in the table header row, so
// column order does not matter and extra columns are ignored. Fields follow
// standard CSV quoting.
type NamedDecoder struct{}

// Mode returns ModeNamed.
func (d *NamedDecoder) Mode() Mode { return ModeNamed }

// Decode reads the table header row and decodes the rows below it.
func (d *NamedDecoder) Decode(lr *Lines) ([]model.Transaction, error) {
	base := lr.Line()

	cr := csv.NewReader(lr.Reader())
	cr.Comma = Separator
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading table header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	txns := []model.Transaction{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return txns, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading table: %w", err)
		}
		line, _ := cr.FieldPos(0)

		fields := make([]string, NumFields)
		for i, pos := range index {
			if pos >= len(rec) {
				return nil, &RowError{Line: base + line, Fields: len(rec)}
			}
			fields[i] = rec[pos]
		}
		t, err := decodeFields(fields)
		if err != nil {
			return nil, &RowError{Line: base + line, Fields: len(rec), Err: err}
		}
		txns = append(txns, t)
	}
}

// columnIndex locates every known column in header, in positional order.
func columnIndex(header []string) ([NumFields]int, error) {
	var index [NumFields]int
	for i, c := range columns {
		found := false
		for pos, title := range header {
			if strings.EqualFold(strings.TrimSpace(title), c.name) {
				index[i] = pos
				found = true
				break
			}
		}
		if !found {
			return index, &ColumnError{Column: c.name}
		}
	}
	return index, nil
}
