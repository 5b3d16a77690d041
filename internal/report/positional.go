package report

import "github.com/cleared-dev/fio/internal/model"

// PositionalDecoder reads rows of exactly NumFields fields in the fixed
// column order, ignoring the titles in the table header row.
type PositionalDecoder struct{}

// Mode returns ModePositional.
func (d *PositionalDecoder) Mode() Mode { return ModePositional }

// Decode reads the table header row, discards it, then decodes every
// non-blank row. Any malformed row fails the whole table.
func (d *PositionalDecoder) Decode(lr *Lines) ([]model.Transaction, error) {
	txns := []model.Transaction{}
	sawHeader := false
	for {
		line, ok := lr.Next()
		if !ok {
			return txns, lr.Err()
		}
		if line == "" {
			continue
		}
		if !sawHeader {
			sawHeader = true
			continue
		}

		fields := SplitFields(line, Separator)
		if len(fields) != NumFields {
			return nil, &RowError{Line: lr.Line(), Fields: len(fields)}
		}
		t, err := decodeFields(fields)
		if err != nil {
			return nil, &RowError{Line: lr.Line(), Fields: len(fields), Err: err}
		}
		txns = append(txns, t)
	}
}
