package report

import "fmt"

// HeaderError reports a recognized header key whose value failed to decode.
type HeaderError struct {
	Key   string
	Value string
	Err   error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("header %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

// RowError reports a tabular row that could not be decoded. A row error
// fails the whole parse.
type RowError struct {
	Line   int
	Fields int   // fields found on the row
	Err    error // nil when the field count was wrong
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("row at line %d: expected %d fields, got %d", e.Line, NumFields, e.Fields)
}

func (e *RowError) Unwrap() error { return e.Err }

// ColumnError reports a column missing from the table header in named mode.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not found in table header", e.Column)
}
