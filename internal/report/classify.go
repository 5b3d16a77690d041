package report

import "strings"

// Separator is the field delimiter used throughout the export.
const Separator = ';'

// LineKind classifies a line read while scanning the header block.
type LineKind int

const (
	// Ignorable lines carry fewer than two fields; they are skipped.
	Ignorable LineKind = iota
	// BlankSeparator is the empty line between header block and table.
	BlankSeparator
	// HeaderEntry is a "key;value" pair.
	HeaderEntry
	// TabularHeaderMarker is a line with more than two fields: the column
	// names of the table. Some endpoints emit it with no blank line before.
	TabularHeaderMarker
)

func (k LineKind) String() string {
	switch k {
	case Ignorable:
		return "ignorable"
	case BlankSeparator:
		return "blank"
	case HeaderEntry:
		return "header-entry"
	case TabularHeaderMarker:
		return "tabular-header"
	}
	return "unknown"
}

// Classify decides what a header-phase line is by its field count alone.
// Quotes are not interpreted here.
func Classify(line string) LineKind {
	if line == "" {
		return BlankSeparator
	}
	switch n := strings.Count(line, string(Separator)) + 1; {
	case n < 2:
		return Ignorable
	case n == 2:
		return HeaderEntry
	default:
		return TabularHeaderMarker
	}
}
