package report

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/fio/internal/model"
)

// Mode selects how the table below the header block is decoded.
type Mode string

const (
	// ModeNamed maps columns by their titles in the table header row.
	ModeNamed Mode = "named"
	// ModePositional ignores the table header row and expects exactly
	// NumFields fields per row in fixed order.
	ModePositional Mode = "positional"
)

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNamed, ModePositional:
		return m, nil
	}
	return "", fmt.Errorf("unknown table mode %q (want %q or %q)", s, ModeNamed, ModePositional)
}

// BodyDecoder decodes the table section of an export. The reader is
// positioned at the table header row, possibly preceded by blank lines.
type BodyDecoder interface {
	Decode(lr *Lines) ([]model.Transaction, error)
	Mode() Mode
}

// Registry holds body decoders by mode.
type Registry struct {
	decoders map[Mode]BodyDecoder
}

// NewRegistry creates an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[Mode]BodyDecoder)}
}

// Register adds a decoder. Panics on duplicate mode.
func (r *Registry) Register(d BodyDecoder) {
	if _, ok := r.decoders[d.Mode()]; ok {
		panic("duplicate table mode: " + string(d.Mode()))
	}
	r.decoders[d.Mode()] = d
}

// Get returns the decoder for mode, or nil.
func (r *Registry) Get(mode Mode) BodyDecoder {
	return r.decoders[mode]
}

// DefaultRegistry returns a registry with both built-in decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&NamedDecoder{})
	r.Register(&PositionalDecoder{})
	return r
}
