package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/fio/internal/model"
)

// Strategy selects how the parser moves from the header block to the table.
type Strategy string

const (
	// StrategyStreaming parses header and table in one forward pass.
	StrategyStreaming Strategy = "streaming"
	// StrategyBuffered reads the whole export, parses the header block, then
	// re-scans from the start skipping the header lines.
	StrategyBuffered Strategy = "buffered"
)

// ParseStrategy parses a strategy name, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyStreaming, StrategyBuffered:
		return st, nil
	}
	return "", fmt.Errorf("unknown parse strategy %q (want %q or %q)", s, StrategyStreaming, StrategyBuffered)
}

// Parser turns a transaction export into a Report.
type Parser struct {
	decoder  BodyDecoder
	strategy Strategy
	logger   *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrategy sets the parse strategy. The default is StrategyStreaming.
func WithStrategy(s Strategy) Option {
	return func(p *Parser) { p.strategy = s }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// NewParser creates a parser using decoder for the table section.
func NewParser(decoder BodyDecoder, opts ...Option) *Parser {
	p := &Parser{
		decoder:  decoder,
		strategy: StrategyStreaming,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewParserForMode creates a parser with the built-in decoder for mode.
func NewParserForMode(mode Mode, opts ...Option) (*Parser, error) {
	d := DefaultRegistry().Get(mode)
	if d == nil {
		return nil, fmt.Errorf("no decoder for table mode %q", mode)
	}
	return NewParser(d, opts...), nil
}

// Mode returns the table mode of the parser's decoder.
func (p *Parser) Mode() Mode { return p.decoder.Mode() }

// Strategy returns the parser's strategy.
func (p *Parser) Strategy() Strategy { return p.strategy }

// Parse reads a full export from r. On any error no report is returned.
func (p *Parser) Parse(r io.Reader) (*model.Report, error) {
	switch p.strategy {
	case StrategyBuffered:
		return p.parseBuffered(r)
	case StrategyStreaming, "":
		return p.parseStreaming(r)
	}
	return nil, fmt.Errorf("unknown parse strategy %q", p.strategy)
}

func (p *Parser) parseStreaming(r io.Reader) (*model.Report, error) {
	lr := NewLines(r)
	rep := &model.Report{}

	hdr, err := readHeader(lr, rep)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	p.logHeader(hdr)

	return p.decodeBody(lr, rep)
}

func (p *Parser) parseBuffered(r io.Reader) (*model.Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	rep := &model.Report{}
	hdr, err := readHeader(NewLines(bytes.NewReader(data)), rep)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	p.logHeader(hdr)

	// Re-scan, skipping the header block.
	lr := NewLines(bytes.NewReader(data))
	lr.Skip(hdr.Lines)

	return p.decodeBody(lr, rep)
}

func (p *Parser) decodeBody(lr *Lines, rep *model.Report) (*model.Report, error) {
	txns, err := p.decoder.Decode(lr)
	if err != nil {
		return nil, fmt.Errorf("reading transactions (%s): %w", p.decoder.Mode(), err)
	}
	rep.Transactions = txns
	p.logger.Debug("parsed transaction export",
		"account", rep.Number(), "transactions", len(txns), "mode", p.decoder.Mode())
	return rep, nil
}

func (p *Parser) logHeader(hdr HeaderResult) {
	if hdr.End == EndTabularHeader {
		p.logger.Debug("header block ended without blank line", "lines", hdr.Lines)
		return
	}
	p.logger.Debug("header block read", "lines", hdr.Lines)
}
