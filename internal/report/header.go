package report

import (
	"io"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fio/internal/model"
)

// Header block keys.
const (
	KeyAccountID      = "accountId"
	KeyBankID         = "bankId"
	KeyCurrency       = "currency"
	KeyIBAN           = "iban"
	KeyBIC            = "bic"
	KeyOpeningBalance = "openingBalance"
	KeyClosingBalance = "closingBalance"
	KeyDateStart      = "dateStart"
	KeyDateEnd        = "dateEnd"
	KeyIDFrom         = "idFrom"
	KeyIDTo           = "idTo"
	KeyIDLastDownload = "idLastDownload"
)

type headerDecoder func(r *model.Report, value string) error

func stringField(field func(*model.Report) *string) headerDecoder {
	return func(r *model.Report, v string) error {
		*field(r) = v
		return nil
	}
}

func amountField(field func(*model.Report) *decimal.Decimal) headerDecoder {
	return func(r *model.Report, v string) error {
		d, err := ParseAmount(v)
		if err != nil {
			return err
		}
		*field(r) = d
		return nil
	}
}

func dateField(field func(*model.Report) *civil.Date) headerDecoder {
	return func(r *model.Report, v string) error {
		d, err := ParseDate(v)
		if err != nil {
			return err
		}
		*field(r) = d
		return nil
	}
}

// headerFields maps header keys to their decoders. Unknown keys are ignored.
var headerFields = map[string]headerDecoder{
	KeyAccountID:      stringField(func(r *model.Report) *string { return &r.AccountID }),
	KeyBankID:         stringField(func(r *model.Report) *string { return &r.BankID }),
	KeyCurrency:       stringField(func(r *model.Report) *string { return &r.Currency }),
	KeyIBAN:           stringField(func(r *model.Report) *string { return &r.IBAN }),
	KeyBIC:            stringField(func(r *model.Report) *string { return &r.BIC }),
	KeyIDFrom:         stringField(func(r *model.Report) *string { return &r.IDFrom }),
	KeyIDTo:           stringField(func(r *model.Report) *string { return &r.IDTo }),
	KeyIDLastDownload: stringField(func(r *model.Report) *string { return &r.IDLastDownload }),
	KeyOpeningBalance: amountField(func(r *model.Report) *decimal.Decimal { return &r.OpeningBalance }),
	KeyClosingBalance: amountField(func(r *model.Report) *decimal.Decimal { return &r.ClosingBalance }),
	KeyDateStart:      dateField(func(r *model.Report) *civil.Date { return &r.DateStart }),
	KeyDateEnd:        dateField(func(r *model.Report) *civil.Date { return &r.DateEnd }),
}

// HeaderEnd tells how the header phase stopped.
type HeaderEnd int

const (
	EndOfInput HeaderEnd = iota
	EndBlankLine
	EndTabularHeader
)

// HeaderResult describes the header block just read.
type HeaderResult struct {
	// Lines is the number of lines the header block occupies, including the
	// blank separator but excluding a table header line that followed
	// without one. Skipping exactly Lines lines positions a fresh reader at
	// the table.
	Lines int
	End   HeaderEnd
}

// readHeader consumes the header block from lr into r. When the block ends
// on a table header line that line is pushed back onto lr.
func readHeader(lr *Lines, r *model.Report) (HeaderResult, error) {
	var res HeaderResult
	for {
		line, ok := lr.Next()
		if !ok {
			res.End = EndOfInput
			return res, lr.Err()
		}
		res.Lines++

		switch Classify(line) {
		case BlankSeparator:
			res.End = EndBlankLine
			return res, nil
		case Ignorable:
			continue
		case TabularHeaderMarker:
			lr.Unread(line)
			res.Lines--
			res.End = EndTabularHeader
			return res, nil
		}

		key, value, _ := strings.Cut(line, string(Separator))
		decode, ok := headerFields[key]
		if !ok {
			continue
		}
		if err := decode(r, value); err != nil {
			return res, &HeaderError{Key: key, Value: value, Err: err}
		}
	}
}

// ReadHeader decodes the header block at the start of r.
func ReadHeader(r io.Reader) (*model.Report, HeaderResult, error) {
	rep := &model.Report{}
	res, err := readHeader(NewLines(r), rep)
	if err != nil {
		return nil, res, err
	}
	return rep, res, nil
}
