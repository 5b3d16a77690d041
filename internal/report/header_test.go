package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fio/internal/model"
)

const tableHeader = "ID pohybu;Datum;Objem;Měna;Protiúčet;Název protiúčtu;Kód banky;Název banky;KS;VS;SS;Uživatelská identifikace;Zpráva pro příjemce;Typ;Provedl;Upřesnění;Komentář;BIC;ID pokynu"

func TestReadHeader_BlankLineTerminated(t *testing.T) {
	input := strings.Join([]string{
		"accountId;2400000001",
		"bankId;2010",
		"currency;CZK",
		"",
		tableHeader,
	}, "\n")

	rep, res, err := ReadHeader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Lines, "three entries plus the blank line")
	assert.Equal(t, EndBlankLine, res.End)
	assert.Equal(t, "2400000001", rep.AccountID)
	assert.Equal(t, "2010", rep.BankID)
	assert.Equal(t, "CZK", rep.Currency)
}

func TestReadHeader_MissingBlankLine(t *testing.T) {
	input := strings.Join([]string{
		"accountId;2400000001",
		"currency;CZK",
		"idLastDownload;24999999999",
		tableHeader,
		"1;02.10.2023;1,00;CZK;;;;;;;;;;;;;;;",
	}, "\n")

	rep, res, err := ReadHeader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Lines, "table header line must not count as header")
	assert.Equal(t, EndTabularHeader, res.End)
	assert.Equal(t, "24999999999", rep.IDLastDownload)
}

func TestReadHeader_PushesBackTableHeader(t *testing.T) {
	lr := NewLines(strings.NewReader("currency;CZK\n" + tableHeader + "\n"))
	res, err := readHeader(lr, &model.Report{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Lines)

	line, ok := lr.Next()
	require.True(t, ok)
	assert.Equal(t, tableHeader, line)
	assert.Equal(t, 2, lr.Line())
}

func TestReadHeader_AllKeys(t *testing.T) {
	input := strings.Join([]string{
		"accountId;2400000001",
		"bankId;2010",
		"currency;CZK",
		"iban;CZ1020100000002400000001",
		"bic;FIOBCZPPXXX",
		"openingBalance;1 000,00",
		"closingBalance;-12,34",
		"dateStart;01.10.2023",
		"dateEnd;31.10.2023",
		"idFrom;25000000001",
		"idTo;25000000003",
		"idLastDownload;24999999999",
		"",
	}, "\n")

	rep, res, err := ReadHeader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 13, res.Lines)
	assert.Equal(t, "CZ1020100000002400000001", rep.IBAN)
	assert.Equal(t, "FIOBCZPPXXX", rep.BIC)
	assert.True(t, rep.OpeningBalance.Equal(decimal.RequireFromString("1000")))
	assert.True(t, rep.ClosingBalance.Equal(decimal.RequireFromString("-12.34")))
	assert.Equal(t, civil.Date{Year: 2023, Month: time.October, Day: 1}, rep.DateStart)
	assert.Equal(t, civil.Date{Year: 2023, Month: time.October, Day: 31}, rep.DateEnd)
	assert.Equal(t, "25000000001", rep.IDFrom)
	assert.Equal(t, "25000000003", rep.IDTo)
	assert.Equal(t, "24999999999", rep.IDLastDownload)
}

func TestReadHeader_DefaultsWhenAbsent(t *testing.T) {
	rep, res, err := ReadHeader(strings.NewReader("\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Lines)
	assert.Empty(t, rep.AccountID)
	assert.Empty(t, rep.IBAN)
	assert.Empty(t, rep.IDLastDownload)
	assert.True(t, rep.OpeningBalance.IsZero())
	assert.True(t, rep.ClosingBalance.IsZero())
	assert.True(t, rep.DateStart.IsZero())
	assert.True(t, rep.DateEnd.IsZero())
}

func TestReadHeader_IgnoresUnknownAndShortLines(t *testing.T) {
	input := strings.Join([]string{
		"garbage without separator",
		"accountId;2400000001",
		"yearList;2023",
		"currency;CZK",
		"",
	}, "\n")

	rep, res, err := ReadHeader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Lines)
	assert.Equal(t, "2400000001", rep.AccountID)
	assert.Equal(t, "CZK", rep.Currency)
}

func TestReadHeader_EndOfInput(t *testing.T) {
	rep, res, err := ReadHeader(strings.NewReader("accountId;1\ncurrency;EUR"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Lines)
	assert.Equal(t, EndOfInput, res.End)
	assert.Equal(t, "EUR", rep.Currency)
}

func TestReadHeader_BadValues(t *testing.T) {
	tests := []struct {
		line string
		key  string
	}{
		{"openingBalance;lots", KeyOpeningBalance},
		{"closingBalance;", KeyClosingBalance},
		{"dateStart;2023-10-01", KeyDateStart},
		{"dateEnd;32.10.2023", KeyDateEnd},
	}
	for _, tt := range tests {
		_, _, err := ReadHeader(strings.NewReader("accountId;1\n" + tt.line + "\n\n"))
		require.Error(t, err, tt.line)

		var herr *HeaderError
		require.True(t, errors.As(err, &herr), "expected HeaderError for %q, got %v", tt.line, err)
		assert.Equal(t, tt.key, herr.Key)
		assert.Contains(t, err.Error(), tt.key)
	}
}
