// Package export writes reports back out, either in the bank's own
// semicolon layout or as a plain comma-separated file.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/fio/internal/model"
	"github.com/cleared-dev/fio/internal/report"
)

// Header is the CSV header written by WriteCSV.
const Header = "id,date,amount,currency,counterparty_account,counterparty_name,counterparty_bank_code,counterparty_bank_name,ks,vs,ss,user_identification,message,type,performer,details,comments,bic,order_id"

// MarshalTransaction converts a transaction to its positional fields, with
// amount and date in the bank's locale.
func MarshalTransaction(t model.Transaction) []string {
	date := ""
	if !t.Date.IsZero() {
		date = report.FormatDate(t.Date)
	}
	return []string{
		t.ID,
		date,
		report.FormatAmount(t.Amount),
		t.Currency,
		t.CounterpartyAccount,
		t.CounterpartyName,
		t.CounterpartyBankCode,
		t.CounterpartyBankName,
		t.KS,
		t.VS,
		t.SS,
		t.UserIdentification,
		t.MessageForRecipient,
		t.Type,
		t.Performer,
		t.Details,
		t.Comments,
		t.BIC,
		t.OrderID,
	}
}

// WriteFio writes rep in the export layout: the key;value header block, a
// blank line, the table header row and one row per transaction. Fields
// containing the separator are quoted; a field containing a double quote
// cannot be represented and is an error.
func WriteFio(w io.Writer, rep *model.Report) error {
	bw := bufio.NewWriter(w)

	for _, kv := range headerEntries(rep) {
		if strings.ContainsRune(kv[1], report.Separator) {
			return fmt.Errorf("header %s: value %q contains separator", kv[0], kv[1])
		}
		fmt.Fprintf(bw, "%s;%s\n", kv[0], kv[1])
	}
	bw.WriteString("\n")
	bw.WriteString(strings.Join(report.ColumnNames(), string(report.Separator)) + "\n")

	for i, t := range rep.Transactions {
		fields := MarshalTransaction(t)
		for j, f := range fields {
			q, ok := report.QuoteField(f, report.Separator)
			if !ok {
				return fmt.Errorf("transaction %d: field %d %q contains a double quote", i+1, j+1, f)
			}
			fields[j] = q
		}
		bw.WriteString(strings.Join(fields, string(report.Separator)) + "\n")
	}
	return bw.Flush()
}

func headerEntries(rep *model.Report) [][2]string {
	entries := [][2]string{
		{report.KeyAccountID, rep.AccountID},
		{report.KeyBankID, rep.BankID},
		{report.KeyCurrency, rep.Currency},
		{report.KeyIBAN, rep.IBAN},
		{report.KeyBIC, rep.BIC},
		{report.KeyOpeningBalance, report.FormatAmount(rep.OpeningBalance)},
		{report.KeyClosingBalance, report.FormatAmount(rep.ClosingBalance)},
	}
	if !rep.DateStart.IsZero() {
		entries = append(entries, [2]string{report.KeyDateStart, report.FormatDate(rep.DateStart)})
	}
	if !rep.DateEnd.IsZero() {
		entries = append(entries, [2]string{report.KeyDateEnd, report.FormatDate(rep.DateEnd)})
	}
	entries = append(entries,
		[2]string{report.KeyIDFrom, rep.IDFrom},
		[2]string{report.KeyIDTo, rep.IDTo},
	)
	if rep.IDLastDownload != "" {
		entries = append(entries, [2]string{report.KeyIDLastDownload, rep.IDLastDownload})
	}
	return entries
}

// WriteCSV writes transactions as a comma-separated file with Header,
// yyyy-mm-dd dates and dot decimals.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		row := MarshalTransaction(t)
		row[1] = ""
		if !t.Date.IsZero() {
			row[1] = t.Date.String()
		}
		row[2] = t.Amount.StringFixed(2)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
