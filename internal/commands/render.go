package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/k0kubun/pp/v3"

	"github.com/cleared-dev/fio/internal/export"
	"github.com/cleared-dev/fio/internal/model"
	"github.com/cleared-dev/fio/internal/report"
)

// Output formats for transaction listings.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatFio   = "fio"
	FormatDump  = "dump"
)

var formats = []string{FormatTable, FormatCSV, FormatFio, FormatDump}

func checkFormat(f string) error {
	for _, known := range formats {
		if f == known {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of %s)", f, strings.Join(formats, ", "))
}

func writeReport(w io.Writer, rep *model.Report, format string) error {
	switch format {
	case FormatCSV:
		return export.WriteCSV(w, rep.Transactions)
	case FormatFio:
		return export.WriteFio(w, rep)
	case FormatDump:
		printer := pp.New()
		printer.SetOutput(w)
		printer.SetColoringEnabled(false)
		_, err := printer.Println(rep)
		return err
	default:
		return writeTable(w, rep)
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func writeTable(w io.Writer, rep *model.Report) error {
	fmt.Fprintf(w, "Account %s (IBAN %s, %s)\n", rep.Number(), rep.IBAN, rep.Currency)

	if len(rep.Transactions) == 0 {
		_, err := fmt.Fprintf(w, "No transactions from %s to %s.\n",
			report.FormatDate(rep.DateStart), report.FormatDate(rep.DateEnd))
		return err
	}

	fmt.Fprintf(w, "Transactions from %s to %s:\n",
		report.FormatDate(rep.DateStart), report.FormatDate(rep.DateEnd))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Amount", "VS", "Counterparty", "Message").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	for _, txn := range rep.Transactions {
		t.Row(
			report.FormatDate(txn.Date),
			report.FormatAmount(txn.Amount)+" "+txn.Currency,
			txn.VS,
			counterpartyLabel(txn),
			txn.MessageForRecipient,
		)
	}
	fmt.Fprintln(w, t.Render())

	_, err := fmt.Fprintf(w, "%d transactions, total %s, closing balance %s\n",
		len(rep.Transactions), report.FormatAmount(rep.Total()), report.FormatAmount(rep.ClosingBalance))
	return err
}

func counterpartyLabel(t model.Transaction) string {
	acct := t.Counterparty()
	switch {
	case acct == "":
		return t.CounterpartyName
	case t.CounterpartyName == "":
		return acct
	}
	return acct + " (" + t.CounterpartyName + ")"
}
