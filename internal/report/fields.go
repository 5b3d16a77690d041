package report

import (
	"fmt"

	"github.com/cleared-dev/fio/internal/model"
)

// NumFields is the number of columns in a transaction row.
const NumFields = 19

type column struct {
	name string // column title in the export's table header (Czech)
	set  func(t *model.Transaction, value string) error
}

func text(field func(*model.Transaction) *string) func(*model.Transaction, string) error {
	return func(t *model.Transaction, v string) error {
		*field(t) = v
		return nil
	}
}

// columns lists the table columns in positional order.
var columns = [NumFields]column{
	{"ID pohybu", text(func(t *model.Transaction) *string { return &t.ID })},
	{"Datum", func(t *model.Transaction, v string) error {
		if v == "" {
			return nil
		}
		d, err := parseValueDate(v)
		if err != nil {
			return err
		}
		t.Date = d
		return nil
	}},
	{"Objem", func(t *model.Transaction, v string) error {
		if v == "" {
			return nil
		}
		d, err := ParseAmount(v)
		if err != nil {
			return err
		}
		t.Amount = d
		return nil
	}},
	{"Měna", text(func(t *model.Transaction) *string { return &t.Currency })},
	{"Protiúčet", text(func(t *model.Transaction) *string { return &t.CounterpartyAccount })},
	{"Název protiúčtu", text(func(t *model.Transaction) *string { return &t.CounterpartyName })},
	{"Kód banky", text(func(t *model.Transaction) *string { return &t.CounterpartyBankCode })},
	{"Název banky", text(func(t *model.Transaction) *string { return &t.CounterpartyBankName })},
	{"KS", text(func(t *model.Transaction) *string { return &t.KS })},
	{"VS", text(func(t *model.Transaction) *string { return &t.VS })},
	{"SS", text(func(t *model.Transaction) *string { return &t.SS })},
	{"Uživatelská identifikace", text(func(t *model.Transaction) *string { return &t.UserIdentification })},
	{"Zpráva pro příjemce", text(func(t *model.Transaction) *string { return &t.MessageForRecipient })},
	{"Typ", text(func(t *model.Transaction) *string { return &t.Type })},
	{"Provedl", text(func(t *model.Transaction) *string { return &t.Performer })},
	{"Upřesnění", text(func(t *model.Transaction) *string { return &t.Details })},
	{"Komentář", text(func(t *model.Transaction) *string { return &t.Comments })},
	{"BIC", text(func(t *model.Transaction) *string { return &t.BIC })},
	{"ID pokynu", text(func(t *model.Transaction) *string { return &t.OrderID })},
}

// ColumnNames returns the table header titles in positional order.
func ColumnNames() []string {
	names := make([]string, NumFields)
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// decodeFields builds a transaction from a full positional row.
func decodeFields(fields []string) (model.Transaction, error) {
	var t model.Transaction
	for i, c := range columns {
		if err := c.set(&t, fields[i]); err != nil {
			return model.Transaction{}, fmt.Errorf("column %q: %w", c.name, err)
		}
	}
	return t, nil
}
