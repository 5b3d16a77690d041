package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Transaction is one ledger entry of a transaction export.
type Transaction struct {
	ID                   string // bank-assigned; empty for pending items
	Date                 civil.Date
	Amount               decimal.Decimal // negative = outgoing, positive = incoming
	Currency             string
	CounterpartyAccount  string
	CounterpartyName     string
	CounterpartyBankCode string
	CounterpartyBankName string
	KS                   string // constant symbol
	VS                   string // variable symbol
	SS                   string // specific symbol
	UserIdentification   string
	MessageForRecipient  string
	Type                 string
	Performer            string
	Details              string
	Comments             string
	BIC                  string
	OrderID              string
}

// Counterparty returns the counterparty account in "number/bank code" notation.
// Either half may be missing, e.g. for card payments or fees.
func (t Transaction) Counterparty() string {
	switch {
	case t.CounterpartyAccount == "":
		return ""
	case t.CounterpartyBankCode == "":
		return t.CounterpartyAccount
	}
	return t.CounterpartyAccount + "/" + t.CounterpartyBankCode
}

// Pending reports whether the bank has not assigned an ID yet.
func (t Transaction) Pending() bool { return t.ID == "" }
