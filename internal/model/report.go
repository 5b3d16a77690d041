package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Report is one parsed transaction export: header metadata followed by the
// transactions in the order the bank listed them.
type Report struct {
	AccountInfo

	IDFrom         string // first transaction ID in range
	IDTo           string // last transaction ID in range
	IDLastDownload string // only sent by the newer API variant

	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal

	DateStart civil.Date
	DateEnd   civil.Date

	Transactions []Transaction
}

// Total returns the sum of all transaction amounts.
func (r *Report) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range r.Transactions {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// LastID returns the ID of the last booked transaction, or "" if there is none.
// It is the value to pass when advancing the server-side cursor.
func (r *Report) LastID() string {
	for i := len(r.Transactions) - 1; i >= 0; i-- {
		if id := r.Transactions[i].ID; id != "" {
			return id
		}
	}
	return r.IDTo
}
