package model

// AccountInfo identifies the account a report was exported for.
type AccountInfo struct {
	AccountID string
	BankID    string
	Currency  string // ISO 4217, e.g. "CZK"
	IBAN      string
	BIC       string
}

// Number returns the domestic account notation "accountId/bankId".
func (a AccountInfo) Number() string {
	if a.BankID == "" {
		return a.AccountID
	}
	return a.AccountID + "/" + a.BankID
}
