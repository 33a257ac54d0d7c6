package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxnType is the direction of a transaction relative to the account.
type TxnType string

const (
	TxnCredit TxnType = "credit"
	TxnDebit  TxnType = "debit"
)

// ParseTxnType maps "credit"/"debit" (any case) to a TxnType.
func ParseTxnType(s string) (TxnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit":
		return TxnCredit, nil
	case "debit":
		return TxnDebit, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Transaction is a classified bank statement line as delivered by the
// upstream extraction service. Amount is always non-negative; Type carries
// the direction. Date is kept as received so that unparseable values can be
// skipped rather than rejected.
type Transaction struct {
	Date          string           `json:"date"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"`
	Type          TxnType          `json:"type"`
	EndingBalance *decimal.Decimal `json:"ending_balance,omitempty"` // balance as of this transaction's day
	CategoryHint  string           `json:"category_hint,omitempty"`
}

// IsCredit reports whether the transaction adds money to the account.
func (t Transaction) IsCredit() bool { return t.Type == TxnCredit }

// IsDebit reports whether the transaction removes money from the account.
func (t Transaction) IsDebit() bool { return t.Type == TxnDebit }

// Time returns the parsed UTC date, or false if Date is not recognised.
func (t Transaction) Time() (time.Time, bool) {
	d, err := ParseDate(t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
