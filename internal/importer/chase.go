package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/offerlab/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports.
type ChaseParser struct{}

const (
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
	chaseColBalance = 5
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns Transactions. Dates are normalised to
// YYYY-MM-DD when recognised and passed through untouched otherwise, so that
// analysis can skip them. Amounts and balances must parse.
func (p *ChaseParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseChaseRow(rec []string) (model.Transaction, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(rec[chaseColAmount]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	date := rec[chaseColDate]
	if iso, ok := model.NormalizeDate(date); ok {
		date = iso
	}

	typ := model.TxnCredit
	if amount.IsNegative() {
		typ = model.TxnDebit
	}

	txn := model.Transaction{
		Date:         date,
		Description:  rec[chaseColDesc],
		Amount:       amount.Abs(),
		Type:         typ,
		CategoryHint: rec[chaseColType],
	}

	if raw := strings.TrimSpace(rec[chaseColBalance]); raw != "" {
		bal, err := decimal.NewFromString(raw)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", raw, err)
		}
		txn.EndingBalance = &bal
	}

	return txn, nil
}
