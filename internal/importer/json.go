package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/offerlab/internal/model"
)

// JSONParser reads the extraction service's transaction array.
type JSONParser struct{}

type jsonRecord struct {
	Date          string           `json:"date"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"`
	Type          string           `json:"type"`
	EndingBalance *decimal.Decimal `json:"ending_balance"`
	CategoryHint  string           `json:"category_hint"`
}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// Parse decodes a JSON array of records. A record without a type is a debit
// when its amount is negative and a credit otherwise; amounts are stored
// unsigned and recognised dates are normalised.
func (p *JSONParser) Parse(r io.Reader) ([]model.Transaction, error) {
	var records []jsonRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}

	txns := make([]model.Transaction, 0, len(records))
	for i, rec := range records {
		typ := model.TxnCredit
		if rec.Amount.IsNegative() {
			typ = model.TxnDebit
		}
		if rec.Type != "" {
			var err error
			typ, err = model.ParseTxnType(rec.Type)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
		}
		date := rec.Date
		if iso, ok := model.NormalizeDate(date); ok {
			date = iso
		}
		txns = append(txns, model.Transaction{
			Date:          date,
			Description:   rec.Description,
			Amount:        rec.Amount.Abs(),
			Type:          typ,
			EndingBalance: rec.EndingBalance,
			CategoryHint:  rec.CategoryHint,
		})
	}
	return txns, nil
}
