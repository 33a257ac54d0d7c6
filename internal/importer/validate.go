package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/offerlab/internal/model"
)

// Check names an input problem Validate reports.
type Check string

const (
	CheckDate        Check = "date"
	CheckType        Check = "type"
	CheckAmount      Check = "amount"
	CheckPrecision   Check = "precision"
	CheckDescription Check = "description"
)

// ValidationError describes one problem with one imported transaction.
// None of them stop analysis: bad dates are skipped there, the rest are
// processed as given.
type ValidationError struct {
	Index       int
	Check       Check
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("transaction %d [%s]: %s", e.Index, e.Check, e.Description)
}

// Validate reports transactions the upstream contract does not allow.
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	hundred := decimal.NewFromInt(100)

	for i, txn := range txns {
		if _, ok := txn.Time(); !ok {
			errs = append(errs, ValidationError{
				Index:       i,
				Check:       CheckDate,
				Description: fmt.Sprintf("unrecognised date %q; excluded from monthly figures", txn.Date),
			})
		}

		if txn.Type != model.TxnCredit && txn.Type != model.TxnDebit {
			errs = append(errs, ValidationError{
				Index:       i,
				Check:       CheckType,
				Description: fmt.Sprintf("unknown type %q", txn.Type),
			})
		}

		if txn.Amount.IsNegative() {
			errs = append(errs, ValidationError{
				Index:       i,
				Check:       CheckAmount,
				Description: fmt.Sprintf("amount %s is negative", txn.Amount),
			})
		}

		// No more than 2 decimal places.
		if scaled := txn.Amount.Mul(hundred); !scaled.Equal(scaled.Floor()) {
			errs = append(errs, ValidationError{
				Index:       i,
				Check:       CheckPrecision,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", txn.Amount),
			})
		}

		if strings.TrimSpace(txn.Description) == "" {
			errs = append(errs, ValidationError{
				Index:       i,
				Check:       CheckDescription,
				Description: "empty description",
			})
		}
	}

	return errs
}
