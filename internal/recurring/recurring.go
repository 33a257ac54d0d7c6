// Package recurring finds debit obligations that repeat across a statement
// history, independent of month boundaries.
package recurring

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/offerlab/internal/model"
)

// MinOccurrences is the smallest group size reported as a pattern.
const MinOccurrences = 3

var (
	longDigits   = regexp.MustCompile(`\d{4,}`)
	paymentToken = regexp.MustCompile(`\b(PAYMENT|PMT)\b\.?`)
)

// Pattern is a group of debits sharing a normalised description.
type Pattern struct {
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Count       int             `json:"count"`
	AvgAmount   decimal.Decimal `json:"avgAmount"`
	FirstSeen   string          `json:"firstSeen"` // YYYY-MM-DD
	LastSeen    string          `json:"lastSeen"`  // YYYY-MM-DD
}

// Key normalises a debit description so that the same obligation with
// different reference numbers groups together.
func Key(desc string) string {
	s := strings.ToUpper(desc)
	s = longDigits.ReplaceAllString(s, " ")
	s = paymentToken.ReplaceAllString(s, "PMT")
	return strings.Join(strings.Fields(s), " ")
}

// Detect groups debits by Key and returns groups with at least
// MinOccurrences members, in order of each group's first appearance in txns.
//
// First/last seen are tracked on dates normalised to YYYY-MM-DD, which makes
// the lexical comparison a chronological one. A debit with an unparseable
// date still counts toward its group but does not move first/last seen.
// Debits whose description normalises to nothing are not grouped.
func Detect(txns []model.Transaction) []Pattern {
	groups := make(map[string]*Pattern)
	var order []string

	for _, txn := range txns {
		if !txn.IsDebit() {
			continue
		}
		key := Key(txn.Description)
		if key == "" {
			continue
		}
		p, ok := groups[key]
		if !ok {
			p = &Pattern{Name: key}
			groups[key] = p
			order = append(order, key)
		}
		p.Count++
		p.TotalAmount = p.TotalAmount.Add(txn.Amount)

		day, ok := model.NormalizeDate(txn.Date)
		if !ok {
			continue
		}
		if p.FirstSeen == "" || day < p.FirstSeen {
			p.FirstSeen = day
		}
		if p.LastSeen == "" || day > p.LastSeen {
			p.LastSeen = day
		}
	}

	patterns := []Pattern{}
	for _, key := range order {
		p := groups[key]
		if p.Count < MinOccurrences {
			continue
		}
		p.AvgAmount = p.TotalAmount.DivRound(decimal.NewFromInt(int64(p.Count)), 2)
		patterns = append(patterns, *p)
	}
	return patterns
}
