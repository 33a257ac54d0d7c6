// Package underwrite runs the full pipeline over one account's transactions:
// aggregate, evaluate decline rules, price offers and project the table.
package underwrite

import (
	"log/slog"

	"github.com/cleared-dev/offerlab/internal/analysis"
	"github.com/cleared-dev/offerlab/internal/classify"
	"github.com/cleared-dev/offerlab/internal/decline"
	"github.com/cleared-dev/offerlab/internal/model"
	"github.com/cleared-dev/offerlab/internal/offers"
	"github.com/cleared-dev/offerlab/internal/present"
)

// Options carries every setting for one run. A nil Classifier uses the
// built-in taxonomy; a nil Logger uses slog.Default().
type Options struct {
	Classifier *classify.Classifier
	Decline    decline.Options
	Offers     offers.Options
	Logger     *slog.Logger
}

// Report is everything one run produces.
type Report struct {
	Analysis analysis.AccountAnalysis `json:"analysis"`
	Findings []decline.Finding        `json:"findings"`
	Declined bool                     `json:"declined"`
	Offers   []offers.Offer           `json:"offers"`
	Table    present.Table            `json:"table"`
}

// Run underwrites txns. Offers are priced even when a rule declines; the
// caller decides what to show.
func Run(txns []model.Transaction, opts Options) Report {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	a := analysis.Analyze(txns, opts.Classifier)
	log.Debug("analysed transactions",
		"transactions", len(txns),
		"months", a.MonthsInRange,
		"dropped", a.DroppedTransactions,
		"recurring", len(a.RecurringDebits))
	if a.DroppedTransactions > 0 {
		log.Warn("skipped transactions with unparseable dates", "count", a.DroppedTransactions)
	}

	findings := decline.Evaluate(a, opts.Decline)
	declined := decline.Declined(findings)
	for _, f := range findings {
		log.Debug("decline rule fired", "code", f.Code, "severity", f.Severity)
	}

	catalog := offers.Generate(a, opts.Offers)
	log.Debug("priced offers", "count", len(catalog), "avg_monthly_net", offers.AvgMonthlyNet(a).StringFixed(2))

	return Report{
		Analysis: a,
		Findings: findings,
		Declined: declined,
		Offers:   catalog,
		Table:    present.Project(a),
	}
}
