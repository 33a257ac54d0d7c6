// Package decline evaluates threshold rules against an account analysis and
// reports every rule that fires. Evaluation never short-circuits.
package decline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/offerlab/internal/analysis"
)

// Severity tells the workflow how to treat a finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityDecline Severity = "decline"
)

// Finding codes.
const (
	CodeMinRevenue      = "MIN_REVENUE"
	CodeNegDays         = "NEG_DAYS"
	CodeMoMSwing        = "MOM_SWING"
	CodePoorBalDaysInfo = "POOR_BAL_DAYS_INFO"
)

// revenueWindow is how many of the most recent months MIN_REVENUE sums.
const revenueWindow = 3

// Finding is one rule outcome.
type Finding struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Options configures the rules. MinimumRevenue3mo is always applied; every
// other rule runs only when its option is set.
type Options struct {
	MinimumRevenue3mo         decimal.Decimal  `yaml:"minimum_revenue_3mo" json:"minimumRevenue3mo"`
	NegativeDayHardMax        *int             `yaml:"negative_day_hard_max,omitempty" json:"negativeDayHardMax,omitempty"`
	LargeMoMDeltaPct          *float64         `yaml:"large_mom_delta_pct,omitempty" json:"largeMoMDeltaPct,omitempty"` // fraction, 0.5 = 50%
	PoorDailyBalanceThreshold *decimal.Decimal `yaml:"poor_daily_balance_threshold,omitempty" json:"poorDailyBalanceThreshold,omitempty"`
	PoorDailyBalanceHardMax   *int             `yaml:"poor_daily_balance_hard_max,omitempty" json:"poorDailyBalanceHardMax,omitempty"`
	// RemitToDepositDeclineOver is carried for callers but no rule reads it.
	RemitToDepositDeclineOver *float64 `yaml:"remit_to_deposit_decline_over,omitempty" json:"remitToDepositDeclineOver,omitempty"`
}

type rule struct {
	code string
	eval func(a analysis.AccountAnalysis, o Options) (Finding, bool)
}

// rules run in this order; findings come back in the same order.
var rules = []rule{
	{CodeMinRevenue, minRevenue},
	{CodeNegDays, negativeDays},
	{CodeMoMSwing, momSwing},
	{CodePoorBalDaysInfo, poorBalanceInfo},
}

// Evaluate applies every configured rule to a. Neither argument is modified.
func Evaluate(a analysis.AccountAnalysis, o Options) []Finding {
	findings := []Finding{}
	for _, r := range rules {
		if f, ok := r.eval(a, o); ok {
			f.Code = r.code
			findings = append(findings, f)
		}
	}
	return findings
}

// Declined reports whether any finding blocks the deal.
func Declined(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityDecline {
			return true
		}
	}
	return false
}

func minRevenue(a analysis.AccountAnalysis, o Options) (Finding, bool) {
	recent := a.LastN(revenueWindow)
	sum := decimal.Zero
	for _, m := range recent {
		sum = sum.Add(m.NetDeposits)
	}
	if !sum.LessThan(o.MinimumRevenue3mo) {
		return Finding{}, false
	}
	short := o.MinimumRevenue3mo.Sub(sum)
	return Finding{
		Severity: SeverityDecline,
		Message: fmt.Sprintf("net deposits over last %d month(s) were %s, below the %s minimum (short %s)",
			len(recent), formatUSD(sum), formatUSD(o.MinimumRevenue3mo), formatUSD(short)),
	}, true
}

func negativeDays(a analysis.AccountAnalysis, o Options) (Finding, bool) {
	if o.NegativeDayHardMax == nil {
		return Finding{}, false
	}
	latest, ok := a.Latest()
	if !ok || latest.NegativeDays <= *o.NegativeDayHardMax {
		return Finding{}, false
	}
	return Finding{
		Severity: SeverityDecline,
		Message: fmt.Sprintf("%s had %d negative balance days, more than the %d allowed",
			latest.Month, latest.NegativeDays, *o.NegativeDayHardMax),
	}, true
}

func momSwing(a analysis.AccountAnalysis, o Options) (Finding, bool) {
	if o.LargeMoMDeltaPct == nil || len(a.ByMonth) < 2 {
		return Finding{}, false
	}
	prev := a.ByMonth[len(a.ByMonth)-2]
	cur := a.ByMonth[len(a.ByMonth)-1]

	base := decimal.Max(decimal.NewFromInt(1), prev.NetDeposits)
	delta := cur.NetDeposits.Sub(prev.NetDeposits).Div(base)
	limit := decimal.NewFromFloat(*o.LargeMoMDeltaPct)
	if !delta.Abs().GreaterThan(limit) {
		return Finding{}, false
	}

	pct := delta.Mul(decimal.NewFromInt(100))
	sign := ""
	if pct.IsPositive() {
		sign = "+"
	}
	return Finding{
		Severity: SeverityDecline,
		Message: fmt.Sprintf("net deposits moved %s%s%% from %s to %s, beyond the %s%% limit",
			sign, pct.StringFixed(1), prev.Month, cur.Month, limit.Mul(decimal.NewFromInt(100)).StringFixed(1)),
	}, true
}

// poorBalanceInfo is advisory only: it does not count days below the
// threshold and must not be used as a pass/fail gate.
func poorBalanceInfo(a analysis.AccountAnalysis, o Options) (Finding, bool) {
	if o.PoorDailyBalanceThreshold == nil || o.PoorDailyBalanceHardMax == nil {
		return Finding{}, false
	}
	latest, ok := a.Latest()
	if !ok {
		return Finding{}, false
	}
	return Finding{
		Severity: SeverityInfo,
		Message: fmt.Sprintf("%s: days below %s are not counted; supply full daily balances to check the %d-day limit",
			latest.Month, formatUSD(*o.PoorDailyBalanceThreshold), *o.PoorDailyBalanceHardMax),
	}, true
}
