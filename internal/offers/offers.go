// Package offers prices a catalog of financing offers from an account's
// average net deposits. Every factor tier yields one fixed-daily, one
// fixed-weekly and one holdback offer per configured holdback percentage.
// Ranking the catalog is left to the caller.
package offers

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/offerlab/internal/analysis"
)

// Tier names a factor tier by its position in Options.FactorTiers.
type Tier string

const (
	TierConservative Tier = "Conservative"
	TierStandard     Tier = "Standard"
	TierAggressive   Tier = "Aggressive"
)

// TierFor maps a factor tier index to its name.
func TierFor(i int) Tier {
	switch i {
	case 0:
		return TierConservative
	case 1:
		return TierStandard
	default:
		return TierAggressive
	}
}

// Method is the repayment schedule.
type Method string

const (
	MethodFixedDaily  Method = "fixed-daily"
	MethodFixedWeekly Method = "fixed-weekly"
	MethodHoldback    Method = "holdback"
)

// offerNamespace seeds name-based offer IDs so that identical inputs yield
// identical IDs.
var offerNamespace = uuid.MustParse("6f1c0d8e-3b7a-4c52-9a1e-2d4f8b6c9e01")

// Offer is one priced option. Currency fields are whole units.
type Offer struct {
	ID      string          `json:"id"`
	Tier    Tier            `json:"tier"`
	Factor  decimal.Decimal `json:"factor"`
	Advance decimal.Decimal `json:"advance"`
	Payback decimal.Decimal `json:"payback"`
	Method  Method          `json:"method"`

	// fixed-daily / fixed-weekly
	DailyPayment  *decimal.Decimal `json:"dailyPayment,omitempty"`
	WeeklyPayment *decimal.Decimal `json:"weeklyPayment,omitempty"`
	EstTermDays   int              `json:"estTermDays,omitempty"`

	// holdback
	HoldbackPct             *decimal.Decimal `json:"holdbackPct,omitempty"`
	HoldbackDaily           *decimal.Decimal `json:"holdbackDaily,omitempty"`
	EstHoldbackDurationDays int              `json:"estHoldbackDurationDays,omitempty"`

	ExpectedMargin *decimal.Decimal `json:"expectedMargin,omitempty"`
}

// Capacity is the repayment budget derived from average net deposits.
type Capacity struct {
	Monthly decimal.Decimal `json:"monthly"`
	Daily   decimal.Decimal `json:"daily"`
	Weekly  decimal.Decimal `json:"weekly"`
}

// AvgMonthlyNet is the average net deposit figure offers are sized from.
// It falls back to total net deposits over the month count when the
// average is zero.
func AvgMonthlyNet(a analysis.AccountAnalysis) decimal.Decimal {
	if !a.Averages.NetDeposits.IsZero() {
		return a.Averages.NetDeposits
	}
	months := decimal.NewFromInt(int64(max(1, a.MonthsInRange)))
	return a.TotalNetDeposits.Div(months)
}

// Capacities returns the repayment budget for avgMonthlyNet.
func Capacities(avgMonthlyNet decimal.Decimal, o Options) Capacity {
	o = o.withDefaults()
	monthly := avgMonthlyNet.Mul(decimal.NewFromFloat(o.MaxDebtServicePct))
	return Capacity{
		Monthly: monthly,
		Daily:   monthly.Div(decimal.NewFromInt(businessDaysPerMonth)),
		Weekly:  monthly.Div(decimal.NewFromFloat(weeksPerMonth)),
	}
}

// Generate prices the full catalog for a.
func Generate(a analysis.AccountAnalysis, o Options) []Offer {
	return GenerateFor(AvgMonthlyNet(a), o)
}

// GenerateFor prices the full catalog for a given average monthly net.
//
// Advance and payback are rounded to whole units, so payback is
// non-decreasing in factor but only strictly increasing once the advance is
// large enough for adjacent factors to round apart. Small advances can tie.
func GenerateFor(avgMonthlyNet decimal.Decimal, o Options) []Offer {
	o = o.withDefaults()
	capacity := Capacities(avgMonthlyNet, o)

	one := decimal.NewFromInt(1)
	termDays := decimal.NewFromInt(int64(o.TermDays))
	daysPerWeek := decimal.NewFromInt(int64(o.DaysPerWeek))
	dailyNet := avgMonthlyNet.Div(decimal.NewFromInt(businessDaysPerMonth))
	baseAdvance := avgMonthlyNet.Mul(decimal.NewFromFloat(o.AdvanceMultiple)).Round(0)

	offers := []Offer{}
	for i, f := range o.FactorTiers {
		factor := decimal.NewFromFloat(f)
		advance := decimal.Max(decimal.Zero, baseAdvance).Round(0)
		payback := advance.Mul(factor).Round(0)
		base := Offer{
			Tier:    TierFor(i),
			Factor:  factor,
			Advance: advance,
			Payback: payback,
		}
		if o.BuyRate != nil {
			margin := factor.Sub(decimal.NewFromFloat(*o.BuyRate)).Mul(advance).Round(0)
			base.ExpectedMargin = &margin
		}
		perDay := payback.Div(termDays)

		daily := base
		daily.Method = MethodFixedDaily
		dailyPayment := capped(capacity.Daily, perDay)
		daily.DailyPayment = &dailyPayment
		daily.EstTermDays = ceilDays(payback, decimal.Max(one, dailyPayment))
		daily.ID = offerID(daily, "")
		offers = append(offers, daily)

		weekly := base
		weekly.Method = MethodFixedWeekly
		weeklyPayment := capped(capacity.Weekly, perDay.Mul(daysPerWeek))
		weekly.WeeklyPayment = &weeklyPayment
		weekly.EstTermDays = ceilDays(payback, decimal.Max(one, weeklyPayment.Div(daysPerWeek)))
		weekly.ID = offerID(weekly, "")
		offers = append(offers, weekly)

		for _, p := range o.HoldbackPercents {
			hb := base
			hb.Method = MethodHoldback
			pct := decimal.NewFromFloat(p)
			holdbackDaily := dailyNet.Mul(pct).Round(0)
			hb.HoldbackPct = &pct
			hb.HoldbackDaily = &holdbackDaily
			hb.EstHoldbackDurationDays = ceilDays(payback, decimal.Max(one, holdbackDaily))
			hb.ID = offerID(hb, pct.String())
			offers = append(offers, hb)
		}
	}
	return offers
}

// capped rounds min(capacity, amount) to whole units without letting the
// rounding carry it over capacity.
func capped(capacity, amount decimal.Decimal) decimal.Decimal {
	v := decimal.Min(capacity, amount).Round(0)
	if v.GreaterThan(capacity) {
		v = decimal.Min(capacity, amount).Floor()
	}
	return v
}

func ceilDays(total, perDay decimal.Decimal) int {
	return int(total.Div(perDay).Ceil().IntPart())
}

func offerID(o Offer, variant string) string {
	name := fmt.Sprintf("%s|%s|%s|%s|%s", o.Tier, o.Method, o.Factor, o.Advance, variant)
	return uuid.NewSHA1(offerNamespace, []byte(name)).String()
}
