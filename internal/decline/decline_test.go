package decline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/offerlab/internal/analysis"
	"github.com/cleared-dev/offerlab/internal/model"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func months(net ...string) analysis.AccountAnalysis {
	var a analysis.AccountAnalysis
	total := decimal.Zero
	for i, n := range net {
		m := analysis.MonthlyMetrics{
			Month:       model.MonthKey{Year: 2025, Month: time.Month(1 + i)},
			NetDeposits: dec(n),
		}
		a.ByMonth = append(a.ByMonth, m)
		total = total.Add(m.NetDeposits)
	}
	a.MonthsInRange = len(a.ByMonth)
	a.TotalNetDeposits = total
	return a
}

func codes(findings []Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Code
	}
	return out
}

func find(findings []Finding, code string) (Finding, bool) {
	for _, f := range findings {
		if f.Code == code {
			return f, true
		}
	}
	return Finding{}, false
}

func TestMinRevenue_Passes(t *testing.T) {
	a := months("50000", "50000", "50000")
	findings := Evaluate(a, Options{MinimumRevenue3mo: dec("100000")})
	_, ok := find(findings, CodeMinRevenue)
	assert.False(t, ok)
	assert.Empty(t, findings)
}

func TestMinRevenue_Declines(t *testing.T) {
	a := months("50000", "50000", "50000")
	findings := Evaluate(a, Options{MinimumRevenue3mo: dec("200000")})

	f, ok := find(findings, CodeMinRevenue)
	require.True(t, ok)
	assert.Equal(t, SeverityDecline, f.Severity)
	assert.Contains(t, f.Message, "$150,000")
	assert.Contains(t, f.Message, "$200,000")
	assert.Contains(t, f.Message, "$50,000")
	assert.True(t, Declined(findings))
}

func TestMinRevenue_UsesLastThreeMonthsOnly(t *testing.T) {
	a := months("900000", "10000", "10000", "10000")
	f, ok := find(Evaluate(a, Options{MinimumRevenue3mo: dec("50000")}), CodeMinRevenue)
	require.True(t, ok)
	assert.Contains(t, f.Message, "$30,000")
}

func TestMinRevenue_ShortHistoryNotPadded(t *testing.T) {
	a := months("40000")
	f, ok := find(Evaluate(a, Options{MinimumRevenue3mo: dec("50000")}), CodeMinRevenue)
	require.True(t, ok)
	assert.Contains(t, f.Message, "last 1 month(s)")
	assert.Contains(t, f.Message, "$40,000")
}

func TestMinRevenue_NoMonths(t *testing.T) {
	findings := Evaluate(analysis.AccountAnalysis{}, Options{MinimumRevenue3mo: dec("1")})
	assert.Equal(t, []string{CodeMinRevenue}, codes(findings))
}

func TestNegDays(t *testing.T) {
	a := months("50000", "50000")
	a.ByMonth[0].NegativeDays = 20
	a.ByMonth[1].NegativeDays = 7

	f, ok := find(Evaluate(a, Options{NegativeDayHardMax: ptr(5)}), CodeNegDays)
	require.True(t, ok)
	assert.Equal(t, SeverityDecline, f.Severity)
	assert.Contains(t, f.Message, "7 negative")

	_, ok = find(Evaluate(a, Options{NegativeDayHardMax: ptr(7)}), CodeNegDays)
	assert.False(t, ok, "equal to the max is allowed")

	_, ok = find(Evaluate(a, Options{}), CodeNegDays)
	assert.False(t, ok, "rule skipped without option")
}

func TestMoMSwing(t *testing.T) {
	tests := []struct {
		name  string
		net   []string
		limit float64
		fires bool
		want  string
	}{
		{"drop beyond limit", []string{"100000", "50000"}, 0.3, true, "-50.0%"},
		{"rise beyond limit", []string{"50000", "100000"}, 0.3, true, "+100.0%"},
		{"within limit", []string{"100000", "90000"}, 0.3, false, ""},
		{"exactly at limit", []string{"100000", "130000"}, 0.3, false, ""},
		{"zero previous month", []string{"0", "5"}, 1.0, true, "+500.0%"},
		{"single month", []string{"100000"}, 0.01, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := find(Evaluate(months(tt.net...), Options{LargeMoMDeltaPct: ptr(tt.limit)}), CodeMoMSwing)
			require.Equal(t, tt.fires, ok)
			if tt.fires {
				assert.Equal(t, SeverityDecline, f.Severity)
				assert.Contains(t, f.Message, tt.want)
			}
		})
	}
}

func TestPoorBalanceInfo_Gating(t *testing.T) {
	a := months("50000")
	both := Options{PoorDailyBalanceThreshold: ptr(dec("1000")), PoorDailyBalanceHardMax: ptr(3)}

	f, ok := find(Evaluate(a, both), CodePoorBalDaysInfo)
	require.True(t, ok)
	assert.Equal(t, SeverityInfo, f.Severity)
	assert.False(t, Declined([]Finding{f}))

	_, ok = find(Evaluate(a, Options{PoorDailyBalanceThreshold: ptr(dec("1000"))}), CodePoorBalDaysInfo)
	assert.False(t, ok)
	_, ok = find(Evaluate(a, Options{PoorDailyBalanceHardMax: ptr(3)}), CodePoorBalDaysInfo)
	assert.False(t, ok)
	_, ok = find(Evaluate(analysis.AccountAnalysis{}, both), CodePoorBalDaysInfo)
	assert.False(t, ok, "needs at least one month")
}

func TestEvaluate_NoShortCircuit(t *testing.T) {
	a := months("100000", "10000")
	a.ByMonth[1].NegativeDays = 9
	o := Options{
		MinimumRevenue3mo:         dec("500000"),
		NegativeDayHardMax:        ptr(2),
		LargeMoMDeltaPct:          ptr(0.25),
		PoorDailyBalanceThreshold: ptr(dec("500")),
		PoorDailyBalanceHardMax:   ptr(4),
	}
	findings := Evaluate(a, o)
	assert.Equal(t, []string{CodeMinRevenue, CodeNegDays, CodeMoMSwing, CodePoorBalDaysInfo}, codes(findings))
}

func TestEvaluate_DoesNotMutate(t *testing.T) {
	a := months("1", "2")
	o := Options{MinimumRevenue3mo: dec("10"), NegativeDayHardMax: ptr(0)}
	Evaluate(a, o)
	assert.Equal(t, 0, *o.NegativeDayHardMax)
	assert.True(t, a.ByMonth[1].NetDeposits.Equal(dec("2")))
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"999", "$999"},
		{"1000", "$1,000"},
		{"150000", "$150,000"},
		{"1234567.6", "$1,234,568"},
		{"-2500", "-$2,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUSD(dec(tt.in)), "formatUSD(%s)", tt.in)
	}
}
