// Package analysis partitions classified transactions into calendar months
// and computes the per-month metrics underwriting works from.
package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/offerlab/internal/classify"
	"github.com/cleared-dev/offerlab/internal/model"
	"github.com/cleared-dev/offerlab/internal/recurring"
)

// MonthlyMetrics summarises one calendar month of activity.
type MonthlyMetrics struct {
	Month               model.MonthKey   `json:"month"`
	TotalDeposits       decimal.Decimal  `json:"totalDeposits"`
	TransferAmount      decimal.Decimal  `json:"transferAmount"`
	OtherAdvances       decimal.Decimal  `json:"otherAdvances"`
	MiscDeductions      decimal.Decimal  `json:"miscDeductions"`
	NetDeposits         decimal.Decimal  `json:"netDeposits"`  // never negative
	DepositCount        int              `json:"depositCount"` // regular credits only
	TotalWithdrawals    decimal.Decimal  `json:"totalWithdrawals"`
	WithdrawalCount     int              `json:"withdrawalCount"`
	MCAWithdrawals      decimal.Decimal  `json:"mcaWithdrawals"`
	CardWithdrawals     decimal.Decimal  `json:"cardWithdrawals"`
	BankLoanWithdrawals decimal.Decimal  `json:"bankLoanWithdrawals"`
	ZelleWithdrawals    decimal.Decimal  `json:"zelleWithdrawals"`
	OtherWithdrawals    decimal.Decimal  `json:"otherWithdrawals"`
	NegativeDays        int              `json:"negativeDays"`
	AverageDailyBalance decimal.Decimal  `json:"averageDailyBalance"`
	MinDailyBalance     *decimal.Decimal `json:"minDailyBalance,omitempty"`
	MaxDailyBalance     *decimal.Decimal `json:"maxDailyBalance,omitempty"`
	BeginningBalance    *decimal.Decimal `json:"beginningBalance,omitempty"`
	EndingBalance       *decimal.Decimal `json:"endingBalance,omitempty"`
	NetChange           *decimal.Decimal `json:"netChange,omitempty"`
}

// Averages has the numeric shape of MonthlyMetrics, averaged across the
// months present. Optional fields average over the months that have them.
type Averages struct {
	TotalDeposits       decimal.Decimal  `json:"totalDeposits"`
	TransferAmount      decimal.Decimal  `json:"transferAmount"`
	OtherAdvances       decimal.Decimal  `json:"otherAdvances"`
	MiscDeductions      decimal.Decimal  `json:"miscDeductions"`
	NetDeposits         decimal.Decimal  `json:"netDeposits"`
	DepositCount        int              `json:"depositCount"`
	TotalWithdrawals    decimal.Decimal  `json:"totalWithdrawals"`
	WithdrawalCount     int              `json:"withdrawalCount"`
	MCAWithdrawals      decimal.Decimal  `json:"mcaWithdrawals"`
	CardWithdrawals     decimal.Decimal  `json:"cardWithdrawals"`
	BankLoanWithdrawals decimal.Decimal  `json:"bankLoanWithdrawals"`
	ZelleWithdrawals    decimal.Decimal  `json:"zelleWithdrawals"`
	OtherWithdrawals    decimal.Decimal  `json:"otherWithdrawals"`
	NegativeDays        int              `json:"negativeDays"`
	AverageDailyBalance decimal.Decimal  `json:"averageDailyBalance"`
	MinDailyBalance     *decimal.Decimal `json:"minDailyBalance,omitempty"`
	MaxDailyBalance     *decimal.Decimal `json:"maxDailyBalance,omitempty"`
	BeginningBalance    *decimal.Decimal `json:"beginningBalance,omitempty"`
	EndingBalance       *decimal.Decimal `json:"endingBalance,omitempty"`
	NetChange           *decimal.Decimal `json:"netChange,omitempty"`
}

// AccountAnalysis is the aggregate result for one account's history.
type AccountAnalysis struct {
	ByMonth             []MonthlyMetrics    `json:"byMonth"` // chronological
	Averages            Averages            `json:"averages"`
	RecurringDebits     []recurring.Pattern `json:"recurringDebits"`
	MonthsInRange       int                 `json:"monthsInRange"`
	TotalNetDeposits    decimal.Decimal     `json:"totalNetDeposits"`
	DroppedTransactions int                 `json:"droppedTransactions"` // unparseable dates
}

// Latest returns the most recent month, or false if there are none.
func (a AccountAnalysis) Latest() (MonthlyMetrics, bool) {
	if len(a.ByMonth) == 0 {
		return MonthlyMetrics{}, false
	}
	return a.ByMonth[len(a.ByMonth)-1], true
}

// LastN returns up to n most recent months, oldest first.
func (a AccountAnalysis) LastN(n int) []MonthlyMetrics {
	if n >= len(a.ByMonth) {
		return a.ByMonth
	}
	return a.ByMonth[len(a.ByMonth)-n:]
}

type dated struct {
	at  time.Time
	txn model.Transaction
}

// Analyze aggregates txns by UTC calendar month. Transactions whose date
// cannot be parsed are left out of the monthly figures and counted in
// DroppedTransactions; recurring detection still sees every transaction.
// txns is not modified.
func Analyze(txns []model.Transaction, c *classify.Classifier) AccountAnalysis {
	if c == nil {
		c = classify.Default()
	}

	var sorted []dated
	dropped := 0
	for _, txn := range txns {
		at, ok := txn.Time()
		if !ok {
			dropped++
			continue
		}
		sorted = append(sorted, dated{at: at, txn: txn})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].at.Before(sorted[j].at) })

	var keys []model.MonthKey
	groups := make(map[model.MonthKey][]dated)
	for _, d := range sorted {
		k := model.MonthOf(d.at)
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], d)
	}

	months := make([]MonthlyMetrics, 0, len(keys))
	total := decimal.Zero
	for _, k := range keys {
		m := monthMetrics(k, groups[k], c)
		total = total.Add(m.NetDeposits)
		months = append(months, m)
	}

	return AccountAnalysis{
		ByMonth:             months,
		Averages:            average(months),
		RecurringDebits:     recurring.Detect(txns),
		MonthsInRange:       len(months),
		TotalNetDeposits:    total,
		DroppedTransactions: dropped,
	}
}

func monthMetrics(k model.MonthKey, txns []dated, c *classify.Classifier) MonthlyMetrics {
	m := MonthlyMetrics{Month: k}

	for _, d := range txns {
		txn := d.txn
		if txn.IsCredit() {
			m.TotalDeposits = m.TotalDeposits.Add(txn.Amount)
			switch c.ClassifyCredit(txn.Description) {
			case classify.TagTransfer:
				m.TransferAmount = m.TransferAmount.Add(txn.Amount)
			case classify.TagOtherAdvance:
				m.OtherAdvances = m.OtherAdvances.Add(txn.Amount)
			default:
				m.DepositCount++
			}
			continue
		}
		m.TotalWithdrawals = m.TotalWithdrawals.Add(txn.Amount)
		m.WithdrawalCount++
		switch c.ClassifyDebit(txn.Description) {
		case classify.TagMiscFee:
			m.MiscDeductions = m.MiscDeductions.Add(txn.Amount)
		case classify.TagMCA:
			m.MCAWithdrawals = m.MCAWithdrawals.Add(txn.Amount)
		case classify.TagCard:
			m.CardWithdrawals = m.CardWithdrawals.Add(txn.Amount)
		case classify.TagBankLoan:
			m.BankLoanWithdrawals = m.BankLoanWithdrawals.Add(txn.Amount)
		case classify.TagZelle:
			m.ZelleWithdrawals = m.ZelleWithdrawals.Add(txn.Amount)
		default:
			m.OtherWithdrawals = m.OtherWithdrawals.Add(txn.Amount)
		}
	}

	m.NetDeposits = decimal.Max(decimal.Zero, m.TotalDeposits.Sub(m.TransferAmount).Sub(m.OtherAdvances))

	daily := dailyBalances(txns)
	if len(daily) > 0 {
		sum := decimal.Zero
		lo, hi := daily[0], daily[0]
		for _, b := range daily {
			sum = sum.Add(b)
			if b.IsNegative() {
				m.NegativeDays++
			}
			lo = decimal.Min(lo, b)
			hi = decimal.Max(hi, b)
		}
		m.AverageDailyBalance = sum.Div(decimal.NewFromInt(int64(len(daily))))
		m.MinDailyBalance = &lo
		m.MaxDailyBalance = &hi
	}

	for _, d := range txns {
		if d.txn.EndingBalance != nil {
			b := *d.txn.EndingBalance
			m.BeginningBalance = &b
			break
		}
	}
	for i := len(txns) - 1; i >= 0; i-- {
		if txns[i].txn.EndingBalance != nil {
			b := *txns[i].txn.EndingBalance
			m.EndingBalance = &b
			break
		}
	}
	if m.BeginningBalance != nil && m.EndingBalance != nil {
		change := m.EndingBalance.Sub(*m.BeginningBalance)
		m.NetChange = &change
	}

	return m
}

// dailyBalances returns one representative balance per calendar day: the
// last recorded ending balance of that day. Days with no recorded balance
// are skipped, not treated as zero.
func dailyBalances(txns []dated) []decimal.Decimal {
	var days []string
	byDay := make(map[string]decimal.Decimal)
	for _, d := range txns {
		if d.txn.EndingBalance == nil {
			continue
		}
		day := d.at.Format(model.DateFormat)
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = *d.txn.EndingBalance
	}

	out := make([]decimal.Decimal, len(days))
	for i, day := range days {
		out[i] = byDay[day]
	}
	return out
}

func average(months []MonthlyMetrics) Averages {
	if len(months) == 0 {
		return Averages{}
	}
	n := decimal.NewFromInt(int64(len(months)))

	var a Averages
	var deposits, withdrawals, negDays int
	var minB, maxB, begin, end, change []decimal.Decimal
	for _, m := range months {
		a.TotalDeposits = a.TotalDeposits.Add(m.TotalDeposits)
		a.TransferAmount = a.TransferAmount.Add(m.TransferAmount)
		a.OtherAdvances = a.OtherAdvances.Add(m.OtherAdvances)
		a.MiscDeductions = a.MiscDeductions.Add(m.MiscDeductions)
		a.NetDeposits = a.NetDeposits.Add(m.NetDeposits)
		a.AverageDailyBalance = a.AverageDailyBalance.Add(m.AverageDailyBalance)
		a.TotalWithdrawals = a.TotalWithdrawals.Add(m.TotalWithdrawals)
		a.MCAWithdrawals = a.MCAWithdrawals.Add(m.MCAWithdrawals)
		a.CardWithdrawals = a.CardWithdrawals.Add(m.CardWithdrawals)
		a.BankLoanWithdrawals = a.BankLoanWithdrawals.Add(m.BankLoanWithdrawals)
		a.ZelleWithdrawals = a.ZelleWithdrawals.Add(m.ZelleWithdrawals)
		a.OtherWithdrawals = a.OtherWithdrawals.Add(m.OtherWithdrawals)
		deposits += m.DepositCount
		withdrawals += m.WithdrawalCount
		negDays += m.NegativeDays
		minB = appendSet(minB, m.MinDailyBalance)
		maxB = appendSet(maxB, m.MaxDailyBalance)
		begin = appendSet(begin, m.BeginningBalance)
		end = appendSet(end, m.EndingBalance)
		change = appendSet(change, m.NetChange)
	}

	a.TotalDeposits = a.TotalDeposits.Div(n)
	a.TransferAmount = a.TransferAmount.Div(n)
	a.OtherAdvances = a.OtherAdvances.Div(n)
	a.MiscDeductions = a.MiscDeductions.Div(n)
	a.NetDeposits = a.NetDeposits.Div(n)
	a.AverageDailyBalance = a.AverageDailyBalance.Div(n)
	a.TotalWithdrawals = a.TotalWithdrawals.Div(n)
	a.MCAWithdrawals = a.MCAWithdrawals.Div(n)
	a.CardWithdrawals = a.CardWithdrawals.Div(n)
	a.BankLoanWithdrawals = a.BankLoanWithdrawals.Div(n)
	a.ZelleWithdrawals = a.ZelleWithdrawals.Div(n)
	a.OtherWithdrawals = a.OtherWithdrawals.Div(n)
	a.DepositCount = int(math.Round(float64(deposits) / float64(len(months))))
	a.WithdrawalCount = int(math.Round(float64(withdrawals) / float64(len(months))))
	a.NegativeDays = int(math.Round(float64(negDays) / float64(len(months))))
	a.MinDailyBalance = mean(minB)
	a.MaxDailyBalance = mean(maxB)
	a.BeginningBalance = mean(begin)
	a.EndingBalance = mean(end)
	a.NetChange = mean(change)
	return a
}

func appendSet(vals []decimal.Decimal, v *decimal.Decimal) []decimal.Decimal {
	if v == nil {
		return vals
	}
	return append(vals, *v)
}

func mean(vals []decimal.Decimal) *decimal.Decimal {
	if len(vals) == 0 {
		return nil
	}
	avg := decimal.Avg(vals[0], vals[1:]...)
	return &avg
}
