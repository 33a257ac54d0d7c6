package analysis

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/offerlab/internal/classify"
	"github.com/cleared-dev/offerlab/internal/model"
)

func credit(date, desc, amount string) model.Transaction {
	return model.Transaction{Date: date, Description: desc, Amount: decimal.RequireFromString(amount), Type: model.TxnCredit}
}

func debit(date, desc, amount string) model.Transaction {
	return model.Transaction{Date: date, Description: desc, Amount: decimal.RequireFromString(amount), Type: model.TxnDebit}
}

func withBalance(txn model.Transaction, bal string) model.Transaction {
	b := decimal.RequireFromString(bal)
	txn.EndingBalance = &b
	return txn
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func threeEvenMonths() []model.Transaction {
	return []model.Transaction{
		credit("2025-01-10", "SQUARE DEPOSIT", "30000"),
		credit("2025-01-20", "SQUARE DEPOSIT", "20000"),
		credit("2025-02-10", "SQUARE DEPOSIT", "50000"),
		credit("2025-03-05", "STRIPE PAYOUT", "25000"),
		credit("2025-03-25", "STRIPE PAYOUT", "25000"),
	}
}

func TestAnalyze_EvenMonths(t *testing.T) {
	a := Analyze(threeEvenMonths(), classify.Default())

	require.Len(t, a.ByMonth, 3)
	assert.Equal(t, 3, a.MonthsInRange)
	for _, m := range a.ByMonth {
		assert.True(t, m.NetDeposits.Equal(dec("50000")), "month %s net %s", m.Month, m.NetDeposits)
	}
	assert.True(t, a.TotalNetDeposits.Equal(dec("150000")))
	assert.True(t, a.Averages.NetDeposits.Equal(dec("50000")))
	assert.Equal(t, "2025-01", a.ByMonth[0].Month.String())
	assert.Equal(t, "2025-03", a.ByMonth[2].Month.String())
	assert.Equal(t, 2, a.ByMonth[0].DepositCount)
	assert.Equal(t, 1, a.ByMonth[1].DepositCount)
	assert.Equal(t, 2, a.Averages.DepositCount, "5/3 rounds to 2")
}

func TestAnalyze_Classification(t *testing.T) {
	txns := []model.Transaction{
		credit("2025-04-01", "CARD SETTLEMENT DEPOSIT", "10000"),
		credit("2025-04-02", "ONLINE TRANSFER FROM SAVINGS", "3000"),
		credit("2025-04-03", "WIRE CREDIT FAST CAPITAL", "15000"),
		debit("2025-04-04", "MONTHLY SERVICE FEE", "35"),
		debit("2025-04-05", "ANALYSIS FEE", "15"),
		debit("2025-04-06", "ZELLE TO JOHN", "500"),
	}
	a := Analyze(txns, classify.Default())
	require.Len(t, a.ByMonth, 1)
	m := a.ByMonth[0]

	assert.True(t, m.TotalDeposits.Equal(dec("28000")))
	assert.True(t, m.TransferAmount.Equal(dec("3000")))
	assert.True(t, m.OtherAdvances.Equal(dec("15000")))
	assert.True(t, m.MiscDeductions.Equal(dec("50")))
	assert.True(t, m.NetDeposits.Equal(dec("10000")))
	assert.Equal(t, 1, m.DepositCount, "transfers and advances are not deposits")
}

func TestAnalyze_WithdrawalsByCategory(t *testing.T) {
	txns := []model.Transaction{
		credit("2025-04-01", "SQUARE DEPOSIT", "10000"),
		debit("2025-04-02", "PFSINGLE ACH DEBIT", "1200"),
		debit("2025-04-03", "MONTHLY SERVICE FEE", "35"),
		debit("2025-04-04", "AMEX EPAYMENT", "800"),
		debit("2025-04-05", "SBA EIDL PAYMENT", "731"),
		debit("2025-04-06", "ZELLE TO JOHN", "500"),
		debit("2025-04-07", "ADP PAYROLL", "4000"),
		debit("2025-05-02", "PFSINGLE ACH DEBIT", "1200"),
	}
	a := Analyze(txns, classify.Default())
	require.Len(t, a.ByMonth, 2)

	apr := a.ByMonth[0]
	tests := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"mca", apr.MCAWithdrawals, "1200"},
		{"misc", apr.MiscDeductions, "35"},
		{"card", apr.CardWithdrawals, "800"},
		{"bank loan", apr.BankLoanWithdrawals, "731"},
		{"zelle", apr.ZelleWithdrawals, "500"},
		{"other", apr.OtherWithdrawals, "4000"},
		{"total", apr.TotalWithdrawals, "7266"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.got.Equal(dec(tt.want)), "got %s", tt.got)
		})
	}
	assert.Equal(t, 6, apr.WithdrawalCount)
	assert.True(t, apr.TotalDeposits.Equal(dec("10000")), "debits never reach deposits")

	may := a.ByMonth[1]
	assert.True(t, may.TotalWithdrawals.Equal(dec("1200")))
	assert.Equal(t, 1, may.WithdrawalCount)
	assert.True(t, may.CardWithdrawals.IsZero())

	assert.True(t, a.Averages.TotalWithdrawals.Equal(dec("4233")), "got %s", a.Averages.TotalWithdrawals)
	assert.True(t, a.Averages.MCAWithdrawals.Equal(dec("1200")))
	assert.True(t, a.Averages.CardWithdrawals.Equal(dec("400")))
	assert.Equal(t, 4, a.Averages.WithdrawalCount, "7/2 rounds to 4")
}

func TestAnalyze_DailyBalances(t *testing.T) {
	txns := []model.Transaction{
		// Day 1: two balances, last one wins.
		withBalance(credit("2025-05-01", "DEPOSIT", "100"), "500"),
		withBalance(debit("2025-05-01", "RENT", "700"), "-200"),
		// Day 2: no balance recorded, excluded entirely.
		debit("2025-05-02", "COFFEE", "5"),
		// Day 3: negative.
		withBalance(debit("2025-05-03", "SUPPLIES", "100"), "-300"),
		// Day 4: positive.
		withBalance(credit("2025-05-04", "DEPOSIT", "2000"), "1700"),
	}
	a := Analyze(txns, classify.Default())
	require.Len(t, a.ByMonth, 1)
	m := a.ByMonth[0]

	assert.Equal(t, 2, m.NegativeDays)
	// (-200 + -300 + 1700) / 3
	assert.Equal(t, "400.00", m.AverageDailyBalance.StringFixed(2))
	require.NotNil(t, m.MinDailyBalance)
	require.NotNil(t, m.MaxDailyBalance)
	assert.True(t, m.MinDailyBalance.Equal(dec("-300")))
	assert.True(t, m.MaxDailyBalance.Equal(dec("1700")))

	require.NotNil(t, m.BeginningBalance)
	require.NotNil(t, m.EndingBalance)
	assert.True(t, m.BeginningBalance.Equal(dec("500")))
	assert.True(t, m.EndingBalance.Equal(dec("1700")))
	require.NotNil(t, m.NetChange)
	assert.True(t, m.NetChange.Equal(dec("1200")))
}

func TestAnalyze_BalancesFollowChronologyNotInputOrder(t *testing.T) {
	txns := []model.Transaction{
		withBalance(credit("2025-06-20", "DEPOSIT", "10"), "900"),
		withBalance(credit("2025-06-02", "DEPOSIT", "10"), "100"),
		debit("2025-06-30", "FEE", "1"),
	}
	m := Analyze(txns, nil).ByMonth[0]
	assert.True(t, m.BeginningBalance.Equal(dec("100")))
	assert.True(t, m.EndingBalance.Equal(dec("900")))
}

func TestAnalyze_NoBalances(t *testing.T) {
	a := Analyze([]model.Transaction{credit("2025-07-01", "DEPOSIT", "10")}, nil)
	m := a.ByMonth[0]
	assert.Nil(t, m.BeginningBalance)
	assert.Nil(t, m.EndingBalance)
	assert.Nil(t, m.NetChange)
	assert.Nil(t, m.MinDailyBalance)
	assert.True(t, m.AverageDailyBalance.IsZero())
	assert.Equal(t, 0, m.NegativeDays)
	assert.Nil(t, a.Averages.BeginningBalance)
}

func TestAnalyze_UnparseableDatesDropped(t *testing.T) {
	txns := []model.Transaction{
		credit("2025-01-10", "DEPOSIT", "100"),
		credit("not-a-date", "DEPOSIT", "999"),
	}
	a := Analyze(txns, nil)
	require.Len(t, a.ByMonth, 1)
	assert.True(t, a.ByMonth[0].TotalDeposits.Equal(dec("100")))
	assert.Equal(t, 1, a.DroppedTransactions)
}

func TestAnalyze_GapMonthsNotSynthesized(t *testing.T) {
	txns := []model.Transaction{
		credit("2025-01-10", "DEPOSIT", "100"),
		credit("2025-04-10", "DEPOSIT", "300"),
	}
	a := Analyze(txns, nil)
	require.Len(t, a.ByMonth, 2)
	assert.Equal(t, "2025-04", a.ByMonth[1].Month.String())
	assert.True(t, a.Averages.NetDeposits.Equal(dec("200")), "averages span present months only")
}

func TestAnalyze_UTCMonthBoundary(t *testing.T) {
	txns := []model.Transaction{
		credit("2025-01-31T22:00:00-05:00", "DEPOSIT", "100"),
	}
	a := Analyze(txns, nil)
	require.Len(t, a.ByMonth, 1)
	assert.Equal(t, model.MonthKey{Year: 2025, Month: time.February}, a.ByMonth[0].Month)
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil, nil)
	assert.Empty(t, a.ByMonth)
	assert.NotNil(t, a.ByMonth)
	assert.Empty(t, a.RecurringDebits)
	assert.Equal(t, 0, a.MonthsInRange)
	assert.True(t, a.TotalNetDeposits.IsZero())
	assert.True(t, a.Averages.NetDeposits.IsZero())
	_, ok := a.Latest()
	assert.False(t, ok)
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	txns := []model.Transaction{
		withBalance(credit("2025-03-02", "B", "2"), "10"),
		withBalance(credit("2025-01-02", "A", "1"), "5"),
	}
	before := fmt.Sprintf("%v %v", txns[0].Date, txns[1].Date)
	a := Analyze(txns, nil)
	assert.Equal(t, before, fmt.Sprintf("%v %v", txns[0].Date, txns[1].Date))

	// Mutating the result does not reach the input.
	*a.ByMonth[0].BeginningBalance = dec("123")
	assert.True(t, txns[1].EndingBalance.Equal(dec("5")))
}

func TestAnalyze_RecurringIncluded(t *testing.T) {
	txns := []model.Transaction{
		debit("2025-01-05", "ACH PMT 000123456 TO VENDOR", "100"),
		debit("2025-02-05", "ACH PMT 000123457 TO VENDOR", "100"),
		debit("2025-03-05", "ACH PMT 000123458 TO VENDOR", "100"),
	}
	a := Analyze(txns, nil)
	require.Len(t, a.RecurringDebits, 1)
	assert.Equal(t, 3, a.RecurringDebits[0].Count)
}

func TestLastN(t *testing.T) {
	a := Analyze(threeEvenMonths(), nil)
	assert.Len(t, a.LastN(2), 2)
	assert.Equal(t, "2025-02", a.LastN(2)[0].Month.String())
	assert.Len(t, a.LastN(5), 3)
}

func TestAnalyze_RandomHistories(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	descs := []string{"DEPOSIT", "TRANSFER IN", "WIRE CREDIT", "FUNDING", "SERVICE FEE", "ZELLE"}

	for run := 0; run < 50; run++ {
		var txns []model.Transaction
		for i := 0; i < 40; i++ {
			date := fmt.Sprintf("2025-%02d-%02d", rng.Intn(6)+1, rng.Intn(28)+1)
			amt := decimal.NewFromInt(int64(rng.Intn(5000)))
			typ := model.TxnCredit
			if rng.Intn(2) == 0 {
				typ = model.TxnDebit
			}
			txn := model.Transaction{Date: date, Description: descs[rng.Intn(len(descs))], Amount: amt, Type: typ}
			if rng.Intn(3) == 0 {
				txn = withBalance(txn, fmt.Sprint(rng.Intn(4000)-2000))
			}
			txns = append(txns, txn)
		}

		a := Analyze(txns, nil)
		sum := decimal.Zero
		for i, m := range a.ByMonth {
			assert.False(t, m.NetDeposits.IsNegative())
			sum = sum.Add(m.NetDeposits)
			if i > 0 {
				assert.True(t, a.ByMonth[i-1].Month.Before(m.Month))
			}
		}
		assert.True(t, sum.Equal(a.TotalNetDeposits))
		assert.Equal(t, len(a.ByMonth), a.MonthsInRange)
	}
}
