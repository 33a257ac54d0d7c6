// Package present projects an AccountAnalysis into flat, display-ready rows.
// Row field names are a UI contract and do not follow MonthlyMetrics.
package present

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/offerlab/internal/analysis"
)

// AveragesLabel is the Month value of the averages row.
const AveragesLabel = "Average"

// Row is one table line. Currency values are fixed two-decimal strings;
// optional balances are empty when the month recorded none.
type Row struct {
	Month            string `json:"month"`
	TotalDeposits    string `json:"total_deposits"`
	TransferAmount   string `json:"transfer_amount"`
	OtherAdvances    string `json:"other_advances"`
	MiscDeductions   string `json:"misc_deductions"`
	NetDeposits      string `json:"net_deposits"`
	DepositCount     int    `json:"deposit_count"`
	AvgDepositAmount string `json:"avg_deposit_amount"`
	NegativeDays     int    `json:"negative_days"`
	AvgDailyBalance  string `json:"avg_daily_balance"`
	MinDailyBalance  string `json:"min_daily_balance"`
	MaxDailyBalance  string `json:"max_daily_balance"`
	BeginningBalance string `json:"beginning_balance"`
	EndingBalance    string `json:"ending_balance"`
	NetChange        string `json:"net_change"`

	TotalWithdrawals    string `json:"total_withdrawals"`
	WithdrawalCount     int    `json:"withdrawal_count"`
	MCAWithdrawals      string `json:"mca_withdrawals"`
	CardWithdrawals     string `json:"card_withdrawals"`
	BankLoanWithdrawals string `json:"bank_loan_withdrawals"`
	ZelleWithdrawals    string `json:"zelle_withdrawals"`
	OtherWithdrawals    string `json:"other_withdrawals"`
}

// Table is the full projection: one row per month plus an averages row.
type Table struct {
	Rows     []Row `json:"rows"`
	Averages Row   `json:"averages"`
}

// Project builds the table for a.
func Project(a analysis.AccountAnalysis) Table {
	rows := make([]Row, len(a.ByMonth))
	for i, m := range a.ByMonth {
		rows[i] = Row{
			Month:            m.Month.String(),
			TotalDeposits:    money(m.TotalDeposits),
			TransferAmount:   money(m.TransferAmount),
			OtherAdvances:    money(m.OtherAdvances),
			MiscDeductions:   money(m.MiscDeductions),
			NetDeposits:      money(m.NetDeposits),
			DepositCount:     m.DepositCount,
			AvgDepositAmount: money(avgDeposit(m.TotalDeposits, m.DepositCount)),
			NegativeDays:     m.NegativeDays,
			AvgDailyBalance:  money(m.AverageDailyBalance),
			MinDailyBalance:  optMoney(m.MinDailyBalance),
			MaxDailyBalance:  optMoney(m.MaxDailyBalance),
			BeginningBalance: optMoney(m.BeginningBalance),
			EndingBalance:    optMoney(m.EndingBalance),
			NetChange:        optMoney(m.NetChange),

			TotalWithdrawals:    money(m.TotalWithdrawals),
			WithdrawalCount:     m.WithdrawalCount,
			MCAWithdrawals:      money(m.MCAWithdrawals),
			CardWithdrawals:     money(m.CardWithdrawals),
			BankLoanWithdrawals: money(m.BankLoanWithdrawals),
			ZelleWithdrawals:    money(m.ZelleWithdrawals),
			OtherWithdrawals:    money(m.OtherWithdrawals),
		}
	}

	avg := a.Averages
	return Table{
		Rows: rows,
		Averages: Row{
			Month:            AveragesLabel,
			TotalDeposits:    money(avg.TotalDeposits),
			TransferAmount:   money(avg.TransferAmount),
			OtherAdvances:    money(avg.OtherAdvances),
			MiscDeductions:   money(avg.MiscDeductions),
			NetDeposits:      money(avg.NetDeposits),
			DepositCount:     avg.DepositCount,
			AvgDepositAmount: money(avgDeposit(avg.TotalDeposits, avg.DepositCount)),
			NegativeDays:     avg.NegativeDays,
			AvgDailyBalance:  money(avg.AverageDailyBalance),
			MinDailyBalance:  optMoney(avg.MinDailyBalance),
			MaxDailyBalance:  optMoney(avg.MaxDailyBalance),
			BeginningBalance: optMoney(avg.BeginningBalance),
			EndingBalance:    optMoney(avg.EndingBalance),
			NetChange:        optMoney(avg.NetChange),

			TotalWithdrawals:    money(avg.TotalWithdrawals),
			WithdrawalCount:     avg.WithdrawalCount,
			MCAWithdrawals:      money(avg.MCAWithdrawals),
			CardWithdrawals:     money(avg.CardWithdrawals),
			BankLoanWithdrawals: money(avg.BankLoanWithdrawals),
			ZelleWithdrawals:    money(avg.ZelleWithdrawals),
			OtherWithdrawals:    money(avg.OtherWithdrawals),
		},
	}
}

func avgDeposit(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optMoney(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
