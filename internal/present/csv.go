package present

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is the CSV header for an exported table.
const Header = "month,total_deposits,transfer_amount,other_advances,misc_deductions,net_deposits,deposit_count,avg_deposit_amount,negative_days,avg_daily_balance,min_daily_balance,max_daily_balance,beginning_balance,ending_balance,net_change,total_withdrawals,withdrawal_count,mca_withdrawals,card_withdrawals,bank_loan_withdrawals,zelle_withdrawals,other_withdrawals"

const (
	numFields          = 22
	colMonth           = 0
	colDeposits        = 1
	colTransfers       = 2
	colAdvances        = 3
	colMisc            = 4
	colNet             = 5
	colDepositCount    = 6
	colAvgDeposit      = 7
	colNegDays         = 8
	colAvgDaily        = 9
	colMinDaily        = 10
	colMaxDaily        = 11
	colBeginning       = 12
	colEnding          = 13
	colNetChange       = 14
	colWithdrawals     = 15
	colWithdrawalCount = 16
	colMCA             = 17
	colCard            = 18
	colBankLoan        = 19
	colZelle           = 20
	colOtherDebits     = 21
)

// WriteCSV writes the header, one line per month, then the averages row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range t.Rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := cw.Write(MarshalRow(t.Averages)); err != nil {
		return fmt.Errorf("writing averages: %w", err)
	}
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(r Row) []string {
	rec := make([]string, numFields)
	rec[colMonth] = r.Month
	rec[colDeposits] = r.TotalDeposits
	rec[colTransfers] = r.TransferAmount
	rec[colAdvances] = r.OtherAdvances
	rec[colMisc] = r.MiscDeductions
	rec[colNet] = r.NetDeposits
	rec[colDepositCount] = strconv.Itoa(r.DepositCount)
	rec[colAvgDeposit] = r.AvgDepositAmount
	rec[colNegDays] = strconv.Itoa(r.NegativeDays)
	rec[colAvgDaily] = r.AvgDailyBalance
	rec[colMinDaily] = r.MinDailyBalance
	rec[colMaxDaily] = r.MaxDailyBalance
	rec[colBeginning] = r.BeginningBalance
	rec[colEnding] = r.EndingBalance
	rec[colNetChange] = r.NetChange
	rec[colWithdrawals] = r.TotalWithdrawals
	rec[colWithdrawalCount] = strconv.Itoa(r.WithdrawalCount)
	rec[colMCA] = r.MCAWithdrawals
	rec[colCard] = r.CardWithdrawals
	rec[colBankLoan] = r.BankLoanWithdrawals
	rec[colZelle] = r.ZelleWithdrawals
	rec[colOtherDebits] = r.OtherWithdrawals
	return rec
}
