package core

import "strings"

// Summary is the dashboard view of one month: totals, balance, and the
// installments landing on next month's statements.
type Summary struct {
	TotalIncome          Money
	TotalExpenses        Money
	Balance              Money
	UpcomingInstallments []Transaction
}

// CalculateSummary totals the given month's income and expenses and
// collects next month's upcoming installment expenses. Month arguments are
// YYYY-MM keys.
func CalculateSummary(txs []Transaction, currentMonth, nextMonth string) Summary {
	var s Summary
	for _, t := range txs {
		if strings.HasPrefix(t.StatementDate.String(), currentMonth) {
			switch t.Type {
			case Income:
				s.TotalIncome = s.TotalIncome.Add(t.Amount)
			case Expense:
				s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			}
		}
		if t.IsInstallment && t.Type == Expense &&
			strings.HasPrefix(t.StatementDate.String(), nextMonth) {
			s.UpcomingInstallments = append(s.UpcomingInstallments, t)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}
