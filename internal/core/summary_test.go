package core

import "testing"

func TestCalculateSummary(t *testing.T) {
	txs := []Transaction{
		{ID: "s1", Type: Income, Amount: Money{Cents: 500000}, StatementDate: NewDate(2025, 1, 5)},
		{ID: "s2", Type: Expense, Amount: Money{Cents: 120000}, StatementDate: NewDate(2025, 1, 10)},
		{ID: "s3", Type: Expense, Amount: Money{Cents: 30000}, StatementDate: NewDate(2025, 1, 20), IsInstallment: true},
		// Next month's installment shows up as upcoming, not in the totals.
		{ID: "s4", Type: Expense, Amount: Money{Cents: 30000}, StatementDate: NewDate(2025, 2, 20), IsInstallment: true},
		// Plain next-month expenses stay out entirely.
		{ID: "s5", Type: Expense, Amount: Money{Cents: 9999}, StatementDate: NewDate(2025, 2, 3)},
		// Income never counts as upcoming.
		{ID: "s6", Type: Income, Amount: Money{Cents: 1000}, StatementDate: NewDate(2025, 2, 1), IsInstallment: true},
	}

	s := CalculateSummary(txs, "2025-01", "2025-02")

	if s.TotalIncome.Cents != 500000 {
		t.Errorf("TotalIncome = %d, want 500000", s.TotalIncome.Cents)
	}
	if s.TotalExpenses.Cents != 150000 {
		t.Errorf("TotalExpenses = %d, want 150000", s.TotalExpenses.Cents)
	}
	if s.Balance.Cents != 350000 {
		t.Errorf("Balance = %d, want 350000", s.Balance.Cents)
	}
	if len(s.UpcomingInstallments) != 1 || s.UpcomingInstallments[0].ID != "s4" {
		t.Fatalf("UpcomingInstallments = %+v, want only s4", s.UpcomingInstallments)
	}
}

func TestCalculateSummaryEmpty(t *testing.T) {
	s := CalculateSummary(nil, "2025-01", "2025-02")
	if s.TotalIncome.Cents != 0 || s.TotalExpenses.Cents != 0 || s.Balance.Cents != 0 {
		t.Errorf("empty summary has totals: %+v", s)
	}
	if len(s.UpcomingInstallments) != 0 {
		t.Errorf("empty summary has upcoming rows: %+v", s.UpcomingInstallments)
	}
}
