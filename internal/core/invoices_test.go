package core

import "testing"

func cardExpense(id, cardID string, cents int64, date Date, installment bool) Transaction {
	return Transaction{
		ID:            id,
		Type:          Expense,
		Description:   "compra " + id,
		Amount:        Money{Cents: cents},
		CategoryID:    "casa",
		StatementDate: date,
		Person:        PersonNos,
		CardID:        cardID,
		IsInstallment: installment,
	}
}

func TestAggregateInvoicesWindowSize(t *testing.T) {
	today := NewDate(2024, 11, 15)
	invoices := AggregateInvoices(nil, nil, today)
	if len(invoices) != 6 {
		t.Fatalf("len = %d, want 6", len(invoices))
	}
	want := []string{"2024-11", "2024-12", "2025-01", "2025-02", "2025-03", "2025-04"}
	for i, w := range want {
		if invoices[i].Month != w {
			t.Errorf("invoices[%d].Month = %s, want %s", i, invoices[i].Month, w)
		}
		if invoices[i].Total.Cents != 0 || len(invoices[i].Cards) != 0 {
			t.Errorf("empty month %s has data: %+v", w, invoices[i])
		}
	}
}

func TestAggregateInvoicesBucketing(t *testing.T) {
	cards := []Card{
		{ID: "nu", Name: "Nubank", Color: "#820ad1", ClosingDay: 26, DueDay: 5},
		{ID: "it", Name: "Itaú", Color: "#ec7000", ClosingDay: 10, DueDay: 20},
	}
	today := NewDate(2025, 1, 1)
	txs := []Transaction{
		cardExpense("t1", "nu", 5000, NewDate(2025, 1, 5), false),
		cardExpense("t2", "nu", 10000, NewDate(2025, 1, 5), true),
		cardExpense("t3", "it", 30000, NewDate(2025, 1, 20), false),
		cardExpense("t4", "nu", 7000, NewDate(2025, 2, 5), true),
		// Outside the 6-month window.
		cardExpense("t5", "nu", 9999, NewDate(2025, 8, 5), false),
		cardExpense("t6", "nu", 9999, NewDate(2024, 12, 5), false),
		// Income and cash rows never reach an invoice.
		{ID: "t7", Type: Income, Amount: Money{Cents: 500000}, StatementDate: NewDate(2025, 1, 5), CardID: "nu"},
		{ID: "t8", Type: Expense, Amount: Money{Cents: 2000}, StatementDate: NewDate(2025, 1, 7)},
	}

	invoices := AggregateInvoices(txs, cards, today)

	jan := invoices[0]
	if jan.Total.Cents != 45000 {
		t.Errorf("january total = %d, want 45000", jan.Total.Cents)
	}
	if len(jan.Cards) != 2 {
		t.Fatalf("january cards = %d, want 2", len(jan.Cards))
	}
	// Cards sort by total descending: Itaú (300) above Nubank (150).
	if jan.Cards[0].CardID != "it" || jan.Cards[1].CardID != "nu" {
		t.Errorf("card order = [%s, %s], want [it, nu]", jan.Cards[0].CardID, jan.Cards[1].CardID)
	}

	nu := jan.Cards[1]
	if nu.Total.Cents != 15000 {
		t.Errorf("nubank total = %d, want 15000", nu.Total.Cents)
	}
	if len(nu.Installments) != 1 || nu.Installments[0].ID != "t2" {
		t.Errorf("installments = %+v, want [t2]", nu.Installments)
	}
	if len(nu.AVista) != 1 || nu.AVista[0].ID != "t1" {
		t.Errorf("à vista = %+v, want [t1]", nu.AVista)
	}

	feb := invoices[1]
	if feb.Total.Cents != 7000 {
		t.Errorf("february total = %d, want 7000", feb.Total.Cents)
	}
}

func TestAggregateInvoicesExcludesOrphanedCards(t *testing.T) {
	cards := []Card{{ID: "nu", Name: "Nubank", ClosingDay: 26, DueDay: 5}}
	today := NewDate(2025, 1, 1)
	txs := []Transaction{
		cardExpense("t1", "deleted-card", 123456, NewDate(2025, 1, 5), false),
	}
	invoices := AggregateInvoices(txs, cards, today)
	for _, inv := range invoices {
		if inv.Total.Cents != 0 {
			t.Errorf("orphaned card contributed to %s: %d", inv.Month, inv.Total.Cents)
		}
	}
}

func TestAggregateInvoicesDecemberRollover(t *testing.T) {
	today := NewDate(2024, 12, 1)
	invoices := AggregateInvoices(nil, nil, today)
	want := []string{"2024-12", "2025-01", "2025-02", "2025-03", "2025-04", "2025-05"}
	for i, w := range want {
		if invoices[i].Month != w {
			t.Errorf("invoices[%d].Month = %s, want %s", i, invoices[i].Month, w)
		}
	}
}
