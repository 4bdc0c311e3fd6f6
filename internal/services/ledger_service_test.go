package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"nossosgastos/internal/amqp"
	"nossosgastos/internal/core"
	"nossosgastos/internal/storage"
)

// recordingBus captures published events without a broker.
type recordingBus struct {
	events []*amqp.LedgerEvent
	fail   bool
}

func (b *recordingBus) Publish(_ context.Context, event *amqp.LedgerEvent) error {
	if b.fail {
		return errors.New("broker unavailable")
	}
	b.events = append(b.events, event)
	return nil
}

func newTestLedger(t *testing.T, bus EventPublisher) (*LedgerService, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewLedgerService(repo, bus, false), repo
}

func testCard(t *testing.T, ledger *LedgerService) core.Card {
	t.Helper()
	card, err := ledger.CreateCard(context.Background(), core.Card{
		Name:       "Nubank",
		Color:      "#820ad1",
		ClosingDay: 27,
		DueDay:     5,
	})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	return card
}

func testDraft(cardID string, purchase string) core.Draft {
	d, _ := core.ParseDate(purchase)
	return core.Draft{
		Type:         core.Expense,
		Description:  "Geladeira nova",
		Amount:       core.Money{Cents: 100001},
		CategoryID:   "home",
		PurchaseDate: d,
		Person:       core.PersonNos,
		CardID:       cardID,
	}
}

func TestCreateTransactionResolvesStatementDate(t *testing.T) {
	bus := &recordingBus{}
	ledger, _ := newTestLedger(t, bus)
	ctx := context.Background()
	card := testCard(t, ledger)

	// Purchase before the closing day lands on next month's due date.
	tx, err := ledger.CreateTransaction(ctx, testDraft(card.ID, "2024-12-07"))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if got := tx.StatementDate.String(); got != "2025-01-05" {
		t.Errorf("StatementDate = %s, want 2025-01-05", got)
	}

	// Purchase on the closing day stays in the sooner cycle.
	tx, err = ledger.CreateTransaction(ctx, testDraft(card.ID, "2024-12-27"))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if got := tx.StatementDate.String(); got != "2025-01-05" {
		t.Errorf("closing-day StatementDate = %s, want 2025-01-05", got)
	}

	// Purchase after the closing day skips a cycle.
	tx, err = ledger.CreateTransaction(ctx, testDraft(card.ID, "2024-12-28"))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if got := tx.StatementDate.String(); got != "2025-02-05" {
		t.Errorf("post-closing StatementDate = %s, want 2025-02-05", got)
	}

	if len(bus.events) != 3 {
		t.Errorf("published %d events, want 3", len(bus.events))
	}
	for _, e := range bus.events {
		if e.Kind != amqp.KindTransactionCreated {
			t.Errorf("event kind = %s", e.Kind)
		}
	}
}

func TestCreateTransactionCashKeepsPurchaseDate(t *testing.T) {
	ledger, _ := newTestLedger(t, nil)

	tx, err := ledger.CreateTransaction(context.Background(), testDraft("", "2026-08-29"))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if got := tx.StatementDate.String(); got != "2026-08-29" {
		t.Errorf("cash StatementDate = %s, want purchase date", got)
	}
}

func TestCreateTransactionUnknownCard(t *testing.T) {
	ledger, _ := newTestLedger(t, nil)

	_, err := ledger.CreateTransaction(context.Background(), testDraft("missing", "2026-08-29"))
	if !errors.Is(err, ErrCardNotFound) {
		t.Errorf("err = %v, want ErrCardNotFound", err)
	}
}

func TestCreateTransactionBusFailureDoesNotFailRequest(t *testing.T) {
	ledger, repo := newTestLedger(t, &recordingBus{fail: true})
	ctx := context.Background()

	tx, err := ledger.CreateTransaction(ctx, testDraft("", "2026-08-29"))
	if err != nil {
		t.Fatalf("CreateTransaction with failing bus: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, tx.ID); err != nil {
		t.Errorf("transaction not persisted: %v", err)
	}
}

func TestCreateInstallmentPlan(t *testing.T) {
	bus := &recordingBus{}
	ledger, repo := newTestLedger(t, bus)
	ctx := context.Background()
	card := testCard(t, ledger)

	rows, err := ledger.CreateInstallmentPlan(ctx, testDraft(card.ID, "2024-12-07"), 3, core.Money{})
	if err != nil {
		t.Fatalf("CreateInstallmentPlan: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	wantDates := []string{"2025-01-05", "2025-02-05", "2025-03-05"}
	var sum int64
	for i, row := range rows {
		if got := row.StatementDate.String(); got != wantDates[i] {
			t.Errorf("installment %d date = %s, want %s", i+1, got, wantDates[i])
		}
		if row.InstallmentCurrent != i+1 || row.InstallmentTotal != 3 {
			t.Errorf("installment %d position = %d/%d", i+1, row.InstallmentCurrent, row.InstallmentTotal)
		}
		sum += row.Amount.Cents
	}
	// Unreconciled split: each part is the floor of total/count.
	if rows[0].Amount.Cents != 33333 || sum != 99999 {
		t.Errorf("split = %d each, sum %d", rows[0].Amount.Cents, sum)
	}

	stored, err := repo.ListGroup(ctx, rows[0].InstallmentGroupID)
	if err != nil {
		t.Fatalf("ListGroup: %v", err)
	}
	if len(stored) != 3 {
		t.Errorf("stored rows = %d, want 3", len(stored))
	}

	if len(bus.events) != 1 || bus.events[0].Kind != amqp.KindGroupCreated || bus.events[0].Count != 3 {
		t.Errorf("events = %+v, want one group_created with count 3", bus.events)
	}
}

func TestDeleteInstallmentPlan(t *testing.T) {
	bus := &recordingBus{}
	ledger, repo := newTestLedger(t, bus)
	ctx := context.Background()
	card := testCard(t, ledger)

	rows, err := ledger.CreateInstallmentPlan(ctx, testDraft(card.ID, "2024-12-07"), 4, core.Money{})
	if err != nil {
		t.Fatalf("CreateInstallmentPlan: %v", err)
	}

	if err := ledger.DeleteInstallmentPlan(ctx, rows[0].InstallmentGroupID); err != nil {
		t.Fatalf("DeleteInstallmentPlan: %v", err)
	}
	remaining, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("remaining rows = %d, want 0", len(remaining))
	}

	if err := ledger.DeleteInstallmentPlan(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing group delete = %v, want ErrNotFound", err)
	}
}

func TestPreviewBilling(t *testing.T) {
	ledger, _ := newTestLedger(t, nil)
	ctx := context.Background()
	card := testCard(t, ledger)

	purchase, _ := core.ParseDate("2024-12-28")
	info, err := ledger.PreviewBilling(ctx, purchase, card.ID)
	if err != nil {
		t.Fatalf("PreviewBilling: %v", err)
	}
	if info.BillingDate.String() != "2025-02-05" || !info.GoesToNextMonth {
		t.Errorf("preview = %+v", info)
	}

	if _, err := ledger.PreviewBilling(ctx, purchase, "missing"); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("missing card = %v, want ErrCardNotFound", err)
	}
}

func TestMonthSummary(t *testing.T) {
	ledger, _ := newTestLedger(t, nil)
	ctx := context.Background()

	expense := testDraft("", "2026-08-10")
	if _, err := ledger.CreateTransaction(ctx, expense); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	income := testDraft("", "2026-08-01")
	income.Type = core.Income
	income.Description = "Salário"
	income.Amount = core.Money{Cents: 500000}
	if _, err := ledger.CreateTransaction(ctx, income); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	summary, err := ledger.MonthSummary(ctx, "2026-08")
	if err != nil {
		t.Fatalf("MonthSummary: %v", err)
	}
	if summary.TotalIncome.Cents != 500000 || summary.TotalExpenses.Cents != 100001 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Balance.Cents != 399999 {
		t.Errorf("balance = %d, want 399999", summary.Balance.Cents)
	}

	if _, err := ledger.MonthSummary(ctx, "agosto"); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("bad month key = %v, want ErrInvalidDate", err)
	}
}

func TestRecurringProcessorMaterializes(t *testing.T) {
	ledger, repo := newTestLedger(t, nil)
	ctx := context.Background()

	_, err := ledger.CreateRecurring(ctx, core.RecurringTransaction{
		Type:        core.Expense,
		Description: "Aluguel",
		Amount:      core.Money{Cents: 250000},
		CategoryID:  "housing",
		Person:      core.PersonNos,
		Frequency:   core.Monthly,
		DayOfMonth:  5,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}
	if _, err := ledger.CreateSalary(ctx, core.Salary{
		Name:   "Salário dele",
		Amount: core.Money{Cents: 700000},
		Person: core.PersonEle,
		PayDay: 1,
		Active: true,
	}); err != nil {
		t.Fatalf("CreateSalary: %v", err)
	}

	processor := NewRecurringProcessor(repo, ledger)
	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	count, err := processor.ProcessDue(ctx, now)
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}
	if count != 2 {
		t.Fatalf("processed = %d, want 2", count)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("ledger rows = %d, want 2", len(txs))
	}
	byDesc := map[string]core.Transaction{}
	for _, tx := range txs {
		byDesc[tx.Description] = tx
	}
	if got := byDesc["Aluguel"].StatementDate.String(); got != "2026-08-05" {
		t.Errorf("rent date = %s, want 2026-08-05", got)
	}
	if byDesc["Salário dele"].Type != core.Income {
		t.Error("salary row should be income")
	}

	// A second pass in the same month is a no-op.
	count, err = processor.ProcessDue(ctx, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("second ProcessDue: %v", err)
	}
	if count != 0 {
		t.Errorf("second pass processed = %d, want 0", count)
	}
}

func TestInvestmentPots(t *testing.T) {
	ledger, _ := newTestLedger(t, &recordingBus{})
	ctx := context.Background()

	inv, err := ledger.CreateInvestment(ctx, core.Investment{Name: "Reserva", Goal: core.Money{Cents: 1000000}})
	if err != nil {
		t.Fatalf("CreateInvestment: %v", err)
	}
	if inv.ID == "" {
		t.Fatal("CreateInvestment assigned no id")
	}

	if _, err := ledger.RecordInvestmentMovement(ctx, core.InvestmentMovement{
		InvestmentID: inv.ID, Type: core.Deposit, Amount: core.Money{Cents: 100000},
	}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := ledger.RecordInvestmentMovement(ctx, core.InvestmentMovement{
		InvestmentID: inv.ID, Type: core.Withdraw, Amount: core.Money{Cents: 30000},
	}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	statuses, err := ledger.Investments(ctx)
	if err != nil {
		t.Fatalf("Investments: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("Investments len = %d, want 1", len(statuses))
	}
	if statuses[0].Balance.Cents != 70000 {
		t.Errorf("balance = %d, want 70000", statuses[0].Balance.Cents)
	}

	if _, err := ledger.RecordInvestmentMovement(ctx, core.InvestmentMovement{
		InvestmentID: "missing", Type: core.Deposit, Amount: core.Money{Cents: 100},
	}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("movement on missing pot = %v, want ErrNotFound", err)
	}

	if err := ledger.DeleteInvestment(ctx, inv.ID); err != nil {
		t.Fatalf("DeleteInvestment: %v", err)
	}
	statuses, err = ledger.Investments(ctx)
	if err != nil {
		t.Fatalf("Investments after delete: %v", err)
	}
	if len(statuses) != 0 {
		t.Errorf("Investments after delete = %+v, want none", statuses)
	}
}
