package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nossosgastos/internal/amqp"
	"nossosgastos/internal/core"
	"nossosgastos/internal/storage"

	"github.com/google/uuid"
)

// ErrCardNotFound is returned when a draft references an unregistered card.
var ErrCardNotFound = errors.New("card not found")

// EventPublisher is the slice of the AMQP client the ledger needs.
type EventPublisher interface {
	Publish(ctx context.Context, event *amqp.LedgerEvent) error
}

// LedgerService orchestrates ledger operations across SQLite and AMQP.
// Writes land locally first; event publication is best effort and never
// fails the request.
type LedgerService struct {
	storage   *storage.SQLiteRepository
	bus       EventPublisher
	reconcile bool
}

func NewLedgerService(storage *storage.SQLiteRepository, bus EventPublisher, reconcile bool) *LedgerService {
	return &LedgerService{
		storage:   storage,
		bus:       bus,
		reconcile: reconcile,
	}
}

// CreateTransaction resolves a draft's statement date and persists one
// ledger row. Card purchases land on the resolved statement due date;
// cash entries keep their purchase date.
func (s *LedgerService) CreateTransaction(ctx context.Context, draft core.Draft) (core.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}

	statementDate, err := s.resolveStatementDate(ctx, draft)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:            uuid.NewString(),
		Type:          draft.Type,
		Description:   draft.Description,
		Amount:        draft.Amount,
		CategoryID:    draft.CategoryID,
		StatementDate: statementDate,
		Person:        draft.Person,
		CardID:        draft.CardID,
	}
	if err := s.storage.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.NewTransactionEvent(amqp.KindTransactionCreated, tx.ID))
	return tx, nil
}

// CreateInstallmentPlan splits a draft into count installments, one per
// billing cycle, and persists them atomically.
func (s *LedgerService) CreateInstallmentPlan(ctx context.Context, draft core.Draft, count int, perInstallment core.Money) ([]core.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	opts := core.ScheduleOptions{
		PerInstallment: perInstallment,
		Reconcile:      s.reconcile,
	}
	if draft.CardID != "" {
		card, err := s.lookupCard(ctx, draft.CardID)
		if err != nil {
			return nil, err
		}
		opts.Dates = core.BillingSchedule(draft.PurchaseDate, &card, count)
	}

	rows, err := core.GenerateInstallments(draft, count, opts)
	if err != nil {
		return nil, err
	}
	if err := s.storage.InsertInstallmentGroup(ctx, rows); err != nil {
		return nil, fmt.Errorf("save installment group: %w", err)
	}

	s.publish(ctx, amqp.NewGroupEvent(amqp.KindGroupCreated, rows[0].InstallmentGroupID, len(rows)))
	return rows, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewTransactionEvent(amqp.KindTransactionDeleted, id))
	return nil
}

// DeleteInstallmentPlan removes every installment of a group. Partial
// deletion is not offered.
func (s *LedgerService) DeleteInstallmentPlan(ctx context.Context, groupID string) error {
	if err := s.storage.DeleteInstallmentGroup(ctx, groupID); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewGroupEvent(amqp.KindGroupDeleted, groupID, 0))
	return nil
}

// PreviewBilling reports where a purchase on the given date would land on
// the card's statement, without persisting anything.
func (s *LedgerService) PreviewBilling(ctx context.Context, purchase core.Date, cardID string) (*core.BillingInfo, error) {
	if err := purchase.Validate(); err != nil {
		return nil, err
	}
	card, err := s.lookupCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return core.ResolveBilling(purchase, &card), nil
}

// InstallmentPlans returns all installment groups with payment progress
// as of today.
func (s *LedgerService) InstallmentPlans(ctx context.Context) ([]core.InstallmentPlan, error) {
	txs, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.GroupInstallments(txs, core.Today()), nil
}

// UpcomingInvoices aggregates card charges into the six-month invoice
// window starting at the current month.
func (s *LedgerService) UpcomingInvoices(ctx context.Context) ([]core.MonthlyInvoice, error) {
	txs, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	cards, err := s.storage.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return core.AggregateInvoices(txs, cards, core.Today()), nil
}

// MonthSummary computes income, expenses, and balance for a YYYY-MM month.
func (s *LedgerService) MonthSummary(ctx context.Context, monthKey string) (core.Summary, error) {
	year, month, err := core.ParseMonthKey(monthKey)
	if err != nil {
		return core.Summary{}, err
	}
	txs, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list transactions: %w", err)
	}
	next := core.MonthKey(year, month+1)
	if month == 12 {
		next = core.MonthKey(year+1, 1)
	}
	return core.CalculateSummary(txs, monthKey, next), nil
}

func (s *LedgerService) Transactions(ctx context.Context, monthKey string) ([]core.Transaction, error) {
	if monthKey == "" {
		return s.storage.ListTransactions(ctx)
	}
	if _, _, err := core.ParseMonthKey(monthKey); err != nil {
		return nil, err
	}
	return s.storage.ListTransactionsByMonth(ctx, monthKey)
}

// --- cards ---

func (s *LedgerService) CreateCard(ctx context.Context, card core.Card) (core.Card, error) {
	if err := card.Validate(); err != nil {
		return core.Card{}, err
	}
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if err := s.storage.CreateCard(ctx, card); err != nil {
		return core.Card{}, err
	}
	return card, nil
}

func (s *LedgerService) ListCards(ctx context.Context) ([]core.Card, error) {
	return s.storage.ListCards(ctx)
}

func (s *LedgerService) UpdateCard(ctx context.Context, card core.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}
	return s.storage.UpdateCard(ctx, card)
}

func (s *LedgerService) DeleteCard(ctx context.Context, id string) error {
	return s.storage.DeleteCard(ctx, id)
}

// --- recurring templates and salaries ---

func (s *LedgerService) CreateRecurring(ctx context.Context, rt core.RecurringTransaction) (core.RecurringTransaction, error) {
	if err := rt.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	if err := s.storage.CreateRecurring(ctx, rt); err != nil {
		return core.RecurringTransaction{}, err
	}
	return rt, nil
}

func (s *LedgerService) ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	return s.storage.ListRecurring(ctx)
}

func (s *LedgerService) DeleteRecurring(ctx context.Context, id string) error {
	return s.storage.DeleteRecurring(ctx, id)
}

func (s *LedgerService) CreateSalary(ctx context.Context, salary core.Salary) (core.Salary, error) {
	if err := salary.Validate(); err != nil {
		return core.Salary{}, err
	}
	if salary.ID == "" {
		salary.ID = uuid.NewString()
	}
	if err := s.storage.CreateSalary(ctx, salary); err != nil {
		return core.Salary{}, err
	}
	return salary, nil
}

func (s *LedgerService) ListSalaries(ctx context.Context) ([]core.Salary, error) {
	return s.storage.ListSalaries(ctx)
}

func (s *LedgerService) DeleteSalary(ctx context.Context, id string) error {
	return s.storage.DeleteSalary(ctx, id)
}

// InvestmentStatus pairs a pot with the balance netted from its movements.
type InvestmentStatus struct {
	Investment core.Investment
	Balance    core.Money
}

func (s *LedgerService) CreateInvestment(ctx context.Context, inv core.Investment) (core.Investment, error) {
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if err := s.storage.CreateInvestment(ctx, inv); err != nil {
		return core.Investment{}, err
	}
	return inv, nil
}

func (s *LedgerService) Investments(ctx context.Context) ([]InvestmentStatus, error) {
	investments, err := s.storage.ListInvestments(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]InvestmentStatus, 0, len(investments))
	for _, inv := range investments {
		movements, err := s.storage.ListInvestmentMovements(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, InvestmentStatus{
			Investment: inv,
			Balance:    core.InvestmentBalance(movements),
		})
	}
	return statuses, nil
}

func (s *LedgerService) DeleteInvestment(ctx context.Context, id string) error {
	return s.storage.DeleteInvestment(ctx, id)
}

// RecordInvestmentMovement appends a deposit or withdrawal to an existing
// pot. A zero date means today.
func (s *LedgerService) RecordInvestmentMovement(ctx context.Context, m core.InvestmentMovement) (core.InvestmentMovement, error) {
	if err := m.Validate(); err != nil {
		return core.InvestmentMovement{}, err
	}
	if _, err := s.storage.GetInvestment(ctx, m.InvestmentID); err != nil {
		return core.InvestmentMovement{}, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Date.IsZero() {
		m.Date = core.Today()
	}
	if err := s.storage.CreateInvestmentMovement(ctx, m); err != nil {
		return core.InvestmentMovement{}, err
	}
	return m, nil
}

// --- helpers ---

func (s *LedgerService) resolveStatementDate(ctx context.Context, draft core.Draft) (core.Date, error) {
	if draft.CardID == "" {
		return draft.PurchaseDate, nil
	}
	card, err := s.lookupCard(ctx, draft.CardID)
	if err != nil {
		return core.Date{}, err
	}
	return core.ResolveBilling(draft.PurchaseDate, &card).BillingDate, nil
}

func (s *LedgerService) lookupCard(ctx context.Context, cardID string) (core.Card, error) {
	card, err := s.storage.GetCard(ctx, cardID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Card{}, fmt.Errorf("card %s: %w", cardID, ErrCardNotFound)
	}
	if err != nil {
		return core.Card{}, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

func (s *LedgerService) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if s.bus == nil {
		slog.WarnContext(ctx, "Event bus not available, skipping publish", "kind", event.Kind)
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", event.Kind, "error", err)
	}
}

func (s *LedgerService) Close() error {
	return s.storage.Close()
}
