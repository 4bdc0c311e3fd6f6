package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nossosgastos/internal/core"
	"nossosgastos/internal/storage"

	"github.com/google/uuid"
)

// RecurringProcessor materializes due recurring templates and salaries
// into ledger rows.
type RecurringProcessor struct {
	storage *storage.SQLiteRepository
	ledger  *LedgerService
}

func NewRecurringProcessor(storage *storage.SQLiteRepository, ledger *LedgerService) *RecurringProcessor {
	return &RecurringProcessor{
		storage: storage,
		ledger:  ledger,
	}
}

// ProcessDue runs one pass over active templates and salaries, creating
// ledger rows for everything due at now. Per-template failures are logged
// and skipped so one broken template cannot stall the rest.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil || p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	processed, err := p.processRecurring(ctx, now)
	if err != nil {
		return processed, err
	}
	salaryCount, err := p.processSalaries(ctx, now)
	processed += salaryCount
	if err != nil {
		return processed, err
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"processed", processed,
		"processing_date", now.Format("2006-01-02"))
	return processed, nil
}

func (p *RecurringProcessor) processRecurring(ctx context.Context, now time.Time) (int, error) {
	templates, err := p.storage.ListActiveRecurring(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active recurring templates: %w", err)
	}

	processed := 0
	for _, rt := range templates {
		checker, err := GetDuenessChecker(rt.Frequency)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping template with unknown frequency",
				"recurring_id", rt.ID, "error", err)
			continue
		}
		if !checker.IsDue(rt.LastExecution, now, rt.DayOfMonth, rt.MonthOfYear) {
			continue
		}

		row := core.Transaction{
			ID:            uuid.NewString(),
			Type:          rt.Type,
			Description:   rt.Description,
			Amount:        rt.Amount,
			CategoryID:    rt.CategoryID,
			StatementDate: core.ClampedDate(now.Year(), int(now.Month()), rt.DayOfMonth),
			Person:        rt.Person,
		}
		if err := p.storage.CreateTransaction(ctx, row); err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring template",
				"recurring_id", rt.ID,
				"description", rt.Description,
				"error", err)
			continue
		}
		if err := p.storage.UpdateRecurringLastExecution(ctx, rt.ID, now); err != nil {
			// The row was created; a stale marker only risks a duplicate
			// on the next pass.
			slog.ErrorContext(ctx, "Failed to update last execution",
				"recurring_id", rt.ID, "error", err)
		}

		processed++
		slog.InfoContext(ctx, "Materialized recurring template",
			"recurring_id", rt.ID,
			"description", rt.Description,
			"amount_cents", rt.Amount.Cents,
			"frequency", string(rt.Frequency))
	}
	return processed, nil
}

func (p *RecurringProcessor) processSalaries(ctx context.Context, now time.Time) (int, error) {
	salaries, err := p.storage.ListActiveSalaries(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active salaries: %w", err)
	}

	monthly := MonthlyChecker{}
	processed := 0
	for _, s := range salaries {
		if !monthly.IsDue(s.LastExecution, now, s.PayDay, 0) {
			continue
		}

		row := core.Transaction{
			ID:            uuid.NewString(),
			Type:          core.Income,
			Description:   s.Name,
			Amount:        s.Amount,
			CategoryID:    "salary",
			StatementDate: core.ClampedDate(now.Year(), int(now.Month()), s.PayDay),
			Person:        s.Person,
		}
		if err := p.storage.CreateTransaction(ctx, row); err != nil {
			slog.ErrorContext(ctx, "Failed to materialize salary",
				"salary_id", s.ID, "name", s.Name, "error", err)
			continue
		}
		if err := p.storage.UpdateSalaryLastExecution(ctx, s.ID, now); err != nil {
			slog.ErrorContext(ctx, "Failed to update salary last execution",
				"salary_id", s.ID, "error", err)
		}

		processed++
		slog.InfoContext(ctx, "Materialized salary",
			"salary_id", s.ID,
			"name", s.Name,
			"amount_cents", s.Amount.Cents)
	}
	return processed, nil
}
