package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"nossosgastos/internal/core"
)

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, rt core.RecurringTransaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions (id, type, description, amount_cents,
			category_id, person, frequency, day_of_month, month_of_year, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID, string(rt.Type), rt.Description, rt.Amount.Cents, rt.CategoryID,
		string(rt.Person), string(rt.Frequency), rt.DayOfMonth, rt.MonthOfYear, rt.Active)
	if err != nil {
		return fmt.Errorf("create recurring transaction: %w", err)
	}

	slog.InfoContext(ctx, "Recurring transaction saved",
		"recurring_id", rt.ID, "description", rt.Description, "frequency", string(rt.Frequency))
	return nil
}

func (r *SQLiteRepository) ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	return r.queryRecurring(ctx, recurringSelect+` ORDER BY created_at, id`)
}

func (r *SQLiteRepository) ListActiveRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	return r.queryRecurring(ctx, recurringSelect+` WHERE active = 1 ORDER BY created_at, id`)
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring transaction: %w", err)
	}
	return requireAffected(res, "recurring transaction")
}

func (r *SQLiteRepository) UpdateRecurringLastExecution(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET last_execution = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("update recurring last execution: %w", err)
	}
	return requireAffected(res, "recurring transaction")
}

const recurringSelect = `
	SELECT id, type, description, amount_cents, category_id, person,
		frequency, day_of_month, month_of_year, active, last_execution
	FROM recurring_transactions`

func (r *SQLiteRepository) queryRecurring(ctx context.Context, query string, args ...any) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recurring transactions: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringTransaction
	for rows.Next() {
		var rt core.RecurringTransaction
		var txType, person, frequency string
		var last sql.NullTime
		err := rows.Scan(&rt.ID, &txType, &rt.Description, &rt.Amount.Cents,
			&rt.CategoryID, &person, &frequency, &rt.DayOfMonth, &rt.MonthOfYear,
			&rt.Active, &last)
		if err != nil {
			return nil, fmt.Errorf("scan recurring transaction: %w", err)
		}
		rt.Type = core.TransactionType(txType)
		rt.Person = core.Person(person)
		rt.Frequency = core.Frequency(frequency)
		rt.LastExecution = last.Time
		out = append(out, rt)
	}
	return out, rows.Err()
}

// --- Salaries ---

func (r *SQLiteRepository) CreateSalary(ctx context.Context, s core.Salary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO salaries (id, name, amount_cents, person, pay_day, active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Amount.Cents, string(s.Person), s.PayDay, s.Active)
	if err != nil {
		return fmt.Errorf("create salary: %w", err)
	}

	slog.InfoContext(ctx, "Salary saved", "salary_id", s.ID, "name", s.Name)
	return nil
}

func (r *SQLiteRepository) ListSalaries(ctx context.Context) ([]core.Salary, error) {
	return r.querySalaries(ctx, salarySelect+` ORDER BY created_at, id`)
}

func (r *SQLiteRepository) ListActiveSalaries(ctx context.Context) ([]core.Salary, error) {
	return r.querySalaries(ctx, salarySelect+` WHERE active = 1 ORDER BY created_at, id`)
}

func (r *SQLiteRepository) DeleteSalary(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM salaries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete salary: %w", err)
	}
	return requireAffected(res, "salary")
}

func (r *SQLiteRepository) UpdateSalaryLastExecution(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE salaries SET last_execution = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("update salary last execution: %w", err)
	}
	return requireAffected(res, "salary")
}

const salarySelect = `
	SELECT id, name, amount_cents, person, pay_day, active, last_execution
	FROM salaries`

func (r *SQLiteRepository) querySalaries(ctx context.Context, query string, args ...any) ([]core.Salary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query salaries: %w", err)
	}
	defer rows.Close()

	var out []core.Salary
	for rows.Next() {
		var s core.Salary
		var person string
		var last sql.NullTime
		if err := rows.Scan(&s.ID, &s.Name, &s.Amount.Cents, &person, &s.PayDay, &s.Active, &last); err != nil {
			return nil, fmt.Errorf("scan salary: %w", err)
		}
		s.Person = core.Person(person)
		s.LastExecution = last.Time
		out = append(out, s)
	}
	return out, rows.Err()
}
