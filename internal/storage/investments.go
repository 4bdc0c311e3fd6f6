package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"nossosgastos/internal/core"
)

func (r *SQLiteRepository) CreateInvestment(ctx context.Context, inv core.Investment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO investments (id, name, icon, color, goal_cents)
		VALUES (?, ?, ?, ?, ?)`,
		inv.ID, inv.Name, inv.Icon, inv.Color, inv.Goal.Cents)
	if err != nil {
		return fmt.Errorf("create investment: %w", err)
	}

	slog.InfoContext(ctx, "Investment saved", "investment_id", inv.ID, "name", inv.Name)
	return nil
}

func (r *SQLiteRepository) GetInvestment(ctx context.Context, id string) (core.Investment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, icon, color, goal_cents FROM investments WHERE id = ?`, id)
	return scanInvestment(row)
}

func (r *SQLiteRepository) ListInvestments(ctx context.Context) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, icon, color, goal_cents FROM investments ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var investments []core.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

// DeleteInvestment removes the pot and its whole movement history in one
// transaction.
func (r *SQLiteRepository) DeleteInvestment(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin investment delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM investment_movements WHERE investment_id = ?`, id); err != nil {
		return fmt.Errorf("delete investment movements: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("investment %s: %w", id, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit investment delete: %w", err)
	}

	slog.InfoContext(ctx, "Investment deleted", "investment_id", id)
	return nil
}

func (r *SQLiteRepository) CreateInvestmentMovement(ctx context.Context, m core.InvestmentMovement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO investment_movements (id, investment_id, type, amount_cents, date)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.InvestmentID, string(m.Type), m.Amount.Cents, m.Date.String())
	if err != nil {
		return fmt.Errorf("create investment movement: %w", err)
	}

	slog.InfoContext(ctx, "Investment movement saved",
		"movement_id", m.ID, "investment_id", m.InvestmentID,
		"type", string(m.Type), "amount_cents", m.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) ListInvestmentMovements(ctx context.Context, investmentID string) ([]core.InvestmentMovement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, investment_id, type, amount_cents, date
		FROM investment_movements
		WHERE investment_id = ?
		ORDER BY date, created_at, id`, investmentID)
	if err != nil {
		return nil, fmt.Errorf("list investment movements: %w", err)
	}
	defer rows.Close()

	var movements []core.InvestmentMovement
	for rows.Next() {
		var (
			m       core.InvestmentMovement
			movType string
			date    string
		)
		if err := rows.Scan(&m.ID, &m.InvestmentID, &movType, &m.Amount.Cents, &date); err != nil {
			return nil, fmt.Errorf("scan investment movement: %w", err)
		}
		m.Type = core.MovementType(movType)
		if m.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("scan investment movement date: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func scanInvestment(row rowScanner) (core.Investment, error) {
	var inv core.Investment
	err := row.Scan(&inv.ID, &inv.Name, &inv.Icon, &inv.Color, &inv.Goal.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Investment{}, fmt.Errorf("investment: %w", ErrNotFound)
	}
	if err != nil {
		return core.Investment{}, fmt.Errorf("scan investment: %w", err)
	}
	return inv, nil
}
