package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"nossosgastos/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- Cards ---

func (r *SQLiteRepository) CreateCard(ctx context.Context, c core.Card) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cards (id, name, color, closing_day, due_day, best_purchase_day)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Color, c.ClosingDay, c.DueDay, nullableInt(c.BestPurchaseDay))
	if err != nil {
		return fmt.Errorf("create card: %w", err)
	}

	slog.InfoContext(ctx, "Card saved", "card_id", c.ID, "name", c.Name)
	return nil
}

func (r *SQLiteRepository) GetCard(ctx context.Context, id string) (core.Card, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, color, closing_day, due_day, best_purchase_day
		FROM cards WHERE id = ?`, id)
	return scanCard(row)
}

func (r *SQLiteRepository) ListCards(ctx context.Context) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, closing_day, due_day, best_purchase_day
		FROM cards ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []core.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *SQLiteRepository) UpdateCard(ctx context.Context, c core.Card) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cards SET name = ?, color = ?, closing_day = ?, due_day = ?, best_purchase_day = ?
		WHERE id = ?`,
		c.Name, c.Color, c.ClosingDay, c.DueDay, nullableInt(c.BestPurchaseDay), c.ID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return requireAffected(res, "card")
}

// DeleteCard removes a card registration only. Transactions referencing it
// are kept and become orphaned: they stop contributing to invoices.
func (r *SQLiteRepository) DeleteCard(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return requireAffected(res, "card")
}

// --- Transactions ---

const transactionColumns = `id, type, description, amount_cents, category_id,
	statement_date, person, card_id, is_installment, installment_current,
	installment_total, installment_group_id`

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, insertTransactionSQL, insertTransactionArgs(t)...)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"statement_date", t.StatementDate.String())
	return nil
}

// InsertInstallmentGroup writes all rows of one installment plan in a single
// SQL transaction. Either every installment lands or none does.
func (r *SQLiteRepository) InsertInstallmentGroup(ctx context.Context, rows []core.Transaction) error {
	if len(rows) == 0 {
		return errors.New("empty installment group")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin installment group: %w", err)
	}
	defer tx.Rollback()

	for _, t := range rows {
		if _, err := tx.ExecContext(ctx, insertTransactionSQL, insertTransactionArgs(t)...); err != nil {
			return fmt.Errorf("insert installment %d/%d: %w", t.InstallmentCurrent, t.InstallmentTotal, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit installment group: %w", err)
	}

	slog.InfoContext(ctx, "Installment group saved",
		"group_id", rows[0].InstallmentGroupID,
		"count", len(rows))
	return nil
}

// DeleteInstallmentGroup removes every row sharing the group id,
// all-or-nothing.
func (r *SQLiteRepository) DeleteInstallmentGroup(ctx context.Context, groupID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin group delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE installment_group_id = ?`, groupID)
	if err != nil {
		return fmt.Errorf("delete installment group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete installment group: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("installment group %s: %w", groupID, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit group delete: %w", err)
	}

	slog.InfoContext(ctx, "Installment group deleted", "group_id", groupID, "count", affected)
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res, "transaction")
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY statement_date, created_at`)
}

// ListTransactionsByMonth returns the rows whose statement date falls in the
// given YYYY-MM month.
func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, monthKey string) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE statement_date LIKE ? ORDER BY statement_date, created_at`,
		monthKey+"-%")
}

// ListGroup returns every row of one installment group.
func (r *SQLiteRepository) ListGroup(ctx context.Context, groupID string) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE installment_group_id = ? ORDER BY installment_current`,
		groupID)
}

// ListPendingSync returns transactions not yet mirrored to the spreadsheet.
func (r *SQLiteRepository) ListPendingSync(ctx context.Context, limit int) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE synced = 0 ORDER BY created_at LIMIT ?`,
		limit)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return requireAffected(res, "transaction")
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// --- scanning helpers ---

const insertTransactionSQL = `
	INSERT INTO transactions (id, type, description, amount_cents, category_id,
		statement_date, person, card_id, is_installment, installment_current,
		installment_total, installment_group_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertTransactionArgs(t core.Transaction) []any {
	return []any{
		t.ID, string(t.Type), t.Description, t.Amount.Cents, t.CategoryID,
		t.StatementDate.String(), string(t.Person), nullableString(t.CardID),
		t.IsInstallment, nullableInt(t.InstallmentCurrent),
		nullableInt(t.InstallmentTotal), nullableString(t.InstallmentGroupID),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (core.Card, error) {
	var c core.Card
	var best sql.NullInt64
	err := row.Scan(&c.ID, &c.Name, &c.Color, &c.ClosingDay, &c.DueDay, &best)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Card{}, fmt.Errorf("card: %w", ErrNotFound)
	}
	if err != nil {
		return core.Card{}, fmt.Errorf("scan card: %w", err)
	}
	c.BestPurchaseDay = int(best.Int64)
	return c, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var (
		txType, person, date string
		cardID, groupID      sql.NullString
		current, total       sql.NullInt64
	)
	err := row.Scan(&t.ID, &txType, &t.Description, &t.Amount.Cents, &t.CategoryID,
		&date, &person, &cardID, &t.IsInstallment, &current, &total, &groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction: %w", ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	t.Type = core.TransactionType(txType)
	t.Person = core.Person(person)
	t.CardID = cardID.String
	t.InstallmentCurrent = int(current.Int64)
	t.InstallmentTotal = int(total.Int64)
	t.InstallmentGroupID = groupID.String
	t.StatementDate, err = core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction date: %w", err)
	}
	return t, nil
}

func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireAffected(res sql.Result, what string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", what, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
