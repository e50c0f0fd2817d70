// Package storage provides the SQLite-backed ledger repository.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"affitti/internal/core"
)

var ErrNotFound = errors.New("transaction not found")

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database, verifies the connection and
// applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (tx_date, tx_type, category, amount_cents, description, guest_name, is_paid)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.Date.Format(dateLayout),
		string(tx.Type),
		string(tx.Category),
		tx.Amount.Cents,
		tx.Description,
		tx.GuestName,
		boolToInt(tx.IsPaid),
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("insert transaction id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Delete marks a transaction deleted. Rows are kept so the export
// history stays auditable.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	numID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET deleted_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`, numID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tx_date, tx_type, category, amount_cents, description, guest_name, is_paid
		FROM transactions
		WHERE deleted_at IS NULL
		ORDER BY tx_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Get returns a single transaction by numeric id, deleted rows included
// so the export worker can resolve events for removed entries.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tx_date, tx_type, category, amount_cents, description, guest_name, is_paid
		FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	return tx, err
}

// GetPendingExports returns transactions waiting for the sheet export,
// oldest first.
func (r *SQLiteRepository) GetPendingExports(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tx_date, tx_type, category, amount_cents, description, guest_name, is_paid
		FROM transactions
		WHERE export_status = 'pending' AND deleted_at IS NULL
		ORDER BY id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending exports: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET export_status = 'exported', export_error = NULL
		WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64, msg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET export_status = 'error', export_error = ?
		WHERE id = ?`, msg, id)
	if err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		id      int64
		date    string
		txType  string
		cat     string
		cents   int64
		desc    string
		guest   string
		paidInt int
	)
	if err := row.Scan(&id, &date, &txType, &cat, &cents, &desc, &guest, &paidInt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	d, err := parseDate(date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          strconv.FormatInt(id, 10),
		Date:        d,
		Type:        core.TransactionType(txType),
		Category:    core.Category(cat),
		Amount:      core.Money{Cents: cents},
		Description: desc,
		GuestName:   guest,
		IsPaid:      paidInt != 0,
	}, nil
}

func parseDate(s string) (core.Date, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.NewDate(y, m, d), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
