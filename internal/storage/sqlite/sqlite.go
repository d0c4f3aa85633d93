// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendRecords persists records in one transaction.
func (s *SQLiteStore) AppendRecords(ctx context.Context, records []*models.PaymentRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, r := range records {
		if r.Period == "" {
			return fmt.Errorf("record for %q has no period", r.Item)
		}
		// Generate IDs if not set
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.CreatedAt == 0 {
			r.CreatedAt = now
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (id, period, date, item, creditor, debtors, amount, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Period, r.Date, r.Item, r.Creditor, r.Debtors, r.Amount, r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRecord retrieves a record by ID.
func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*models.PaymentRecord, error) {
	r := &models.PaymentRecord{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, period, date, item, creditor, debtors, amount, created_at
		 FROM records WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.Period, &r.Date, &r.Item, &r.Creditor, &r.Debtors, &r.Amount, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return r, nil
}

// ListRecords returns the records of a period in insertion order.
func (s *SQLiteStore) ListRecords(ctx context.Context, period string) ([]models.PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, period, date, item, creditor, debtors, amount, created_at
		 FROM records WHERE period = ? ORDER BY rowid`,
		period,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []models.PaymentRecord
	for rows.Next() {
		var r models.PaymentRecord
		if err := rows.Scan(&r.ID, &r.Period, &r.Date, &r.Item, &r.Creditor, &r.Debtors, &r.Amount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// DeleteRecord removes a record by ID.
func (s *SQLiteStore) DeleteRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListPeriods returns every period that has at least one record.
func (s *SQLiteStore) ListPeriods(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT period FROM records ORDER BY period")
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate periods: %w", err)
	}

	return periods, nil
}
