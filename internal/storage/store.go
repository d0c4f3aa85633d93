// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is wrapped by every lookup that finds nothing.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// AppendRecords persists records in order. IDs and CreatedAt are
	// populated by the store. Either all records are stored or none.
	AppendRecords(ctx context.Context, records []*models.PaymentRecord) error

	// GetRecord retrieves a record by its ID.
	GetRecord(ctx context.Context, id string) (*models.PaymentRecord, error)

	// ListRecords returns the records of a period in insertion order.
	ListRecords(ctx context.Context, period string) ([]models.PaymentRecord, error)

	// DeleteRecord removes a record by ID.
	DeleteRecord(ctx context.Context, id string) error

	// ListPeriods returns every period that has records, sorted.
	ListPeriods(ctx context.Context) ([]string, error)

	// PutGroup creates a group or replaces its members.
	PutGroup(ctx context.Context, group *models.Group) error

	// ListGroups returns all groups sorted by name.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes a group by name.
	DeleteGroup(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}
