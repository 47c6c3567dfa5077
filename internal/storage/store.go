// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/onevault/onevault/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
// Callers check it with errors.Is.
var ErrNotFound = errors.New("not found")

// AccountTx holds the account operations.
type AccountTx interface {
	// CreateAccount persists a new account, populating ID and timestamps
	// if unset.
	CreateAccount(ctx context.Context, a *models.Account) error

	// GetAccount retrieves an account by ID, or ErrNotFound.
	GetAccount(ctx context.Context, id string) (*models.Account, error)

	// UpdateAccount overwrites an account's metadata, or ErrNotFound.
	// The balance is never written here; it moves only through
	// ApplyBalanceDelta.
	UpdateAccount(ctx context.Context, a *models.Account) error

	// DeleteAccount removes an account. Records referencing it keep their
	// stale account id.
	DeleteAccount(ctx context.Context, id string) error

	// ListAccounts returns all accounts.
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// ApplyBalanceDelta adds delta to the account's balance and stamps
	// UpdatedAt. If the account does not exist this is a no-op, not an
	// error: records may hold stale account references after a manual
	// account deletion.
	ApplyBalanceDelta(ctx context.Context, id string, delta int64, now time.Time) error
}

// RecordTx holds the ledger-record and category operations.
type RecordTx interface {
	// InsertRecord persists a new record, populating ID and CreatedAt
	// if unset.
	InsertRecord(ctx context.Context, rec *models.LedgerRecord) error

	// GetRecord retrieves a record by ID, or ErrNotFound.
	GetRecord(ctx context.Context, id string) (*models.LedgerRecord, error)

	// UpdateRecord overwrites an existing record, or ErrNotFound.
	UpdateRecord(ctx context.Context, rec *models.LedgerRecord) error

	// DeleteRecord removes a record by ID. Deleting an absent record is
	// a no-op.
	DeleteRecord(ctx context.Context, id string) error

	// ListRecords returns all records, newest first.
	ListRecords(ctx context.Context) ([]models.LedgerRecord, error)

	CreateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// SplitBillTx holds the split-bill operations. Header and children writes
// are separate so the lifecycle layer can spell out its full-replace and
// cascade-order semantics.
type SplitBillTx interface {
	// UpsertSplitBill inserts or replaces the bill header row only.
	UpsertSplitBill(ctx context.Context, bill *models.SplitBill) error

	// DeleteSplitItems removes all items (and their quantity assignments)
	// belonging to the bill.
	DeleteSplitItems(ctx context.Context, billID string) error

	// DeleteSplitParticipants removes all participants belonging to the bill.
	DeleteSplitParticipants(ctx context.Context, billID string) error

	// InsertSplitItem persists one item with its quantity assignments.
	InsertSplitItem(ctx context.Context, item *models.SplitItem) error

	// InsertSplitParticipant persists one participant row.
	InsertSplitParticipant(ctx context.Context, p *models.SplitParticipant) error

	// DeleteSplitBill removes the bill header row only.
	DeleteSplitBill(ctx context.Context, billID string) error

	// GetSplitBill retrieves a bill fully loaded with items and
	// participants, or ErrNotFound.
	GetSplitBill(ctx context.Context, id string) (*models.SplitBill, error)

	// ListSplitBills returns all bills fully loaded, newest first.
	ListSplitBills(ctx context.Context) ([]models.SplitBill, error)
}

// VaultTx holds the credential, file, and settings operations used by the
// backup layer and vault unlock.
type VaultTx interface {
	PutCredential(ctx context.Context, c *models.Credential) error
	DeleteCredential(ctx context.Context, id string) error
	ListCredentials(ctx context.Context) ([]models.Credential, error)

	PutVaultFile(ctx context.Context, f *models.VaultFile) error
	DeleteVaultFile(ctx context.Context, id string) error
	ListVaultFiles(ctx context.Context) ([]models.VaultFile, error)

	// GetSetting returns ErrNotFound for an absent key.
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
}

// Tx is the full set of operations, available both directly and inside one
// atomic transaction.
type Tx interface {
	AccountTx
	RecordTx
	SplitBillTx
	VaultTx
}

// Store defines the interface for vault storage. Methods called directly on
// the store run in their own implicit transaction. This abstraction allows
// swapping storage backends without changing the lifecycle or service layers.
type Store interface {
	Tx

	// WithTx runs fn inside a single atomic transaction. Any error from fn
	// rolls the whole transaction back; a record write and its paired
	// balance adjustment must never commit separately.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}
