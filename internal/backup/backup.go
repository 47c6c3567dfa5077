// Package backup reads and writes .onevault backup blobs: an encrypted
// wrapper around a JSON document holding every vault collection.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onevault/onevault/internal/ledger"
	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/secrets"
	"github.com/onevault/onevault/internal/split"
	"github.com/onevault/onevault/internal/storage"
)

// Version is the current backup document version.
const Version = 1

// FileExtension is the conventional extension for backup blobs.
const FileExtension = ".onevault"

// Document is the decrypted backup payload.
type Document struct {
	Version               int                   `json:"version"`
	CreatedAt             time.Time             `json:"createdAt"`
	Transactions          []models.LedgerRecord `json:"transactions"`
	Credentials           []models.Credential   `json:"credentials"`
	Accounts              []models.Account      `json:"accounts"`
	TransactionCategories []models.Category     `json:"transactionCategories"`
	VaultFiles            []models.VaultFile    `json:"vaultFiles"`
	SplitBills            []models.SplitBill    `json:"splitBills"`
}

// ImportMode selects how records enter the store on import.
type ImportMode string

const (
	// ModeRaw restores every row directly, balances included, bypassing
	// the balance adjuster. This is the mode for restoring a full backup:
	// the exported balances already reflect the exported records, so
	// replaying the deltas would double-apply them.
	ModeRaw ImportMode = "raw"

	// ModeReplay pushes each record through the normal create path, with
	// balance side effects. Meant for merging records into an existing
	// vault whose accounts treat the imported balances as baselines.
	ModeReplay ImportMode = "replay"
)

// Manager exports and imports vault backups.
type Manager struct {
	store   storage.Store
	records *ledger.RecordLifecycle
	bills   *split.BillLifecycle
	cipher  *secrets.Cipher
}

// NewManager creates a backup manager. records and bills are used only by
// replay imports.
func NewManager(store storage.Store, records *ledger.RecordLifecycle, bills *split.BillLifecycle, cipher *secrets.Cipher) *Manager {
	return &Manager{store: store, records: records, bills: bills, cipher: cipher}
}

// Export gathers every collection in one transaction and returns the
// encrypted blob.
func (m *Manager) Export(ctx context.Context) ([]byte, error) {
	doc := Document{Version: Version, CreatedAt: time.Now().UTC()}

	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		if doc.Transactions, err = tx.ListRecords(ctx); err != nil {
			return err
		}
		if doc.Credentials, err = tx.ListCredentials(ctx); err != nil {
			return err
		}
		if doc.Accounts, err = tx.ListAccounts(ctx); err != nil {
			return err
		}
		if doc.TransactionCategories, err = tx.ListCategories(ctx); err != nil {
			return err
		}
		if doc.VaultFiles, err = tx.ListVaultFiles(ctx); err != nil {
			return err
		}
		if doc.SplitBills, err = tx.ListSplitBills(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("export backup: %w", err)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("export backup: %w", err)
	}
	blob, err := m.cipher.Encrypt(payload)
	if err != nil {
		return nil, fmt.Errorf("export backup: %w", err)
	}
	return blob, nil
}

// Decode decrypts and parses a backup blob without touching the store.
func (m *Manager) Decode(blob []byte) (*Document, error) {
	payload, err := m.cipher.Decrypt(blob)
	if err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	doc := &Document{}
	if err := json.Unmarshal(payload, doc); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("decode backup: unsupported version %d", doc.Version)
	}
	return doc, nil
}

// Import restores a backup blob into the store using the given mode.
func (m *Manager) Import(ctx context.Context, blob []byte, mode ImportMode) error {
	doc, err := m.Decode(blob)
	if err != nil {
		return err
	}
	switch mode {
	case ModeRaw:
		return m.importRaw(ctx, doc)
	case ModeReplay:
		return m.importReplay(ctx, doc)
	default:
		return fmt.Errorf("import backup: unknown mode %q", mode)
	}
}

// importRaw restores every row verbatim in one transaction. No balance
// adjustments run; the document's balances are the truth.
func (m *Manager) importRaw(ctx context.Context, doc *Document) error {
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		for i := range doc.Accounts {
			if err := tx.CreateAccount(ctx, &doc.Accounts[i]); err != nil {
				return err
			}
		}
		for i := range doc.TransactionCategories {
			if err := tx.CreateCategory(ctx, &doc.TransactionCategories[i]); err != nil {
				return err
			}
		}
		for i := range doc.Transactions {
			if err := tx.InsertRecord(ctx, &doc.Transactions[i]); err != nil {
				return err
			}
		}
		for i := range doc.Credentials {
			if err := tx.PutCredential(ctx, &doc.Credentials[i]); err != nil {
				return err
			}
		}
		for i := range doc.VaultFiles {
			if err := tx.PutVaultFile(ctx, &doc.VaultFiles[i]); err != nil {
				return err
			}
		}
		for i := range doc.SplitBills {
			if err := importRawBill(ctx, tx, &doc.SplitBills[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import backup: %w", err)
	}
	return nil
}

func importRawBill(ctx context.Context, tx storage.Tx, bill *models.SplitBill) error {
	if err := tx.UpsertSplitBill(ctx, bill); err != nil {
		return err
	}
	for i := range bill.Items {
		bill.Items[i].SplitBillID = bill.ID
		if err := tx.InsertSplitItem(ctx, &bill.Items[i]); err != nil {
			return err
		}
	}
	for i := range bill.Participants {
		bill.Participants[i].SplitBillID = bill.ID
		if err := tx.InsertSplitParticipant(ctx, &bill.Participants[i]); err != nil {
			return err
		}
	}
	return nil
}

// importReplay re-creates records and bills through their normal lifecycles,
// so balance deltas re-apply on top of the imported account balances. Each
// entity commits in its own transaction, mirroring how it was first created.
func (m *Manager) importReplay(ctx context.Context, doc *Document) error {
	for i := range doc.Accounts {
		if err := m.store.CreateAccount(ctx, &doc.Accounts[i]); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}
	}
	for i := range doc.TransactionCategories {
		if err := m.store.CreateCategory(ctx, &doc.TransactionCategories[i]); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}
	}
	for i := range doc.Transactions {
		if _, err := m.records.Create(ctx, &doc.Transactions[i]); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}
	}
	for i := range doc.Credentials {
		if err := m.store.PutCredential(ctx, &doc.Credentials[i]); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}
	}
	for i := range doc.VaultFiles {
		if err := m.store.PutVaultFile(ctx, &doc.VaultFiles[i]); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}
	}
	for i := range doc.SplitBills {
		if _, err := m.bills.Save(ctx, &doc.SplitBills[i]); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}
	}
	return nil
}
