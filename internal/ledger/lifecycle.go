package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/storage"
)

// RecordLifecycle is the only entry point through which ledger records are
// mutated. Every operation runs the record write and its paired balance
// adjustment inside one transaction; neither can commit without the other.
type RecordLifecycle struct {
	store    storage.Store
	adjuster Adjuster
	notify   func(ctx context.Context)
}

// NewRecordLifecycle creates a lifecycle over the given store.
func NewRecordLifecycle(store storage.Store) *RecordLifecycle {
	return &RecordLifecycle{store: store, adjuster: NewAdjuster()}
}

// SetNotify registers a callback invoked after every committed mutation,
// used to push fresh snapshots to record subscribers. It must be called
// before the lifecycle is shared between goroutines.
func (l *RecordLifecycle) SetNotify(fn func(ctx context.Context)) {
	l.notify = fn
}

func (l *RecordLifecycle) committed(ctx context.Context) {
	if l.notify != nil {
		l.notify(ctx)
	}
}

// Create inserts the record and applies its balance adjustment, returning
// the assigned record ID.
func (l *RecordLifecycle) Create(ctx context.Context, rec *models.LedgerRecord) (string, error) {
	err := l.store.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.InsertRecord(ctx, rec); err != nil {
			return err
		}
		return l.adjuster.Apply(ctx, tx, CreateDeltas(rec))
	})
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	l.committed(ctx)
	return rec.ID, nil
}

// Update reads the existing record, applies the adjustment implied by the
// old/new pair, then persists the new version. Returns storage.ErrNotFound
// if the record does not exist.
func (l *RecordLifecycle) Update(ctx context.Context, rec *models.LedgerRecord) error {
	err := l.store.WithTx(ctx, func(tx storage.Tx) error {
		oldRec, err := tx.GetRecord(ctx, rec.ID)
		if err != nil {
			return err
		}
		if err := l.adjuster.Apply(ctx, tx, UpdateDeltas(oldRec, rec)); err != nil {
			return err
		}
		return tx.UpdateRecord(ctx, rec)
	})
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	l.committed(ctx)
	return nil
}

// Delete restores the record's balance adjustment and removes the row.
// Deleting a record that does not exist is a no-op.
func (l *RecordLifecycle) Delete(ctx context.Context, id string) error {
	deleted := false
	err := l.store.WithTx(ctx, func(tx storage.Tx) error {
		rec, err := tx.GetRecord(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := l.adjuster.Apply(ctx, tx, DeleteDeltas(rec)); err != nil {
			return err
		}
		deleted = true
		return tx.DeleteRecord(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if deleted {
		l.committed(ctx)
	}
	return nil
}
