package split

import (
	"context"
	"fmt"

	"github.com/onevault/onevault/internal/ledger"
	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/storage"
)

// BillLifecycle orchestrates persistence of the split-bill aggregate and the
// export of a participant's share into the ledger.
type BillLifecycle struct {
	store   storage.Store
	records *ledger.RecordLifecycle
}

// NewBillLifecycle creates a lifecycle over the given store. Share exports
// go through records so they get the normal balance-adjustment path.
func NewBillLifecycle(store storage.Store, records *ledger.RecordLifecycle) *BillLifecycle {
	return &BillLifecycle{store: store, records: records}
}

// Save persists the bill header and fully replaces its item and participant
// sets in one transaction. Participants' share amounts are recomputed from
// the items before persisting; they are derived values and whatever the
// caller put there is ignored.
//
// Full replace is deliberate: child rows are deleted and reinserted rather
// than diffed, so concurrent edits to the same bill clobber each other.
// Acceptable for a single-user, single-device vault.
func (l *BillLifecycle) Save(ctx context.Context, bill *models.SplitBill) (string, error) {
	names := make([]string, len(bill.Participants))
	for i, p := range bill.Participants {
		names[i] = p.Name
	}
	shares := Allocate(bill.Items, names, bill.TaxPercent, bill.ServiceFeePercent)

	err := l.store.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.UpsertSplitBill(ctx, bill); err != nil {
			return err
		}
		if err := tx.DeleteSplitItems(ctx, bill.ID); err != nil {
			return err
		}
		if err := tx.DeleteSplitParticipants(ctx, bill.ID); err != nil {
			return err
		}
		for i := range bill.Items {
			item := &bill.Items[i]
			item.SplitBillID = bill.ID
			if err := tx.InsertSplitItem(ctx, item); err != nil {
				return err
			}
		}
		for i := range bill.Participants {
			p := &bill.Participants[i]
			p.SplitBillID = bill.ID
			p.ShareAmount = shares[p.Name].Total
			if err := tx.InsertSplitParticipant(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("save split bill: %w", err)
	}
	return bill.ID, nil
}

// Delete removes the bill and everything it owns in one transaction,
// cascading explicitly: items first, then participants, then the header.
func (l *BillLifecycle) Delete(ctx context.Context, id string) error {
	err := l.store.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.DeleteSplitItems(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteSplitParticipants(ctx, id); err != nil {
			return err
		}
		return tx.DeleteSplitBill(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete split bill: %w", err)
	}
	return nil
}

// ExportParticipantShare creates a new EXPENSE ledger record for the named
// participant's share of the bill, returning the new record's ID. Category
// and account are left unset for the user to assign later; the merchant
// stays on the bill, since records carry no merchant field. Loading and
// building mutate nothing, so a failure in the final create leaves no
// partial state behind.
func (l *BillLifecycle) ExportParticipantShare(ctx context.Context, billID, participantName string) (string, error) {
	bill, err := l.store.GetSplitBill(ctx, billID)
	if err != nil {
		return "", fmt.Errorf("export share: %w", err)
	}

	var participant *models.SplitParticipant
	for i := range bill.Participants {
		if bill.Participants[i].Name == participantName {
			participant = &bill.Participants[i]
			break
		}
	}
	if participant == nil {
		return "", fmt.Errorf("export share: participant %q on bill %s: %w",
			participantName, billID, storage.ErrNotFound)
	}

	rec := &models.LedgerRecord{
		Title:  fmt.Sprintf("%s – %s's share", bill.Title, participant.Name),
		Amount: participant.ShareAmount,
		Kind:   models.KindExpense,
		Date:   bill.Date,
	}
	id, err := l.records.Create(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("export share: %w", err)
	}
	return id, nil
}
