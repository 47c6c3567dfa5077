// Package ledger keeps account balances consistent with the lifecycle of
// ledger records. Delta computation is pure; applying deltas happens inside
// the same transaction as the record write that caused them.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/storage"
)

// Delta is one signed balance adjustment against one account.
type Delta struct {
	AccountID string
	Amount    int64
}

// CreateDeltas returns the adjustments implied by creating rec.
//
// Both EXPENSE and INCOME records subtract their amount from the linked
// account. That is the behavior the app has always had; the record kind is
// kept so a migration can revisit the convention, but the adjuster ignores it.
func CreateDeltas(rec *models.LedgerRecord) []Delta {
	if rec.AccountID == nil {
		return nil
	}
	return []Delta{{AccountID: *rec.AccountID, Amount: -rec.Amount}}
}

// UpdateDeltas returns the adjustments implied by editing oldRec into newRec.
//
// Moving the record between accounts restores the full amount to the old
// account and charges the new amount to the new one. An amount edit on the
// same account applies only the difference. Anything else is a no-op.
func UpdateDeltas(oldRec, newRec *models.LedgerRecord) []Delta {
	if !sameAccount(oldRec.AccountID, newRec.AccountID) {
		var out []Delta
		if oldRec.AccountID != nil {
			out = append(out, Delta{AccountID: *oldRec.AccountID, Amount: oldRec.Amount})
		}
		if newRec.AccountID != nil {
			out = append(out, Delta{AccountID: *newRec.AccountID, Amount: -newRec.Amount})
		}
		return out
	}
	if newRec.AccountID != nil && oldRec.Amount != newRec.Amount {
		return []Delta{{AccountID: *newRec.AccountID, Amount: -(newRec.Amount - oldRec.Amount)}}
	}
	return nil
}

// DeleteDeltas returns the adjustments implied by deleting rec: the full
// amount is restored to the linked account.
func DeleteDeltas(rec *models.LedgerRecord) []Delta {
	if rec.AccountID == nil {
		return nil
	}
	return []Delta{{AccountID: *rec.AccountID, Amount: rec.Amount}}
}

func sameAccount(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Adjuster applies balance deltas against a transaction-scoped account store.
type Adjuster struct {
	now func() time.Time
}

// NewAdjuster creates an Adjuster stamping account updates with the wall clock.
func NewAdjuster() Adjuster {
	return Adjuster{now: time.Now}
}

// Apply writes each delta to its account, one write per affected account.
// A delta against an account that no longer exists is silently skipped:
// ApplyBalanceDelta is a no-op on an absent id, which is what tolerates
// stale account references left behind by manual account deletion.
func (a Adjuster) Apply(ctx context.Context, accounts storage.AccountTx, deltas []Delta) error {
	now := a.now()
	for _, d := range deltas {
		if err := accounts.ApplyBalanceDelta(ctx, d.AccountID, d.Amount, now); err != nil {
			return fmt.Errorf("failed to adjust account %s: %w", d.AccountID, err)
		}
	}
	return nil
}
