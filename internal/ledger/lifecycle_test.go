package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/storage"
	"github.com/onevault/onevault/internal/storage/sqlite"
)

func setup(t *testing.T) (*sqlite.SQLiteStore, *RecordLifecycle) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, NewRecordLifecycle(store)
}

func createAccount(t *testing.T, store *sqlite.SQLiteStore, name string, balance int64) string {
	t.Helper()
	account := &models.Account{Name: name, Balance: balance, Editable: true}
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	return account.ID
}

func balance(t *testing.T, store *sqlite.SQLiteStore, id string) int64 {
	t.Helper()
	account, err := store.GetAccount(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to get account: %v", err)
	}
	return account.Balance
}

// Create a bill, edit its amount, delete it: the balance must walk through
// 80000 and 50000 and come back to its initial value.
func TestRecordLifecycleCreateEditDelete(t *testing.T) {
	store, lifecycle := setup(t)
	ctx := context.Background()
	accountID := createAccount(t, store, "Cash", 100000)

	rec := &models.LedgerRecord{Title: "Dinner", Amount: 20000, Kind: models.KindExpense, AccountID: &accountID}
	id, err := lifecycle.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := balance(t, store, accountID); got != 80000 {
		t.Errorf("balance after create = %d, want 80000", got)
	}

	edited := *rec
	edited.ID = id
	edited.Amount = 50000
	if err := lifecycle.Update(ctx, &edited); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := balance(t, store, accountID); got != 50000 {
		t.Errorf("balance after edit = %d, want 50000", got)
	}

	if err := lifecycle.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := balance(t, store, accountID); got != 100000 {
		t.Errorf("balance after delete = %d, want 100000", got)
	}
}

// Moving a record from account A to B must leave A as if the record never
// touched it and charge B the full amount.
func TestRecordLifecycleReassignment(t *testing.T) {
	store, lifecycle := setup(t)
	ctx := context.Background()
	accountA := createAccount(t, store, "A", 100000)
	accountB := createAccount(t, store, "B", 50000)

	rec := &models.LedgerRecord{Title: "Groceries", Amount: 10000, Kind: models.KindExpense, AccountID: &accountA}
	id, err := lifecycle.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := balance(t, store, accountA); got != 90000 {
		t.Errorf("A after create = %d, want 90000", got)
	}

	moved := *rec
	moved.ID = id
	moved.AccountID = &accountB
	if err := lifecycle.Update(ctx, &moved); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := balance(t, store, accountA); got != 100000 {
		t.Errorf("A after reassignment = %d, want 100000", got)
	}
	if got := balance(t, store, accountB); got != 40000 {
		t.Errorf("B after reassignment = %d, want 40000", got)
	}
}

// A finite sequence of operations must leave the balance equal to the
// initial value minus the deltas of the records still attributed to it.
func TestBalanceConservation(t *testing.T) {
	store, lifecycle := setup(t)
	ctx := context.Background()
	accountID := createAccount(t, store, "Cash", 500000)

	var ids []string
	amounts := []int64{12345, 999, 70000}
	for _, amount := range amounts {
		rec := &models.LedgerRecord{Title: "op", Amount: amount, Kind: models.KindExpense, AccountID: &accountID}
		id, err := lifecycle.Create(ctx, rec)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, id)
	}

	// Edit the second, delete the third.
	edit := &models.LedgerRecord{ID: ids[1], Title: "op", Amount: 2000, Kind: models.KindExpense, AccountID: &accountID}
	if err := lifecycle.Update(ctx, edit); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := lifecycle.Delete(ctx, ids[2]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Remaining attribution: 12345 + 2000.
	want := int64(500000 - 12345 - 2000)
	if got := balance(t, store, accountID); got != want {
		t.Errorf("balance = %d, want %d", got, want)
	}
}

// INCOME records follow the same subtraction as EXPENSE; the convention is
// preserved from the original app, not corrected.
func TestIncomeSubtractsLikeExpense(t *testing.T) {
	store, lifecycle := setup(t)
	ctx := context.Background()
	accountID := createAccount(t, store, "Cash", 100000)

	rec := &models.LedgerRecord{Title: "Salary", Amount: 30000, Kind: models.KindIncome, AccountID: &accountID}
	if _, err := lifecycle.Create(ctx, rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := balance(t, store, accountID); got != 70000 {
		t.Errorf("balance = %d, want 70000", got)
	}
}

// Adjustments against a deleted account are skipped without failing the
// operation; other accounts in the same operation are still adjusted.
func TestStaleAccountReferenceSkipped(t *testing.T) {
	store, lifecycle := setup(t)
	ctx := context.Background()
	accountA := createAccount(t, store, "A", 100000)
	accountB := createAccount(t, store, "B", 50000)

	rec := &models.LedgerRecord{Title: "Taxi", Amount: 10000, Kind: models.KindExpense, AccountID: &accountA}
	id, err := lifecycle.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.DeleteAccount(ctx, accountA); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	// Reassign from the now-deleted A to B: A's restore is skipped, B is
	// charged normally.
	moved := *rec
	moved.ID = id
	moved.AccountID = &accountB
	if err := lifecycle.Update(ctx, &moved); err != nil {
		t.Fatalf("Update with stale account failed: %v", err)
	}
	if got := balance(t, store, accountB); got != 40000 {
		t.Errorf("B = %d, want 40000", got)
	}

	// Deleting the record after B is also gone must still succeed.
	if err := store.DeleteAccount(ctx, accountB); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if err := lifecycle.Delete(ctx, id); err != nil {
		t.Fatalf("Delete with stale account failed: %v", err)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	_, lifecycle := setup(t)
	err := lifecycle.Update(context.Background(), &models.LedgerRecord{
		ID: "nope", Title: "x", Amount: 1, Kind: models.KindExpense,
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update of missing record = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingRecordIsNoop(t *testing.T) {
	_, lifecycle := setup(t)
	if err := lifecycle.Delete(context.Background(), "nope"); err != nil {
		t.Errorf("Delete of missing record = %v, want nil", err)
	}
}

// Notify must fire once per committed mutation and not for no-op deletes.
func TestLifecycleNotify(t *testing.T) {
	store, lifecycle := setup(t)
	ctx := context.Background()
	accountID := createAccount(t, store, "Cash", 100000)

	notifications := 0
	lifecycle.SetNotify(func(context.Context) { notifications++ })

	rec := &models.LedgerRecord{Title: "Dinner", Amount: 20000, Kind: models.KindExpense, AccountID: &accountID}
	id, err := lifecycle.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := lifecycle.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := lifecycle.Delete(ctx, id); err != nil {
		t.Fatalf("repeat Delete failed: %v", err)
	}

	if notifications != 2 {
		t.Errorf("notifications = %d, want 2 (create + first delete)", notifications)
	}
}
