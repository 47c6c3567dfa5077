package models

// RecordKind distinguishes expense entries from income entries.
type RecordKind string

const (
	KindExpense RecordKind = "EXPENSE"
	KindIncome  RecordKind = "INCOME"
)

// LedgerRecord represents a single bill or transaction entry.
// Bills and transactions share this shape; bills are always EXPENSE.
type LedgerRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string `json:"id"`

	// Title is the human-readable name for the record.
	Title string `json:"title"`

	// Amount is the positive magnitude of the record in minor units.
	// The direction comes from Kind, not the sign.
	Amount int64 `json:"amount"`

	// Kind is EXPENSE or INCOME.
	Kind RecordKind `json:"kind"`

	// Date is the Unix timestamp of the record's effective date.
	Date int64 `json:"date"`

	// CategoryID links the record to a Category, or nil if uncategorized.
	CategoryID *string `json:"categoryId,omitempty"`

	// AccountID links the record to an Account, or nil if unassigned.
	// A record keeps working after its account is deleted; balance
	// adjustments for a stale reference are silently skipped.
	AccountID *string `json:"accountId,omitempty"`

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64 `json:"createdAt"`
}

// Category is a user-defined grouping for ledger records.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}
