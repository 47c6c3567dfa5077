package models

// Account represents a money account whose balance tracks the ledger.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string `json:"id"`

	// Name is the display name of the account (e.g., "Cash", "Checking").
	Name string `json:"name"`

	// Balance is the current balance in minor units. It is only ever mutated
	// through balance deltas applied by the ledger, never recomputed from a
	// full scan of records.
	Balance int64 `json:"balance"`

	// Description is an optional free-form note about the account.
	Description string `json:"description,omitempty"`

	// Editable is false for built-in accounts that the UI must not rename
	// or delete.
	Editable bool `json:"editable"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last balance or metadata change.
	UpdatedAt int64 `json:"updatedAt"`
}
