package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/storage"
)

// CreateAccount persists a new account.
func (q *queries) CreateAccount(ctx context.Context, a *models.Account) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if a.CreatedAt == 0 {
		a.CreatedAt = now
	}
	if a.UpdatedAt == 0 {
		a.UpdatedAt = a.CreatedAt
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, balance, description, editable, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Balance, a.Description, a.Editable, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (q *queries) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	a := &models.Account{}
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, balance, description, editable, created_at, updated_at
		 FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Balance, &a.Description, &a.Editable, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// UpdateAccount overwrites an account's metadata. The balance column is
// deliberately not written: the struct's balance may be stale by the time
// this runs, and writing it back would clobber deltas committed in between.
// Balances move only through ApplyBalanceDelta.
func (q *queries) UpdateAccount(ctx context.Context, a *models.Account) error {
	a.UpdatedAt = time.Now().Unix()
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, description = ?, editable = ?, updated_at = ?
		 WHERE id = ?`,
		a.Name, a.Description, a.Editable, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %s: %w", a.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteAccount removes an account. Records referencing it keep their stale
// account id; later adjustments against it are silently skipped.
func (q *queries) DeleteAccount(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// ListAccounts returns all accounts ordered by name.
func (q *queries) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, balance, description, editable, created_at, updated_at
		 FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Balance, &a.Description, &a.Editable, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return out, nil
}

// ApplyBalanceDelta adds delta to the account balance in a single UPDATE, so
// the read and write of the balance cannot straddle transactions. A missing
// account affects zero rows and is deliberately not an error.
func (q *queries) ApplyBalanceDelta(ctx context.Context, id string, delta int64, now time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + ?, updated_at = ? WHERE id = ?`,
		delta, now.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}
	return nil
}
