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

// nullStr maps an optional id to its nullable column value.
func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func scanRecord(scan func(dest ...any) error) (*models.LedgerRecord, error) {
	rec := &models.LedgerRecord{}
	var categoryID, accountID sql.NullString
	if err := scan(&rec.ID, &rec.Title, &rec.Amount, (*string)(&rec.Kind), &rec.Date, &categoryID, &accountID, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		rec.CategoryID = &categoryID.String
	}
	if accountID.Valid {
		rec.AccountID = &accountID.String
	}
	return rec, nil
}

// InsertRecord persists a new ledger record.
func (q *queries) InsertRecord(ctx context.Context, rec *models.LedgerRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO ledger_records (id, title, amount, kind, date, category_id, account_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Amount, string(rec.Kind), rec.Date,
		nullStr(rec.CategoryID), nullStr(rec.AccountID), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// GetRecord retrieves a record by ID.
func (q *queries) GetRecord(ctx context.Context, id string) (*models.LedgerRecord, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, title, amount, kind, date, category_id, account_id, created_at
		 FROM ledger_records WHERE id = ?`, id)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// UpdateRecord overwrites an existing record.
func (q *queries) UpdateRecord(ctx context.Context, rec *models.LedgerRecord) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE ledger_records SET title = ?, amount = ?, kind = ?, date = ?, category_id = ?, account_id = ?
		 WHERE id = ?`,
		rec.Title, rec.Amount, string(rec.Kind), rec.Date,
		nullStr(rec.CategoryID), nullStr(rec.AccountID), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record %s: %w", rec.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteRecord removes a record by ID. Absent rows are a no-op.
func (q *queries) DeleteRecord(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM ledger_records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// ListRecords returns all records, newest date first.
func (q *queries) ListRecords(ctx context.Context) ([]models.LedgerRecord, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, title, amount, kind, date, category_id, account_id, created_at
		 FROM ledger_records ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []models.LedgerRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return out, nil
}

// CreateCategory persists a new record category.
func (q *queries) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category. Records keep a stale category id.
func (q *queries) DeleteCategory(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (q *queries) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return out, nil
}
