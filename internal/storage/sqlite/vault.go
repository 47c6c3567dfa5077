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

// PutCredential inserts or replaces a credential row.
func (q *queries) PutCredential(ctx context.Context, c *models.Credential) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO credentials (id, service_name, username, secret, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.ServiceName, c.Username, c.Secret, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put credential: %w", err)
	}
	return nil
}

// DeleteCredential removes a credential by ID. Deleting an absent
// credential is a no-op.
func (q *queries) DeleteCredential(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// ListCredentials returns all credentials ordered by service name.
func (q *queries) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, service_name, username, secret, created_at FROM credentials ORDER BY service_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	var out []models.Credential
	for rows.Next() {
		var c models.Credential
		if err := rows.Scan(&c.ID, &c.ServiceName, &c.Username, &c.Secret, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credentials: %w", err)
	}
	return out, nil
}

// PutVaultFile inserts or replaces a vault file row.
func (q *queries) PutVaultFile(ctx context.Context, f *models.VaultFile) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt == 0 {
		f.CreatedAt = time.Now().Unix()
	}
	if f.Size == 0 {
		f.Size = int64(len(f.Data))
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO vault_files (id, name, size, data, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.Size, f.Data, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put vault file: %w", err)
	}
	return nil
}

// DeleteVaultFile removes a vault file by ID. Deleting an absent file is
// a no-op.
func (q *queries) DeleteVaultFile(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM vault_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vault file: %w", err)
	}
	return nil
}

// ListVaultFiles returns all vault files ordered by name.
func (q *queries) ListVaultFiles(ctx context.Context) ([]models.VaultFile, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, size, data, created_at FROM vault_files ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vault files: %w", err)
	}
	defer rows.Close()

	var out []models.VaultFile
	for rows.Next() {
		var f models.VaultFile
		if err := rows.Scan(&f.ID, &f.Name, &f.Size, &f.Data, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vault file: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vault files: %w", err)
	}
	return out, nil
}

// GetSetting reads one settings value by key.
func (q *queries) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("setting %s: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}

// PutSetting writes one settings value.
func (q *queries) PutSetting(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to put setting: %w", err)
	}
	return nil
}
