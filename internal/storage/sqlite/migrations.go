package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Cascade order on split-bill deletion is handled explicitly by the lifecycle
// layer; the foreign keys here are a backstop, not the mechanism.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    balance INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    editable INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_records (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    amount INTEGER NOT NULL,
    kind TEXT NOT NULL,
    date INTEGER NOT NULL,
    category_id TEXT,
    account_id TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_bills (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    merchant TEXT NOT NULL DEFAULT '',
    date INTEGER NOT NULL,
    tax_percent TEXT NOT NULL,
    service_fee_percent TEXT NOT NULL,
    total_amount INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_items (
    id TEXT PRIMARY KEY,
    split_bill_id TEXT NOT NULL,
    description TEXT NOT NULL,
    price INTEGER NOT NULL,
    FOREIGN KEY (split_bill_id) REFERENCES split_bills(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_item_quantities (
    item_id TEXT NOT NULL,
    participant TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    PRIMARY KEY (item_id, participant),
    FOREIGN KEY (item_id) REFERENCES split_items(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_participants (
    id TEXT PRIMARY KEY,
    split_bill_id TEXT NOT NULL,
    name TEXT NOT NULL,
    share_amount INTEGER NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    UNIQUE (split_bill_id, name),
    FOREIGN KEY (split_bill_id) REFERENCES split_bills(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS credentials (
    id TEXT PRIMARY KEY,
    service_name TEXT NOT NULL,
    username TEXT NOT NULL,
    secret BLOB NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS vault_files (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    size INTEGER NOT NULL,
    data BLOB NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_account_id ON ledger_records(account_id);
CREATE INDEX IF NOT EXISTS idx_records_date ON ledger_records(date);
CREATE INDEX IF NOT EXISTS idx_split_items_bill_id ON split_items(split_bill_id);
CREATE INDEX IF NOT EXISTS idx_split_item_quantities_item_id ON split_item_quantities(item_id);
CREATE INDEX IF NOT EXISTS idx_split_participants_bill_id ON split_participants(split_bill_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
