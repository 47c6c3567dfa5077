package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/storage"
)

// UpsertSplitBill inserts or replaces the bill header row.
func (q *queries) UpsertSplitBill(ctx context.Context, bill *models.SplitBill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO split_bills (id, title, merchant, date, tax_percent, service_fee_percent, total_amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   title = excluded.title,
		   merchant = excluded.merchant,
		   date = excluded.date,
		   tax_percent = excluded.tax_percent,
		   service_fee_percent = excluded.service_fee_percent,
		   total_amount = excluded.total_amount`,
		bill.ID, bill.Title, bill.Merchant, bill.Date,
		bill.TaxPercent.String(), bill.ServiceFeePercent.String(),
		bill.TotalAmount, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert split bill: %w", err)
	}
	return nil
}

// DeleteSplitItems removes the bill's items and their quantity assignments.
func (q *queries) DeleteSplitItems(ctx context.Context, billID string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM split_item_quantities WHERE item_id IN
		   (SELECT id FROM split_items WHERE split_bill_id = ?)`, billID)
	if err != nil {
		return fmt.Errorf("failed to delete item quantities: %w", err)
	}
	if _, err := q.db.ExecContext(ctx, `DELETE FROM split_items WHERE split_bill_id = ?`, billID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	return nil
}

// DeleteSplitParticipants removes the bill's participant rows.
func (q *queries) DeleteSplitParticipants(ctx context.Context, billID string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM split_participants WHERE split_bill_id = ?`, billID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	return nil
}

// InsertSplitItem persists an item and its quantity assignments.
func (q *queries) InsertSplitItem(ctx context.Context, item *models.SplitItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO split_items (id, split_bill_id, description, price) VALUES (?, ?, ?, ?)`,
		item.ID, item.SplitBillID, item.Description, item.Price,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	for participant, qty := range item.Quantities {
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO split_item_quantities (item_id, participant, quantity) VALUES (?, ?, ?)`,
			item.ID, participant, qty,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item quantity: %w", err)
		}
	}
	return nil
}

// InsertSplitParticipant persists one participant row.
func (q *queries) InsertSplitParticipant(ctx context.Context, p *models.SplitParticipant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO split_participants (id, split_bill_id, name, share_amount, note)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.SplitBillID, p.Name, p.ShareAmount, p.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// DeleteSplitBill removes the bill header row.
func (q *queries) DeleteSplitBill(ctx context.Context, billID string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM split_bills WHERE id = ?`, billID); err != nil {
		return fmt.Errorf("failed to delete split bill: %w", err)
	}
	return nil
}

// GetSplitBill retrieves a bill by ID, including all items (with quantity
// assignments) and participants.
func (q *queries) GetSplitBill(ctx context.Context, id string) (*models.SplitBill, error) {
	bill := &models.SplitBill{}
	var taxStr, feeStr string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, title, merchant, date, tax_percent, service_fee_percent, total_amount, created_at
		 FROM split_bills WHERE id = ?`, id,
	).Scan(&bill.ID, &bill.Title, &bill.Merchant, &bill.Date, &taxStr, &feeStr, &bill.TotalAmount, &bill.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("split bill %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split bill: %w", err)
	}

	if bill.TaxPercent, err = decimal.NewFromString(taxStr); err != nil {
		return nil, fmt.Errorf("bad tax percent %q: %w", taxStr, err)
	}
	if bill.ServiceFeePercent, err = decimal.NewFromString(feeStr); err != nil {
		return nil, fmt.Errorf("bad service fee percent %q: %w", feeStr, err)
	}

	if err := q.loadSplitChildren(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// loadSplitChildren fills the bill's items and participants.
func (q *queries) loadSplitChildren(ctx context.Context, bill *models.SplitBill) error {
	itemRows, err := q.db.QueryContext(ctx,
		`SELECT id, description, price FROM split_items WHERE split_bill_id = ? ORDER BY rowid`, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := models.SplitItem{SplitBillID: bill.ID, Quantities: map[string]int64{}}
		if err := itemRows.Scan(&item.ID, &item.Description, &item.Price); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		bill.Items = append(bill.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		qtyRows, err := q.db.QueryContext(ctx,
			`SELECT participant, quantity FROM split_item_quantities WHERE item_id = ? ORDER BY participant`, item.ID)
		if err != nil {
			return fmt.Errorf("failed to get item quantities: %w", err)
		}
		for qtyRows.Next() {
			var participant string
			var qty int64
			if err := qtyRows.Scan(&participant, &qty); err != nil {
				qtyRows.Close()
				return fmt.Errorf("failed to scan item quantity: %w", err)
			}
			item.Quantities[participant] = qty
		}
		qtyRows.Close()
		if err := qtyRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate item quantities: %w", err)
		}
	}

	partRows, err := q.db.QueryContext(ctx,
		`SELECT id, name, share_amount, note FROM split_participants WHERE split_bill_id = ? ORDER BY name`, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer partRows.Close()

	for partRows.Next() {
		p := models.SplitParticipant{SplitBillID: bill.ID}
		if err := partRows.Scan(&p.ID, &p.Name, &p.ShareAmount, &p.Note); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		bill.Participants = append(bill.Participants, p)
	}
	if err := partRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

// ListSplitBills returns all bills fully loaded, newest first.
func (q *queries) ListSplitBills(ctx context.Context) ([]models.SplitBill, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id FROM split_bills ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list split bills: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan split bill id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split bills: %w", err)
	}

	var out []models.SplitBill
	for _, id := range ids {
		bill, err := q.GetSplitBill(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *bill)
	}
	return out, nil
}
