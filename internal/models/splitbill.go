package models

import "github.com/shopspring/decimal"

// SplitBill represents a multi-item receipt being divided among named
// participants by per-item quantity. It owns its items and participants;
// deleting the bill deletes both.
type SplitBill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// Title is the human-readable name for the bill.
	Title string `json:"title"`

	// Merchant is where the bill was incurred.
	Merchant string `json:"merchant,omitempty"`

	// Date is the Unix timestamp of the receipt date.
	Date int64 `json:"date"`

	// TaxPercent and ServiceFeePercent are surcharges applied proportionally
	// to every participant's base amount.
	TaxPercent        decimal.Decimal `json:"taxPercent"`
	ServiceFeePercent decimal.Decimal `json:"serviceFeePercent"`

	// TotalAmount is the receipt grand total in minor units, as entered.
	TotalAmount int64 `json:"totalAmount"`

	// Items are the line items on the receipt.
	Items []SplitItem `json:"items"`

	// Participants are the people splitting the bill. Names are unique
	// within a bill.
	Participants []SplitParticipant `json:"participants"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"createdAt"`
}

// SplitItem is a single line item on a split bill.
type SplitItem struct {
	ID          string `json:"id"`
	SplitBillID string `json:"splitBillId"`

	// Description is the item name (e.g., "Nasi Goreng").
	Description string `json:"description"`

	// Price is the unit price in minor units.
	Price int64 `json:"price"`

	// Quantities maps participant name to the quantity assigned to them.
	// An absent key means zero. Quantity not attributed to anyone still
	// counts toward the item total; partially-assigned items are allowed
	// mid-edit.
	Quantities map[string]int64 `json:"quantities"`
}

// TotalQuantity is the sum of all assigned quantities on the item.
func (it SplitItem) TotalQuantity() int64 {
	var n int64
	for _, q := range it.Quantities {
		n += q
	}
	return n
}

// TotalValue is Price multiplied by TotalQuantity, in minor units.
func (it SplitItem) TotalValue() int64 {
	return it.Price * it.TotalQuantity()
}

// SplitParticipant is one person on a split bill.
type SplitParticipant struct {
	ID          string `json:"id"`
	SplitBillID string `json:"splitBillId"`

	// Name identifies the participant; unique within the bill.
	Name string `json:"name"`

	// ShareAmount is this participant's final cost in minor units. It is
	// derived by the allocation engine on every save and never set directly.
	ShareAmount int64 `json:"shareAmount"`

	// Note is an optional free-form note (e.g., "paid in cash").
	Note string `json:"note,omitempty"`
}
